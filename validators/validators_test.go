package validators

import (
	"testing"

	"merchant/apperr"
)

func TestParsePrice(t *testing.T) {
	good := map[string]string{"4.5": "4.50", " 12 ": "12.00", "0.99": "0.99"}
	for in, want := range good {
		d, err := ParsePrice(in)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", in, err)
		}
		if got := d.StringFixed(2); got != want {
			t.Fatalf("%q: expected %s, got %s", in, want, got)
		}
	}
	for _, in := range []string{"", "abc", "0", "-1", "1.999"} {
		if _, err := ParsePrice(in); !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("%q: expected validation error, got %v", in, err)
		}
	}
}

func TestRequiredAndFirst(t *testing.T) {
	err := First(Required("name", "Bananas"), Required("price", "  "), Required("email", ""))
	e, ok := err.(*apperr.Error)
	if !ok || e.Field != "price" {
		t.Fatalf("expected first failing field price, got %v", err)
	}
	if First(nil, nil) != nil {
		t.Fatal("expected nil when nothing fails")
	}
}

func TestEmailAndPhone(t *testing.T) {
	if ValidateEmail("shop@example.com") != nil {
		t.Fatal("valid email rejected")
	}
	if ValidateEmail("shop@") == nil {
		t.Fatal("invalid email accepted")
	}
	if ValidatePhone("+44 7700 900123") != nil {
		t.Fatal("valid phone rejected")
	}
	if ValidatePhone("12ab") == nil {
		t.Fatal("invalid phone accepted")
	}
	if ValidateString("name", "Al", 3, 50) == nil {
		t.Fatal("short string accepted")
	}
}
