package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"merchant/utils"
)

var secret = []byte("test-secret")

func serve(t *testing.T, h httprouter.Handle, header string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/merchant/orders", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h(rec, req, nil)
	return rec
}

func TestAuthenticate(t *testing.T) {
	var gotID, gotType string
	h := Authenticate(secret, func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gotID, gotType = utils.GetUserIDFromRequest(r), utils.GetUserTypeFromRequest(r)
	})

	valid, err := IssueToken(secret, "u1", "m@example.com", "merchant", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	expired, _ := IssueToken(secret, "u1", "m@example.com", "merchant", -time.Minute)
	foreign, _ := IssueToken([]byte("other"), "u1", "m@example.com", "merchant", time.Hour)

	cases := []struct {
		header string
		want   int
	}{
		{"", http.StatusUnauthorized},
		{"Token " + valid, http.StatusUnauthorized},
		{"Bearer " + expired, http.StatusForbidden},
		{"Bearer " + foreign, http.StatusForbidden},
		{"Bearer " + valid, http.StatusOK},
	}
	for _, tc := range cases {
		if rec := serve(t, h, tc.header); rec.Code != tc.want {
			t.Fatalf("%q: expected %d, got %d", tc.header, tc.want, rec.Code)
		}
	}
	if gotID != "u1" || gotType != "merchant" {
		t.Fatalf("claims not in context: %q %q", gotID, gotType)
	}
}

func TestMerchantOnly(t *testing.T) {
	h := Authenticate(secret, MerchantOnly(func(http.ResponseWriter, *http.Request, httprouter.Params) {}))
	customer, _ := IssueToken(secret, "u2", "c@example.com", "customer", time.Hour)
	if rec := serve(t, h, "Bearer "+customer); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer, got %d", rec.Code)
	}
}
