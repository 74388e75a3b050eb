package routes

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"merchant/devserver"
	"merchant/models"
	"merchant/ratelim"
)

func unlimited() Limiters {
	return Limiters{Auth: ratelim.NewRateLimiter(0, 1), Write: ratelim.NewRateLimiter(0, 1)}
}

func setup(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	srv := devserver.New([]byte("test-secret"), "")
	if err := srv.Seed("merchant@example.com", "merchant123"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	ts := httptest.NewServer(NewRouter(srv, unlimited(), ""))
	t.Cleanup(ts.Close)

	body := `{"email":"merchant@example.com","password":"merchant123"}`
	resp, err := http.Post(ts.URL+"/api/auth/login", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	defer resp.Body.Close()
	var res models.LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if !res.IsMerchant || res.Token == "" {
		t.Fatalf("unexpected login response %+v", res)
	}
	return ts, res.Token
}

func do(t *testing.T, method, url, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	ts, _ := setup(t)
	resp := do(t, http.MethodGet, ts.URL+"/health", "", "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestAuthenticationCodes(t *testing.T) {
	ts, _ := setup(t)
	cases := []struct {
		token string
		want  int
	}{
		{"", http.StatusUnauthorized},
		{"garbage", http.StatusForbidden},
	}
	for _, tc := range cases {
		resp := do(t, http.MethodGet, ts.URL+"/api/merchant/orders", tc.token, "")
		resp.Body.Close()
		if resp.StatusCode != tc.want {
			t.Fatalf("token %q: expected %d, got %d", tc.token, tc.want, resp.StatusCode)
		}
	}
}

func TestStatusUpdateRules(t *testing.T) {
	ts, token := setup(t)

	resp := do(t, http.MethodGet, ts.URL+"/api/merchant/orders", token, "")
	var list []models.Order
	json.NewDecoder(resp.Body).Decode(&list)
	resp.Body.Close()
	if len(list) == 0 {
		t.Fatal("expected seeded orders")
	}
	url := ts.URL + "/api/merchant/orders/" + strconv.FormatInt(list[0].ID, 10) + "/status"

	resp = do(t, http.MethodPut, url, token, `{"status":"archived","notes":""}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown status: expected 400, got %d", resp.StatusCode)
	}

	resp = do(t, http.MethodPut, url, token, `{"status":"ready for collection","notes":"shelf 2"}`)
	var o models.Order
	json.NewDecoder(resp.Body).Decode(&o)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || o.Status != models.StatusReadyForCollection {
		t.Fatalf("expected ready_for_collection, got %d %s", resp.StatusCode, o.Status)
	}

	resp = do(t, http.MethodPut, url, token, `{"status":"collected","notes":""}`)
	resp.Body.Close()
	resp = do(t, http.MethodPut, url, token, `{"status":"pending","notes":""}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("collected order: expected 409, got %d", resp.StatusCode)
	}
}

func TestOrderQR(t *testing.T) {
	ts, token := setup(t)
	resp := do(t, http.MethodGet, ts.URL+"/api/merchant/orders", token, "")
	var list []models.Order
	json.NewDecoder(resp.Body).Decode(&list)
	resp.Body.Close()

	resp = do(t, http.MethodGet, ts.URL+list[0].QRCodeURL, token, "")
	defer resp.Body.Close()
	if resp.Header.Get("Content-Type") != "image/png" {
		t.Fatalf("expected png, got %q", resp.Header.Get("Content-Type"))
	}
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	if _, err := png.Decode(&buf); err != nil {
		t.Fatalf("decode qr: %v", err)
	}
}

func TestOrderReceipt(t *testing.T) {
	ts, token := setup(t)
	resp := do(t, http.MethodGet, ts.URL+"/api/merchant/orders", token, "")
	var list []models.Order
	json.NewDecoder(resp.Body).Decode(&list)
	resp.Body.Close()
	if len(list) == 0 {
		t.Fatal("expected seeded orders")
	}
	url := ts.URL + "/api/merchant/orders/" + strconv.FormatInt(list[0].ID, 10) + "/receipt"

	resp = do(t, http.MethodGet, url, token, "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("expected application/pdf, got %q", ct)
	}
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("body is not a pdf: %q", buf.Bytes()[:min(16, buf.Len())])
	}

	missing := do(t, http.MethodGet, ts.URL+"/api/merchant/orders/999999/receipt", token, "")
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown order: expected 404, got %d", missing.StatusCode)
	}
	anon := do(t, http.MethodGet, url, "", "")
	anon.Body.Close()
	if anon.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d", anon.StatusCode)
	}
}

func TestMerchantOnly(t *testing.T) {
	srv := devserver.New([]byte("test-secret"), "")
	if _, err := srv.AddUser("Casey", "casey@example.com", "customer1", "customer"); err != nil {
		t.Fatalf("add user: %v", err)
	}
	ts := httptest.NewServer(NewRouter(srv, unlimited(), ""))
	defer ts.Close()

	resp := do(t, http.MethodPost, ts.URL+"/api/auth/login", "", `{"email":"casey@example.com","password":"customer1"}`)
	var res models.LoginResponse
	json.NewDecoder(resp.Body).Decode(&res)
	resp.Body.Close()
	if res.IsMerchant {
		t.Fatal("customer reported as merchant")
	}

	resp = do(t, http.MethodGet, ts.URL+"/api/merchant/orders", res.Token, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for a customer, got %d", resp.StatusCode)
	}
}

func TestLoginRateLimited(t *testing.T) {
	srv := devserver.New([]byte("test-secret"), "")
	ts := httptest.NewServer(NewRouter(srv, Limiters{
		Auth:  ratelim.NewRateLimiter(1, 1),
		Write: ratelim.NewRateLimiter(0, 1),
	}, ""))
	defer ts.Close()

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		resp := do(t, http.MethodPost, ts.URL+"/api/auth/login", "", `{"email":"x@example.com","password":"nope"}`)
		resp.Body.Close()
		codes = append(codes, resp.StatusCode)
	}
	if codes[0] != http.StatusUnauthorized || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("expected 401 then 429, got %v", codes)
	}
}

func TestAuthLimiterLeavesWritesAlone(t *testing.T) {
	srv := devserver.New([]byte("test-secret"), "")
	if err := srv.Seed("merchant@example.com", "merchant123"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	ts := httptest.NewServer(NewRouter(srv, Limiters{
		Auth:  ratelim.NewRateLimiter(1, 1),
		Write: ratelim.NewRateLimiter(60, 5),
	}, ""))
	defer ts.Close()

	resp := do(t, http.MethodPost, ts.URL+"/api/auth/login", "", `{"email":"merchant@example.com","password":"merchant123"}`)
	var res models.LoginResponse
	json.NewDecoder(resp.Body).Decode(&res)
	resp.Body.Close()
	if res.Token == "" {
		t.Fatalf("login failed with %d", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, ts.URL+"/api/merchant/orders", res.Token, "")
	var list []models.Order
	json.NewDecoder(resp.Body).Decode(&list)
	resp.Body.Close()
	url := ts.URL + "/api/merchant/orders/" + strconv.FormatInt(list[0].ID, 10) + "/status"

	for i, status := range []string{"accepted", "preparing", "ready_for_collection"} {
		resp = do(t, http.MethodPut, url, res.Token, `{"status":"`+status+`","notes":""}`)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("write %d after login: expected 200, got %d", i, resp.StatusCode)
		}
	}

	resp = do(t, http.MethodPost, ts.URL+"/api/auth/login", "", `{"email":"merchant@example.com","password":"merchant123"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("second login: expected 429, got %d", resp.StatusCode)
	}
}
