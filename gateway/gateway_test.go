package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"merchant/apperr"
	"merchant/kv"
	"merchant/session"
)

func loggedIn(t *testing.T, now func() time.Time) *session.Manager {
	t.Helper()
	m := session.NewManager(kv.NewMemory(), session.WithClock(now))
	if err := m.Login(context.Background(), "tok-123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	return m
}

func newClient(t *testing.T, url string, sess Session) *Client {
	t.Helper()
	c, err := New(url+"/api", sess)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestBearerHeaderAndDecode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("expected bearer header, got %q", got)
		}
		if r.URL.Path != "/api/merchant/orders" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`[{"id":1},{"id":2}]`))
	}))
	defer srv.Close()

	c := newClient(t, srv.URL, loggedIn(t, time.Now))
	var out []struct{ ID int64 }
	if err := c.Get(context.Background(), "/merchant/orders", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(out) != 2 || out[1].ID != 2 {
		t.Fatalf("unexpected body %+v", out)
	}
}

func TestPublicRequestHasNoToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Errorf("public request carried a token")
		}
		w.Write([]byte(`{"token":"x"}`))
	}))
	defer srv.Close()

	c := newClient(t, srv.URL, session.NewManager(kv.NewMemory()))
	err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/auth/login", Public: true}, nil)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
}

func TestConcurrentForbiddenRedirectsOnce(t *testing.T) {
	var hits int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 3 {
			close(release)
		}
		<-release
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"Invalid or expired token"}`))
	}))
	defer srv.Close()

	sess := loggedIn(t, time.Now)
	var redirects int32
	sess.OnExpired(func() { atomic.AddInt32(&redirects, 1) })
	c := newClient(t, srv.URL, sess)

	var wg sync.WaitGroup
	errs := make([]error, 3)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = c.Get(context.Background(), "/merchant/orders", nil)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if !apperr.Is(err, apperr.KindSessionExpired) {
			t.Fatalf("request %d: expected session expired, got %v", i, err)
		}
	}
	if n := atomic.LoadInt32(&redirects); n != 1 {
		t.Fatalf("expected exactly one redirect, got %d", n)
	}
	if sess.IsValid() {
		t.Fatal("session should be cleared")
	}
}

func TestMissingTokenFailsWithoutRequest(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	c := newClient(t, srv.URL, session.NewManager(kv.NewMemory()))
	if err := c.Get(context.Background(), "/merchant/orders", nil); !apperr.Is(err, apperr.KindSessionExpired) {
		t.Fatalf("expected session expired, got %v", err)
	}
	if hits != 0 {
		t.Fatalf("expected no network call, got %d", hits)
	}
}

func TestLocallyExpiredSessionSkipsNetwork(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	var mu sync.Mutex
	now := time.Now()
	clock := func() time.Time { mu.Lock(); defer mu.Unlock(); return now }
	sess := loggedIn(t, clock)
	var redirects int32
	sess.OnExpired(func() { atomic.AddInt32(&redirects, 1) })

	mu.Lock()
	now = now.Add(session.Lifetime + time.Millisecond)
	mu.Unlock()

	c := newClient(t, srv.URL, sess)
	if err := c.Get(context.Background(), "/merchant/orders", nil); !apperr.Is(err, apperr.KindSessionExpired) {
		t.Fatalf("expected session expired, got %v", err)
	}
	if hits != 0 {
		t.Fatalf("expected no network call, got %d", hits)
	}
	if redirects != 1 {
		t.Fatalf("expected one redirect, got %d", redirects)
	}
}

func TestRequestFailedMessage(t *testing.T) {
	cases := []struct {
		status int
		body   string
		want   string
	}{
		{http.StatusBadRequest, `{"message":"Category does not exist"}`, "Category does not exist"},
		{http.StatusConflict, `{"error":"Order already collected"}`, "Order already collected"},
		{http.StatusInternalServerError, `<html>oops</html>`, http.StatusText(http.StatusInternalServerError)},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			w.Write([]byte(tc.body))
		}))
		c := newClient(t, srv.URL, loggedIn(t, time.Now))
		err := c.Get(context.Background(), "/merchant/products", nil)
		srv.Close()

		if !apperr.Is(err, apperr.KindRequestFailed) {
			t.Fatalf("status %d: expected request failed, got %v", tc.status, err)
		}
		e := err.(*apperr.Error)
		if e.StatusCode != tc.status || e.Message != tc.want {
			t.Fatalf("status %d: got code=%d message=%q", tc.status, e.StatusCode, e.Message)
		}
	}
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := newClient(t, url, loggedIn(t, time.Now))
	if err := c.Get(context.Background(), "/merchant/orders", nil); !apperr.Is(err, apperr.KindNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := newClient(t, srv.URL, loggedIn(t, time.Now))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := c.Get(ctx, "/merchant/orders", nil); err != context.DeadlineExceeded {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestJSONBodyAndHostRelativePath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/categories":
			if ct := r.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected json content type, got %q", ct)
			}
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["name"] != "Fruit" {
				t.Errorf("unexpected body %v", body)
			}
		case "/product/5/clear-image":
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := newClient(t, srv.URL, loggedIn(t, time.Now))
	ctx := context.Background()
	if err := c.Post(ctx, "/categories", map[string]string{"name": "Fruit"}, nil); err != nil {
		t.Fatalf("post: %v", err)
	}
	req := Request{Method: http.MethodDelete, Path: "/product/5/clear-image", HostRelative: true}
	if err := c.Do(ctx, req, nil); err != nil {
		t.Fatalf("clear image: %v", err)
	}
}

func TestMultipartForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		if r.FormValue("name") != "Bananas" || r.FormValue("price") != "1.10" {
			t.Errorf("unexpected fields %v", r.MultipartForm.Value)
		}
		f, hdr, err := r.FormFile("image")
		if err != nil {
			t.Errorf("missing image: %v", err)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		if hdr.Filename != "image.jpg" || string(data) != "jpeg-bytes" {
			t.Errorf("unexpected file %s %q", hdr.Filename, data)
		}
		if hdr.Header.Get("Content-Type") != "image/jpeg" {
			t.Errorf("unexpected part content type %q", hdr.Header.Get("Content-Type"))
		}
	}))
	defer srv.Close()

	c := newClient(t, srv.URL, loggedIn(t, time.Now))
	form := NewForm().Field("name", "Bananas").Field("price", "1.10").File("image", "image.jpg", "image/jpeg", []byte("jpeg-bytes"))
	if err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/products", Form: form}, nil); err != nil {
		t.Fatalf("post form: %v", err)
	}
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	if _, err := New("not a url", nil); err == nil {
		t.Fatal("expected error for invalid base URL")
	}
}
