package crawl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/avolkov/contactsift/internal/cache"
	"github.com/avolkov/contactsift/internal/model"
)

func testHTTPConfig(timeout time.Duration) model.HTTPConfig {
	return model.HTTPConfig{
		Timeout:         timeout,
		UserAgent:       "contactsift-test",
		MaxBodyBytes:    1_000_000,
		MaxConnsPerHost: 10,
	}
}

func TestFetcher_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "contactsift-test" {
			t.Errorf("unexpected User-Agent: %s", ua)
		}
		_, _ = w.Write([]byte("<html>hello</html>"))
	}))
	defer server.Close()

	fetcher := NewFetcher(testHTTPConfig(5*time.Second), nil, nil, 0)

	result := fetcher.Fetch(context.Background(), server.URL)
	if !result.OK() {
		t.Fatalf("expected OK result, got reason %q", result.Reason)
	}
	if result.Body != "<html>hello</html>" {
		t.Errorf("unexpected body: %s", result.Body)
	}
}

func TestFetcher_Non200IsFailureValue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewFetcher(testHTTPConfig(5*time.Second), nil, nil, 0)

	result := fetcher.Fetch(context.Background(), server.URL)
	if result.OK() {
		t.Fatal("expected non-OK result for 404")
	}
	if result.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", result.StatusCode)
	}
	if result.Body != "" {
		t.Errorf("expected empty body on failure, got %q", result.Body)
	}
	if result.Reason == "" {
		t.Error("expected a reason on the failure branch")
	}
}

func TestFetcher_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	fetcher := NewFetcher(testHTTPConfig(20*time.Millisecond), nil, nil, 0)

	result := fetcher.Fetch(context.Background(), server.URL)
	if result.OK() {
		t.Fatal("expected timeout to produce a non-OK result")
	}
}

func TestFetcher_NetworkError(t *testing.T) {
	fetcher := NewFetcher(testHTTPConfig(time.Second), nil, nil, 0)

	// Nothing listens here
	result := fetcher.Fetch(context.Background(), "http://127.0.0.1:1")
	if result.OK() {
		t.Fatal("expected connection failure to produce a non-OK result")
	}
}

func TestFetcher_BadURL(t *testing.T) {
	fetcher := NewFetcher(testHTTPConfig(time.Second), nil, nil, 0)

	result := fetcher.Fetch(context.Background(), "http://bad url")
	if result.OK() {
		t.Fatal("expected non-OK result for malformed URL")
	}
}

func TestFetcher_BodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for i := 0; i < 1000; i++ {
			_, _ = w.Write([]byte("0123456789"))
		}
	}))
	defer server.Close()

	cfg := testHTTPConfig(5 * time.Second)
	cfg.MaxBodyBytes = 100
	fetcher := NewFetcher(cfg, nil, nil, 0)

	result := fetcher.Fetch(context.Background(), server.URL)
	if !result.OK() {
		t.Fatalf("expected OK result, got %q", result.Reason)
	}
	if len(result.Body) != 100 {
		t.Errorf("expected body truncated to 100 bytes, got %d", len(result.Body))
	}
}

func TestFetcher_PageCache(t *testing.T) {
	var hits int
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits++
		mu.Unlock()
		_, _ = w.Write([]byte("cached"))
	}))
	defer server.Close()

	pages := cache.NewMemoryCache(time.Minute, time.Minute)
	fetcher := NewFetcher(testHTTPConfig(5*time.Second), nil, pages, time.Minute)

	first := fetcher.Fetch(context.Background(), server.URL)
	second := fetcher.Fetch(context.Background(), server.URL)

	if !first.OK() || !second.OK() {
		t.Fatal("expected both fetches to succeed")
	}
	if second.Body != "cached" {
		t.Errorf("unexpected cached body: %s", second.Body)
	}

	mu.Lock()
	defer mu.Unlock()
	if hits != 1 {
		t.Errorf("expected 1 origin hit, got %d", hits)
	}
}

func TestFetcher_PerHostConnectionCap(t *testing.T) {
	release := make(chan struct{})
	var current, maxSeen int32
	var mu sync.Mutex

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		current++
		if current > maxSeen {
			maxSeen = current
		}
		mu.Unlock()

		<-release

		mu.Lock()
		current--
		mu.Unlock()
	}))
	defer server.Close()

	cfg := testHTTPConfig(5 * time.Second)
	cfg.MaxConnsPerHost = 3
	fetcher := NewFetcher(cfg, nil, nil, 0)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fetcher.Fetch(context.Background(), server.URL)
		}()
	}

	// Let the in-flight requests pile up against the cap, then release
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if maxSeen > 3 {
		t.Errorf("per-host connections %d exceeded cap 3", maxSeen)
	}
}
