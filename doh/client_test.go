package doh

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/dohdig/dohdig/dnsjson"
)

const exampleAnswer = `{"Status":0,"TC":false,"RD":true,"RA":true,"AD":false,"CD":false,` +
	`"Question":[{"name":"example.com.","type":1}],` +
	`"Answer":[{"name":"example.com.","type":1,"TTL":300,"data":"93.184.216.34"}]}`

func newTestClient(t *testing.T, cfg ClientConfig) *Client {
	t.Helper()
	c, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return c
}

// rewriteTransport redirects every request to the test server while
// leaving path and query untouched, so a client configured for a real
// provider can be exercised against a stub.
type rewriteTransport struct {
	target *url.URL
}

func (rt rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = rt.target.Scheme
	req.URL.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func TestResolveCloudflareStub(t *testing.T) {
	var gotPath, gotAccept string
	var gotQuery url.Values
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/dns-json")
		w.Write([]byte(exampleAnswer))
	}))
	defer ts.Close()

	target, err := url.Parse(ts.URL)
	if err != nil {
		t.Fatalf("parsing test server URL: %v", err)
	}
	c := newTestClient(t, ClientConfig{
		Provider:   Cloudflare,
		HTTPClient: &http.Client{Transport: rewriteTransport{target: target}},
	})

	resp, err := c.Resolve(context.Background(), "example.com", ResolveOptions{})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	if gotPath != "/dns-query" {
		t.Errorf("request path = %q, want /dns-query", gotPath)
	}
	if gotAccept != "application/dns-json" {
		t.Errorf("Accept = %q, want application/dns-json", gotAccept)
	}
	if got := gotQuery.Get("name"); got != "example.com" {
		t.Errorf("name parameter = %q, want example.com", got)
	}

	if len(resp.Answer) != 1 {
		t.Fatalf("len(Answer) = %d, want 1", len(resp.Answer))
	}
	a := resp.Answer[0]
	if a.RecordType() != dnsjson.TypeA {
		t.Errorf("record type = %v, want A", a.RecordType())
	}
	if a.TTL != 300 {
		t.Errorf("TTL = %d, want 300", a.TTL)
	}
	if a.Data != "93.184.216.34" {
		t.Errorf("data = %q, want 93.184.216.34", a.Data)
	}
	if resp.Code() != dnsjson.CodeNoError {
		t.Errorf("Code() = %v, want NOERROR", resp.Code())
	}
}

func TestResolveRequestFailed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("this is not json"))
	}))
	defer ts.Close()

	c := newTestClient(t, ClientConfig{Provider: Provider(ts.URL)})

	_, err := c.Resolve(context.Background(), "example.com", ResolveOptions{Type: dnsjson.TypeA})
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error = %v, want *RequestError", err)
	}
	if reqErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", reqErr.StatusCode)
	}

	// The body was garbage; getting a RequestError rather than a
	// DecodeError shows it was never decoded.
	var decErr *DecodeError
	if errors.As(err, &decErr) {
		t.Errorf("error = %v, must not be a DecodeError", err)
	}
}

func TestResolveAccepts2xxClass(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(exampleAnswer))
	}))
	defer ts.Close()

	c := newTestClient(t, ClientConfig{Provider: Provider(ts.URL)})

	resp, err := c.Resolve(context.Background(), "example.com", ResolveOptions{Type: dnsjson.TypeA})
	if err != nil {
		t.Fatalf("Resolve with 202 returned error: %v", err)
	}
	if len(resp.Answer) != 1 {
		t.Errorf("len(Answer) = %d, want 1", len(resp.Answer))
	}
}

func TestResolveDecodeFailed(t *testing.T) {
	// Well-formed JSON, but the required Answer field is absent.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Status":0,"TC":false,"RD":true,"RA":true,"AD":false,"CD":false,"Question":[]}`))
	}))
	defer ts.Close()

	c := newTestClient(t, ClientConfig{Provider: Provider(ts.URL)})

	_, err := c.Resolve(context.Background(), "example.com", ResolveOptions{Type: dnsjson.TypeA})
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("error = %v, want *DecodeError", err)
	}
	if !errors.Is(err, dnsjson.ErrMissingField) {
		t.Errorf("error = %v, want to wrap ErrMissingField", err)
	}
}

func TestResolveTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := ts.URL
	ts.Close()

	c := newTestClient(t, ClientConfig{Provider: Provider(addr)})

	_, err := c.Resolve(context.Background(), "example.com", ResolveOptions{Type: dnsjson.TypeA})
	if err == nil {
		t.Fatal("Resolve against a closed server succeeded, want error")
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		t.Errorf("error = %v, transport failures must not be RequestError", err)
	}
}

func TestResolveContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer ts.Close()

	c := newTestClient(t, ClientConfig{Provider: Provider(ts.URL)})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Resolve(ctx, "example.com", ResolveOptions{Type: dnsjson.TypeA})
	if err == nil {
		t.Fatal("Resolve with expired context succeeded, want error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want to wrap context.DeadlineExceeded", err)
	}
}

func TestResolveSendsConfiguredHeaders(t *testing.T) {
	var gotUserAgent string
	var gotQuery url.Values
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		gotQuery = r.URL.Query()
		w.Write([]byte(exampleAnswer))
	}))
	defer ts.Close()

	c := newTestClient(t, ClientConfig{Provider: Provider(ts.URL), UserAgent: "dohdig-test/1.0"})

	_, err := c.Resolve(context.Background(), "example.com", ResolveOptions{
		Type:             dnsjson.TypeAAAA,
		CheckingDisabled: true,
		DNSSECOK:         true,
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	if gotUserAgent != "dohdig-test/1.0" {
		t.Errorf("User-Agent = %q, want dohdig-test/1.0", gotUserAgent)
	}
	if got := gotQuery.Get("type"); got != "AAAA" {
		t.Errorf("type parameter = %q, want AAAA", got)
	}
	if got := gotQuery.Get("cd"); got != "true" {
		t.Errorf("cd parameter = %q, want true", got)
	}
	if got := gotQuery.Get("do"); got != "true" {
		t.Errorf("do parameter = %q, want true", got)
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := newTestClient(t, ClientConfig{})
	if c.Provider() != Google {
		t.Errorf("Provider() = %q, want google", c.Provider())
	}
	if c.httpc == nil {
		t.Fatal("default HTTP client not built")
	}
	if c.httpc.Timeout != defaultTimeout {
		t.Errorf("timeout = %v, want %v", c.httpc.Timeout, defaultTimeout)
	}
}

func TestNewClientBadCAFile(t *testing.T) {
	if _, err := NewClient(ClientConfig{CAFile: "/does/not/exist.pem"}); err == nil {
		t.Error("NewClient with missing CA file succeeded, want error")
	}
}
