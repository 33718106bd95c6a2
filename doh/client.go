package doh

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/dohdig/dohdig/dnsjson"
)

// ClientConfig configures a Client. The zero value queries Google through
// a default tuned HTTP client.
type ClientConfig struct {
	// Provider is the upstream resolver. Empty means Google.
	Provider Provider

	// HTTPClient replaces the transport entirely. When set, CAFile and
	// Timeout are ignored.
	HTTPClient *http.Client

	// CAFile points at a PEM bundle that replaces the system roots.
	CAFile string

	// UserAgent is sent with every request when non-empty.
	UserAgent string

	// Timeout bounds the whole request/response round trip. Zero means
	// the default of 5s.
	Timeout time.Duration
}

const defaultTimeout = 5 * time.Second

var errAppendingCerts = errors.New("no certificates found in CA file")

// Client resolves names through one DoH JSON provider. It holds no
// per-call state, so a single Client is safe for concurrent use as long
// as its underlying HTTP client is; the default one is.
type Client struct {
	provider  Provider
	userAgent string
	httpc     *http.Client
}

// NewClient builds a Client for the configured provider.
func NewClient(cfg ClientConfig) (*Client, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = Google
	}

	c := &Client{
		provider:  provider,
		userAgent: cfg.UserAgent,
		httpc:     cfg.HTTPClient,
	}

	if c.httpc == nil {
		httpc, err := newHTTPClient(cfg)
		if err != nil {
			return nil, err
		}
		c.httpc = httpc
	}
	return c, nil
}

func newHTTPClient(cfg ClientConfig) (*http.Client, error) {
	var tlsConfig *tls.Config
	if cfg.CAFile != "" {
		pool, err := loadCertPool(cfg.CAFile)
		if err != nil {
			return nil, fmt.Errorf("doh: loading CA file: %w", err)
		}
		tlsConfig = &tls.Config{RootCAs: pool}
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		TLSClientConfig: tlsConfig,

		// Take the semi-standard proxy settings from the environment.
		Proxy: http.ProxyFromEnvironment,

		// Drop idle connections after 30s so connection pile-up stays
		// bounded when the network flaps.
		IdleConnTimeout: 30 * time.Second,

		TLSHandshakeTimeout: 4 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}, nil
}

func loadCertPool(caFile string) (*x509.CertPool, error) {
	pemData, err := os.ReadFile(caFile)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pemData) {
		return nil, errAppendingCerts
	}
	return pool, nil
}

// Provider returns the provider this client queries.
func (c *Client) Provider() Provider {
	return c.provider
}

// Resolve issues one GET against the provider's JSON API and decodes the
// answer document. Exactly one network request per call: no retries, no
// caching, no fallback. Transport failures come back wrapped but
// otherwise untouched; a non-2xx reply is a *RequestError with the body
// discarded undecoded; a malformed body on a 2xx reply is a *DecodeError.
// Cancellation and deadlines come from ctx and the HTTP client only.
func (c *Client) Resolve(ctx context.Context, name string, opts ResolveOptions) (*dnsjson.Response, error) {
	u := c.provider.QueryURL(name, opts)
	slog.Debug("doh query", "provider", c.provider, "url", u)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("doh: building request: %w", err)
	}
	req.Header.Set("Accept", "application/dns-json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("doh: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("doh: reading response body: %w", err)
	}

	r, err := dnsjson.Decode(body)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return r, nil
}
