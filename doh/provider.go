// Package doh is a client for the JSON API offered by public
// DNS-over-HTTPS resolvers such as Google and Cloudflare.
//
// This is the JSON flavor of DoH, not the RFC 8484 wire format: queries go
// out as plain HTTPS GETs and answers come back as JSON documents, decoded
// by the dnsjson package.
package doh

import (
	"net/url"
	"strconv"

	"github.com/dohdig/dohdig/dnsjson"
)

// Provider selects the upstream resolver. The named providers map to
// fixed endpoints; any other value is treated as a custom endpoint URL
// and used verbatim, so a malformed custom URL surfaces as a transport
// failure, never here.
type Provider string

const (
	Google     Provider = "google"
	Cloudflare Provider = "cloudflare"
	Quad9      Provider = "quad9"
)

const (
	googleEndpoint     = "https://dns.google/resolve"
	cloudflareEndpoint = "https://cloudflare-dns.com/dns-query"
	quad9Endpoint      = "https://dns.quad9.net:5053/dns-query"
)

// Known reports whether p is one of the named providers.
func (p Provider) Known() bool {
	switch p {
	case Google, Cloudflare, Quad9:
		return true
	}
	return false
}

// Endpoint returns the base query URL for the provider.
func (p Provider) Endpoint() string {
	switch p {
	case Google:
		return googleEndpoint
	case Cloudflare:
		return cloudflareEndpoint
	case Quad9:
		return quad9Endpoint
	default:
		return string(p)
	}
}

// ResolveOptions are the per-query knobs, supplied by the caller on every
// call and never retained. The zero value queries ANY.
type ResolveOptions struct {
	// Type is the record type to query for. Zero queries ANY.
	Type dnsjson.RecordType

	// CheckingDisabled asks the resolver to skip DNSSEC validation (cd).
	CheckingDisabled bool

	// DNSSECOK asks for DNSSEC records in the answer (do).
	DNSSECOK bool
}

// QueryURL builds the fully parameterized query URL for one resolution.
// Parameter values are percent-escaped. The JSON API providers all accept
// both the symbolic and the numeric type form; the symbolic name is sent
// for well-known types and the bare code for anything else.
func (p Provider) QueryURL(name string, opts ResolveOptions) string {
	qtype := opts.Type
	if qtype == 0 {
		qtype = dnsjson.TypeANY
	}

	v := url.Values{}
	v.Set("name", name)
	v.Set("type", typeParam(qtype))
	v.Set("cd", strconv.FormatBool(opts.CheckingDisabled))
	v.Set("do", strconv.FormatBool(opts.DNSSECOK))
	return p.Endpoint() + "?" + v.Encode()
}

func typeParam(t dnsjson.RecordType) string {
	if t.Known() {
		return t.String()
	}
	return strconv.FormatUint(uint64(t), 10)
}
