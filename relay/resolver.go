// Package relay serves DNS and HTTP clients from a local override store,
// forwarding everything else to an upstream DoH provider.
package relay

import (
	"context"
	"log/slog"

	"github.com/miekg/dns"

	"github.com/dohdig/dohdig/dnsjson"
	"github.com/dohdig/dohdig/doh"
	"github.com/dohdig/dohdig/override"
)

// Upstream resolves queries that have no local override. *doh.Client
// implements it.
type Upstream interface {
	Resolve(ctx context.Context, name string, opts doh.ResolveOptions) (*dnsjson.Response, error)
}

// ResolverConfig holds configurable behaviour for the Resolver.
type ResolverConfig struct {
	DefaultTTL uint32 // TTL applied to override answers that carry none
}

// DefaultResolverConfig returns a ResolverConfig with sensible defaults.
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{DefaultTTL: 300}
}

// Resolver answers queries from the override store when a match exists
// and falls back to the upstream otherwise.
type Resolver struct {
	store    *override.Store
	upstream Upstream
	config   ResolverConfig
}

// NewResolver creates a Resolver. Both the store and the upstream must be
// non-nil.
func NewResolver(store *override.Store, upstream Upstream, cfg ResolverConfig) *Resolver {
	return &Resolver{
		store:    store,
		upstream: upstream,
		config:   cfg,
	}
}

// Resolve answers a single query. A zero opts.Type is treated as an ANY
// query, matching the upstream client's behaviour.
func (r *Resolver) Resolve(ctx context.Context, name string, opts doh.ResolveOptions) (*dnsjson.Response, error) {
	qtype := opts.Type
	if qtype == 0 {
		qtype = dnsjson.TypeANY
	}

	if recs, err := r.store.Get(name, qtype); err == nil {
		resp := r.synthesize(name, qtype, opts, recs)
		slog.Debug("override hit",
			"name", name,
			"type", qtype.String(),
			"answers", len(resp.Answer),
		)
		return resp, nil
	}

	return r.upstream.Resolve(ctx, name, opts)
}

// synthesize builds a response for override records in the shape an
// upstream provider would return: NOERROR, the question echoed, and one
// answer per stored value.
func (r *Resolver) synthesize(name string, qtype dnsjson.RecordType, opts doh.ResolveOptions, recs []*override.Record) *dnsjson.Response {
	resp := &dnsjson.Response{
		Status: 0,
		RD:     true,
		RA:     true,
		CD:     opts.CheckingDisabled,
		Question: []dnsjson.Question{{
			Name: dns.CanonicalName(name),
			Type: uint16(qtype),
		}},
		Answer: make([]dnsjson.Answer, 0, len(recs)),
	}

	for _, rec := range recs {
		ttl := rec.TTL
		if ttl == 0 {
			ttl = r.config.DefaultTTL
		}
		for _, val := range rec.Values {
			resp.Answer = append(resp.Answer, dnsjson.Answer{
				Name: rec.Name,
				Type: uint16(rec.Type),
				TTL:  ttl,
				Data: val,
			})
		}
	}

	return resp
}
