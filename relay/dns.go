package relay

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/miekg/dns"

	"github.com/dohdig/dohdig/dnsjson"
	"github.com/dohdig/dohdig/doh"
)

// DNSServerConfig holds listener settings for the DNS front end.
type DNSServerConfig struct {
	Listen     string
	UDPEnabled bool
	TCPEnabled bool
}

// DNSServer answers plain DNS queries over UDP and TCP by resolving them
// through a Resolver and converting the JSON response back to wire format.
type DNSServer struct {
	resolver *Resolver
	udp      *dns.Server
	tcp      *dns.Server
}

// NewDNSServer creates a DNSServer with listeners for each enabled
// transport.
func NewDNSServer(cfg DNSServerConfig, resolver *Resolver) *DNSServer {
	s := &DNSServer{resolver: resolver}
	if cfg.UDPEnabled {
		s.udp = &dns.Server{Addr: cfg.Listen, Net: "udp", Handler: s}
	}
	if cfg.TCPEnabled {
		s.tcp = &dns.Server{Addr: cfg.Listen, Net: "tcp", Handler: s}
	}
	return s
}

// ListenAndServe starts the configured listeners and blocks until ctx is
// cancelled or a listener fails.
func (s *DNSServer) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 2)

	start := func(srv *dns.Server, transport string) {
		go func() {
			slog.Info("dns server starting", "address", srv.Addr, "net", transport)
			if err := srv.ListenAndServe(); err != nil {
				errCh <- fmt.Errorf("dns %s server: %w", transport, err)
			}
		}()
	}
	if s.udp != nil {
		start(s.udp, "udp")
	}
	if s.tcp != nil {
		start(s.tcp, "tcp")
	}

	select {
	case <-ctx.Done():
		s.shutdown()
		return ctx.Err()
	case err := <-errCh:
		s.shutdown()
		return err
	}
}

func (s *DNSServer) shutdown() {
	if s.udp != nil {
		_ = s.udp.Shutdown()
	}
	if s.tcp != nil {
		_ = s.tcp.Shutdown()
	}
}

// ServeDNS implements dns.Handler.
func (s *DNSServer) ServeDNS(w dns.ResponseWriter, req *dns.Msg) {
	if len(req.Question) == 0 {
		m := new(dns.Msg)
		m.SetRcode(req, dns.RcodeFormatError)
		writeMsg(w, m)
		return
	}

	q := req.Question[0]
	opts := doh.ResolveOptions{
		Type:             dnsjson.RecordType(q.Qtype),
		CheckingDisabled: req.CheckingDisabled,
	}
	if opt := req.IsEdns0(); opt != nil && opt.Do() {
		opts.DNSSECOK = true
	}

	slog.Debug("dns query received",
		"name", q.Name,
		"type", opts.Type.String(),
		"client", w.RemoteAddr().String(),
	)

	resp, err := s.resolver.Resolve(context.Background(), q.Name, opts)
	if err != nil {
		slog.Warn("resolve failed", "name", q.Name, "err", err)
		m := new(dns.Msg)
		m.SetRcode(req, dns.RcodeServerFailure)
		writeMsg(w, m)
		return
	}

	writeMsg(w, buildReply(req, resp))
}

// buildReply converts a JSON response into a wire-format reply to req.
// Statuses that do not fit the 4-bit header rcode become SERVFAIL.
func buildReply(req *dns.Msg, resp *dnsjson.Response) *dns.Msg {
	m := new(dns.Msg)
	m.SetReply(req)

	if resp.Status >= 0 && resp.Status <= 0xF {
		m.Rcode = resp.Status
	} else {
		m.Rcode = dns.RcodeServerFailure
	}

	m.Truncated = resp.TC
	m.RecursionAvailable = resp.RA
	m.AuthenticatedData = resp.AD
	m.CheckingDisabled = resp.CD

	for _, a := range resp.Answer {
		rr, err := a.RR()
		if err != nil {
			slog.Warn("skipping unconvertible answer", "name", a.Name, "err", err)
			continue
		}
		m.Answer = append(m.Answer, rr)
	}

	return m
}

func writeMsg(w dns.ResponseWriter, m *dns.Msg) {
	if err := w.WriteMsg(m); err != nil {
		slog.Error("write dns response", "err", err)
	}
}
