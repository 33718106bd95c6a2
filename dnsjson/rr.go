package dnsjson

import (
	"fmt"

	"github.com/miekg/dns"
)

// RR converts the answer into a miekg/dns resource record by rendering it
// in zone presentation syntax and parsing it back. Unknown type codes
// render as TYPE<code>, which the parser accepts as long as the data uses
// the RFC 3597 \# form (the form resolvers use for such records).
func (a Answer) RR() (dns.RR, error) {
	s := fmt.Sprintf("%s %d IN %s %s", a.Name, a.TTL, a.RecordType(), a.Data)
	rr, err := dns.NewRR(s)
	if err != nil {
		return nil, fmt.Errorf("parsing answer %q: %w", s, err)
	}
	return rr, nil
}
