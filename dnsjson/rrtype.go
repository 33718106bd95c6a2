// Package dnsjson implements the JSON answer format served by public
// DNS-over-HTTPS resolvers: the decoded response model, a strict decoder,
// and the numeric classification of DNS record types and response codes.
package dnsjson

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/miekg/dns"
)

// RecordType is a DNS resource record type. The value is the raw 16-bit
// type code itself, so codes outside the well-known table below are still
// representable and round-trip unchanged.
type RecordType uint16

const (
	TypeA          RecordType = RecordType(dns.TypeA)
	TypeNS         RecordType = RecordType(dns.TypeNS)
	TypeCNAME      RecordType = RecordType(dns.TypeCNAME)
	TypeSOA        RecordType = RecordType(dns.TypeSOA)
	TypePTR        RecordType = RecordType(dns.TypePTR)
	TypeHINFO      RecordType = RecordType(dns.TypeHINFO)
	TypeMX         RecordType = RecordType(dns.TypeMX)
	TypeTXT        RecordType = RecordType(dns.TypeTXT)
	TypeAAAA       RecordType = RecordType(dns.TypeAAAA)
	TypeLOC        RecordType = RecordType(dns.TypeLOC)
	TypeSRV        RecordType = RecordType(dns.TypeSRV)
	TypeNAPTR      RecordType = RecordType(dns.TypeNAPTR)
	TypeCERT       RecordType = RecordType(dns.TypeCERT)
	TypeDNAME      RecordType = RecordType(dns.TypeDNAME)
	TypeOPT        RecordType = RecordType(dns.TypeOPT)
	TypeDS         RecordType = RecordType(dns.TypeDS)
	TypeSSHFP      RecordType = RecordType(dns.TypeSSHFP)
	TypeRRSIG      RecordType = RecordType(dns.TypeRRSIG)
	TypeNSEC       RecordType = RecordType(dns.TypeNSEC)
	TypeDNSKEY     RecordType = RecordType(dns.TypeDNSKEY)
	TypeNSEC3      RecordType = RecordType(dns.TypeNSEC3)
	TypeNSEC3PARAM RecordType = RecordType(dns.TypeNSEC3PARAM)
	TypeTLSA       RecordType = RecordType(dns.TypeTLSA)
	TypeSMIMEA     RecordType = RecordType(dns.TypeSMIMEA)
	TypeCDS        RecordType = RecordType(dns.TypeCDS)
	TypeCDNSKEY    RecordType = RecordType(dns.TypeCDNSKEY)
	TypeOPENPGPKEY RecordType = RecordType(dns.TypeOPENPGPKEY)
	TypeSVCB       RecordType = RecordType(dns.TypeSVCB)
	TypeHTTPS      RecordType = RecordType(dns.TypeHTTPS)
	TypeSPF        RecordType = RecordType(dns.TypeSPF)
	TypeURI        RecordType = RecordType(dns.TypeURI)
	TypeCAA        RecordType = RecordType(dns.TypeCAA)
	TypeANY        RecordType = RecordType(dns.TypeANY)
)

// recordTypeNames maps the well-known record types to their presentation
// names. Codes outside this table render as TYPE<code> (the RFC 3597
// convention for unknown types).
var recordTypeNames = map[RecordType]string{
	TypeA:          "A",
	TypeNS:         "NS",
	TypeCNAME:      "CNAME",
	TypeSOA:        "SOA",
	TypePTR:        "PTR",
	TypeHINFO:      "HINFO",
	TypeMX:         "MX",
	TypeTXT:        "TXT",
	TypeAAAA:       "AAAA",
	TypeLOC:        "LOC",
	TypeSRV:        "SRV",
	TypeNAPTR:      "NAPTR",
	TypeCERT:       "CERT",
	TypeDNAME:      "DNAME",
	TypeOPT:        "OPT",
	TypeDS:         "DS",
	TypeSSHFP:      "SSHFP",
	TypeRRSIG:      "RRSIG",
	TypeNSEC:       "NSEC",
	TypeDNSKEY:     "DNSKEY",
	TypeNSEC3:      "NSEC3",
	TypeNSEC3PARAM: "NSEC3PARAM",
	TypeTLSA:       "TLSA",
	TypeSMIMEA:     "SMIMEA",
	TypeCDS:        "CDS",
	TypeCDNSKEY:    "CDNSKEY",
	TypeOPENPGPKEY: "OPENPGPKEY",
	TypeSVCB:       "SVCB",
	TypeHTTPS:      "HTTPS",
	TypeSPF:        "SPF",
	TypeURI:        "URI",
	TypeCAA:        "CAA",
	TypeANY:        "ANY",
}

// recordTypeCodes is the inverse of recordTypeNames.
var recordTypeCodes = make(map[string]RecordType, len(recordTypeNames))

func init() {
	for t, name := range recordTypeNames {
		recordTypeCodes[name] = t
	}
}

// ErrInvalidRecordType is returned when a record type string cannot be
// parsed as a symbolic name or a numeric type code.
var ErrInvalidRecordType = errors.New("invalid DNS record type")

// Known reports whether the type code is in the well-known table.
func (t RecordType) Known() bool {
	_, ok := recordTypeNames[t]
	return ok
}

// String returns the symbolic name for well-known types and TYPE<code>
// for everything else. The numeric code is never lost either way.
func (t RecordType) String() string {
	if name, ok := recordTypeNames[t]; ok {
		return name
	}
	return "TYPE" + strconv.FormatUint(uint64(t), 10)
}

// ParseRecordType parses a record type from its symbolic name (case
// insensitive), the TYPE<code> form, or a bare decimal code in 0-65535.
func ParseRecordType(s string) (RecordType, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	if t, ok := recordTypeCodes[upper]; ok {
		return t, nil
	}

	num := upper
	if strings.HasPrefix(upper, "TYPE") {
		num = upper[len("TYPE"):]
	}
	code, err := strconv.ParseUint(num, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRecordType, s)
	}
	return RecordType(code), nil
}

// MarshalText implements encoding.TextMarshaler using String.
func (t RecordType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseRecordType.
func (t *RecordType) UnmarshalText(text []byte) error {
	parsed, err := ParseRecordType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
