package dnsjson

// ResponseCode is the symbolic classification of a DNS response status.
// It is a separate enumeration rather than the raw code: the IANA registry
// assigns individual meanings to 0-11 and 16-23 and designates the rest of
// the 16-bit space as unassigned or reserved bands, which collapse to the
// CodeUnassigned and CodeReserved variants here. The raw status stays
// available on the Response it came from.
type ResponseCode int

const (
	CodeNoError ResponseCode = iota
	CodeFormErr
	CodeServFail
	CodeNXDomain
	CodeNotImp
	CodeRefused
	CodeYXDomain
	CodeYXRRSet
	CodeNXRRSet
	CodeNotAuth
	CodeNotZone
	CodeDSOTypeNI
	CodeBadVers
	CodeBadKey
	CodeBadTime
	CodeBadMode
	CodeBadName
	CodeBadAlg
	CodeBadTrunc
	CodeBadCookie
	CodeUnassigned
	CodeReserved
)

// responseCodeNames follows the IANA mnemonic spelling.
var responseCodeNames = map[ResponseCode]string{
	CodeNoError:    "NOERROR",
	CodeFormErr:    "FORMERR",
	CodeServFail:   "SERVFAIL",
	CodeNXDomain:   "NXDOMAIN",
	CodeNotImp:     "NOTIMP",
	CodeRefused:    "REFUSED",
	CodeYXDomain:   "YXDOMAIN",
	CodeYXRRSet:    "YXRRSET",
	CodeNXRRSet:    "NXRRSET",
	CodeNotAuth:    "NOTAUTH",
	CodeNotZone:    "NOTZONE",
	CodeDSOTypeNI:  "DSOTYPENI",
	CodeBadVers:    "BADVERS",
	CodeBadKey:     "BADKEY",
	CodeBadTime:    "BADTIME",
	CodeBadMode:    "BADMODE",
	CodeBadName:    "BADNAME",
	CodeBadAlg:     "BADALG",
	CodeBadTrunc:   "BADTRUNC",
	CodeBadCookie:  "BADCOOKIE",
	CodeUnassigned: "UNASSIGNED",
	CodeReserved:   "RESERVED",
}

// assignedResponseCodes maps the statuses with a dedicated meaning in the
// IANA DNS RCODE registry.
var assignedResponseCodes = map[uint16]ResponseCode{
	0:  CodeNoError,
	1:  CodeFormErr,
	2:  CodeServFail,
	3:  CodeNXDomain,
	4:  CodeNotImp,
	5:  CodeRefused,
	6:  CodeYXDomain,
	7:  CodeYXRRSet,
	8:  CodeNXRRSet,
	9:  CodeNotAuth,
	10: CodeNotZone,
	11: CodeDSOTypeNI,
	16: CodeBadVers,
	17: CodeBadKey,
	18: CodeBadTime,
	19: CodeBadMode,
	20: CodeBadName,
	21: CodeBadAlg,
	22: CodeBadTrunc,
	23: CodeBadCookie,
}

// ResponseCodeFromStatus classifies a raw DNS status value per the IANA
// RCODE registry: 0-11 and 16-23 have dedicated variants, 3841-4095 is
// reserved for private use, 65535 is reserved, and everything else
// (12-15, 24-3840, 4096-65534) is unassigned. Total over the full uint16
// range.
func ResponseCodeFromStatus(status uint16) ResponseCode {
	if c, ok := assignedResponseCodes[status]; ok {
		return c
	}
	switch {
	case status >= 3841 && status <= 4095:
		return CodeReserved
	case status == 65535:
		return CodeReserved
	default:
		return CodeUnassigned
	}
}

// String returns the IANA mnemonic for the code.
func (c ResponseCode) String() string {
	if name, ok := responseCodeNames[c]; ok {
		return name
	}
	return "UNASSIGNED"
}

// IsError reports whether the code indicates a failed query.
func (c ResponseCode) IsError() bool {
	return c != CodeNoError
}
