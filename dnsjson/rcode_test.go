package dnsjson

import "testing"

func TestResponseCodeFromStatus(t *testing.T) {
	tests := []struct {
		status uint16
		want   ResponseCode
	}{
		// Dedicated codes 0-11.
		{0, CodeNoError},
		{1, CodeFormErr},
		{2, CodeServFail},
		{3, CodeNXDomain},
		{4, CodeNotImp},
		{5, CodeRefused},
		{6, CodeYXDomain},
		{7, CodeYXRRSet},
		{8, CodeNXRRSet},
		{9, CodeNotAuth},
		{10, CodeNotZone},
		{11, CodeDSOTypeNI},
		// Dedicated codes 16-23.
		{16, CodeBadVers},
		{17, CodeBadKey},
		{18, CodeBadTime},
		{19, CodeBadMode},
		{20, CodeBadName},
		{21, CodeBadAlg},
		{22, CodeBadTrunc},
		{23, CodeBadCookie},
		// Unassigned bands: 12-15, 24-3840, 4096-65534.
		{12, CodeUnassigned},
		{13, CodeUnassigned},
		{14, CodeUnassigned},
		{15, CodeUnassigned},
		{24, CodeUnassigned},
		{100, CodeUnassigned},
		{3840, CodeUnassigned},
		{4096, CodeUnassigned},
		{30000, CodeUnassigned},
		{65534, CodeUnassigned},
		// Reserved bands: 3841-4095 (private use) and 65535.
		{3841, CodeReserved},
		{4000, CodeReserved},
		{4095, CodeReserved},
		{65535, CodeReserved},
	}

	for _, tt := range tests {
		if got := ResponseCodeFromStatus(tt.status); got != tt.want {
			t.Errorf("ResponseCodeFromStatus(%d) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestResponseCodeString(t *testing.T) {
	tests := []struct {
		code ResponseCode
		want string
	}{
		{CodeNoError, "NOERROR"},
		{CodeServFail, "SERVFAIL"},
		{CodeNXDomain, "NXDOMAIN"},
		{CodeDSOTypeNI, "DSOTYPENI"},
		{CodeBadVers, "BADVERS"},
		{CodeBadCookie, "BADCOOKIE"},
		{CodeUnassigned, "UNASSIGNED"},
		{CodeReserved, "RESERVED"},
	}

	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("String(%d) = %q, want %q", int(tt.code), got, tt.want)
		}
	}
}

func TestResponseCodeIsError(t *testing.T) {
	if CodeNoError.IsError() {
		t.Error("IsError(NOERROR) = true, want false")
	}
	for _, c := range []ResponseCode{CodeServFail, CodeNXDomain, CodeBadCookie, CodeUnassigned, CodeReserved} {
		if !c.IsError() {
			t.Errorf("IsError(%v) = false, want true", c)
		}
	}
}
