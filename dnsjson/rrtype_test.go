package dnsjson

import (
	"errors"
	"fmt"
	"testing"
)

func TestRecordTypeRoundTrip(t *testing.T) {
	for rt, name := range recordTypeNames {
		if got := rt.String(); got != name {
			t.Errorf("String(%d) = %q, want %q", uint16(rt), got, name)
		}
		if !rt.Known() {
			t.Errorf("Known(%s) = false, want true", name)
		}

		parsed, err := ParseRecordType(name)
		if err != nil {
			t.Errorf("ParseRecordType(%q) returned error: %v", name, err)
			continue
		}
		if parsed != rt {
			t.Errorf("ParseRecordType(%q) = %d, want %d", name, uint16(parsed), uint16(rt))
		}
	}
}

func TestRecordTypeUnknown(t *testing.T) {
	// None of these codes are in the well-known table; they must keep
	// their exact numeric value and render as TYPE<code>.
	for _, code := range []uint16{3, 11, 4471, 13000, 65280, 65535} {
		rt := RecordType(code)
		if rt.Known() {
			t.Errorf("Known(%d) = true, want false", code)
		}

		want := fmt.Sprintf("TYPE%d", code)
		if got := rt.String(); got != want {
			t.Errorf("String(%d) = %q, want %q", code, got, want)
		}

		parsed, err := ParseRecordType(rt.String())
		if err != nil {
			t.Errorf("ParseRecordType(%q) returned error: %v", rt.String(), err)
			continue
		}
		if uint16(parsed) != code {
			t.Errorf("ParseRecordType(%q) = %d, want %d", rt.String(), uint16(parsed), code)
		}
	}
}

func TestParseRecordType(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    RecordType
		wantErr bool
	}{
		{"symbolic upper", "A", TypeA, false},
		{"symbolic lower", "aaaa", TypeAAAA, false},
		{"symbolic mixed", "Cname", TypeCNAME, false},
		{"surrounding space", " mx ", TypeMX, false},
		{"numeric", "28", TypeAAAA, false},
		{"numeric zero", "0", RecordType(0), false},
		{"numeric max", "65535", RecordType(65535), false},
		{"type form", "TYPE4471", RecordType(4471), false},
		{"type form lower", "type257", TypeCAA, false},
		{"empty", "", 0, true},
		{"garbage", "BOGUS", 0, true},
		{"negative", "-1", 0, true},
		{"too large", "65536", 0, true},
		{"type form garbage", "TYPEX", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRecordType(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseRecordType(%q) error = nil, want error", tt.in)
				}
				if !errors.Is(err, ErrInvalidRecordType) {
					t.Errorf("ParseRecordType(%q) error = %v, want ErrInvalidRecordType", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRecordType(%q) returned error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseRecordType(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRecordTypeText(t *testing.T) {
	b, err := TypeCAA.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText returned error: %v", err)
	}
	if string(b) != "CAA" {
		t.Errorf("MarshalText(CAA) = %q, want %q", b, "CAA")
	}

	var rt RecordType
	if err := rt.UnmarshalText([]byte("https")); err != nil {
		t.Fatalf("UnmarshalText returned error: %v", err)
	}
	if rt != TypeHTTPS {
		t.Errorf("UnmarshalText(https) = %v, want HTTPS", rt)
	}

	unknown := RecordType(999)
	b, err = unknown.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText returned error: %v", err)
	}
	var back RecordType
	if err := back.UnmarshalText(b); err != nil {
		t.Fatalf("UnmarshalText(%q) returned error: %v", b, err)
	}
	if back != unknown {
		t.Errorf("text round trip of %d = %d", uint16(unknown), uint16(back))
	}

	if err := rt.UnmarshalText([]byte("NOPE")); err == nil {
		t.Error("UnmarshalText(NOPE) error = nil, want error")
	}
}
