package dnsjson

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Question is one query echoed back by the resolver.
type Question struct {
	Name string `json:"name"`
	Type uint16 `json:"type"`
}

// RecordType returns the symbolic record type for the raw type code.
func (q Question) RecordType() RecordType {
	return RecordType(q.Type)
}

// Answer is one resource record of a decoded response. Type holds the raw
// numeric DNS type exactly as the resolver sent it; the symbolic form is
// derived on demand so unrecognized codes survive a round trip.
type Answer struct {
	Name string `json:"name"`
	Type uint16 `json:"type"`
	TTL  uint32 `json:"TTL"`
	Data string `json:"data"`
}

// RecordType returns the symbolic record type for the raw type code.
func (a Answer) RecordType() RecordType {
	return RecordType(a.Type)
}

// Response is a decoded DNS-over-HTTPS JSON answer document.
//
// Matches the API implemented by https://dns.google/ and
// https://cloudflare-dns.com/.
type Response struct {
	Status   int        // Standard DNS response code.
	TC       bool       // Whether the response is truncated.
	RD       bool       // Whether recursion was desired.
	RA       bool       // Whether recursion is available.
	AD       bool       // Whether all response data was validated with DNSSEC.
	CD       bool       // Whether the client asked to disable DNSSEC validation.
	Question []Question // Questions this response answers.
	Answer   []Answer   // Answers, in the exact order the resolver sent them.
}

// Code returns the symbolic classification of Status.
func (r *Response) Code() ResponseCode {
	return ResponseCodeFromStatus(uint16(r.Status))
}

// Decoding failure causes.
var (
	ErrMissingField     = errors.New("missing required field")
	ErrStatusOutOfRange = errors.New("status outside the 16-bit range")
)

// jsonResponse mirrors Response with pointer scalar fields so that absent
// and zero-valued fields can be told apart after unmarshalling. Slices
// stay nil when the array is absent or null.
type jsonResponse struct {
	Status   *int       `json:"Status"`
	TC       *bool      `json:"TC"`
	RD       *bool      `json:"RD"`
	RA       *bool      `json:"RA"`
	AD       *bool      `json:"AD"`
	CD       *bool      `json:"CD"`
	Question []Question `json:"Question"`
	Answer   []Answer   `json:"Answer"`
}

// Decode parses a JSON answer document into a Response. Unknown fields are
// ignored so additions to the provider schemas keep decoding; the required
// fields must all be present with the right primitive shape or decoding
// fails. Question and Answer may be empty arrays but never absent: an
// omitted array is an error, not an empty result.
func Decode(data []byte) (*Response, error) {
	var jr jsonResponse
	if err := json.Unmarshal(data, &jr); err != nil {
		return nil, fmt.Errorf("unmarshalling response: %w", err)
	}

	switch {
	case jr.Status == nil:
		return nil, fmt.Errorf("%w: Status", ErrMissingField)
	case jr.TC == nil:
		return nil, fmt.Errorf("%w: TC", ErrMissingField)
	case jr.RD == nil:
		return nil, fmt.Errorf("%w: RD", ErrMissingField)
	case jr.RA == nil:
		return nil, fmt.Errorf("%w: RA", ErrMissingField)
	case jr.AD == nil:
		return nil, fmt.Errorf("%w: AD", ErrMissingField)
	case jr.CD == nil:
		return nil, fmt.Errorf("%w: CD", ErrMissingField)
	case jr.Question == nil:
		return nil, fmt.Errorf("%w: Question", ErrMissingField)
	case jr.Answer == nil:
		return nil, fmt.Errorf("%w: Answer", ErrMissingField)
	}

	// DNS carries the status in a 16-bit header field; anything larger
	// cannot be classified and marks a malformed document.
	if *jr.Status < 0 || *jr.Status > 65535 {
		return nil, fmt.Errorf("%w: %d", ErrStatusOutOfRange, *jr.Status)
	}

	return &Response{
		Status:   *jr.Status,
		TC:       *jr.TC,
		RD:       *jr.RD,
		RA:       *jr.RA,
		AD:       *jr.AD,
		CD:       *jr.CD,
		Question: jr.Question,
		Answer:   jr.Answer,
	}, nil
}
