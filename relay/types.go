package relay

import (
	"fmt"

	"github.com/dohdig/dohdig/dnsjson"
	"github.com/dohdig/dohdig/override"
)

// OverrideRequest is the request body for POST /overrides/add and
// PUT /overrides/update. The type is symbolic ("A") or numeric ("TYPE4471").
type OverrideRequest struct {
	Name   string   `json:"name" binding:"required"`
	Type   string   `json:"type" binding:"required"`
	TTL    uint32   `json:"ttl"`
	Values []string `json:"values" binding:"required,min=1"`
}

// record converts the request into a store record, parsing the type.
func (r *OverrideRequest) record() (*override.Record, error) {
	rt, err := dnsjson.ParseRecordType(r.Type)
	if err != nil {
		return nil, fmt.Errorf("invalid record type %q", r.Type)
	}
	return &override.Record{
		Name:   r.Name,
		Type:   rt,
		TTL:    r.TTL,
		Values: r.Values,
	}, nil
}
