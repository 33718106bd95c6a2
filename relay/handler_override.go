package relay

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/miekg/dns"

	"github.com/dohdig/dohdig/dnsjson"
	"github.com/dohdig/dohdig/override"
)

// OverrideHandler handles override record management endpoints.
type OverrideHandler struct {
	store *override.Store
}

// NewOverrideHandler creates an OverrideHandler for the given store.
func NewOverrideHandler(store *override.Store) *OverrideHandler {
	return &OverrideHandler{store: store}
}

// Add handles POST /overrides/add.
func (h *OverrideHandler) Add(c *gin.Context) {
	var req OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, 400, err.Error())
		return
	}

	rec, err := req.record()
	if err != nil {
		Fail(c, 400, err.Error())
		return
	}

	if err := h.store.Create(rec); err != nil {
		if errors.Is(err, override.ErrExists) {
			Fail(c, 409, "record already exists")
			return
		}
		Fail(c, 500, err.Error())
		return
	}

	OK(c, rec)
}

// Update handles PUT /overrides/update.
func (h *OverrideHandler) Update(c *gin.Context) {
	var req OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, 400, err.Error())
		return
	}

	rec, err := req.record()
	if err != nil {
		Fail(c, 400, err.Error())
		return
	}

	if err := h.store.Update(rec); err != nil {
		if errors.Is(err, override.ErrNotFound) {
			Fail(c, 404, "record not found")
			return
		}
		Fail(c, 500, err.Error())
		return
	}

	OK(c, rec)
}

// Delete handles DELETE /overrides/delete.
func (h *OverrideHandler) Delete(c *gin.Context) {
	name := c.Query("name")
	typeStr := c.Query("type")
	if name == "" || typeStr == "" {
		Fail(c, 400, "name and type query parameters are required")
		return
	}

	rt, err := dnsjson.ParseRecordType(typeStr)
	if err != nil {
		Fail(c, 400, "invalid record type")
		return
	}

	if err := h.store.Delete(name, rt); err != nil {
		if errors.Is(err, override.ErrNotFound) {
			Fail(c, 404, "record not found")
			return
		}
		Fail(c, 500, err.Error())
		return
	}

	OK(c, nil)
}

// List handles GET /overrides/list.
func (h *OverrideHandler) List(c *gin.Context) {
	records := h.store.List()

	// Apply optional filters from query params.
	name := c.Query("name")
	typeStr := c.Query("type")

	var typeFilter dnsjson.RecordType
	if typeStr != "" {
		rt, err := dnsjson.ParseRecordType(typeStr)
		if err != nil {
			Fail(c, 400, "invalid record type")
			return
		}
		typeFilter = rt
	}

	filtered := make([]*override.Record, 0, len(records))
	for _, r := range records {
		if name != "" && r.Name != dns.CanonicalName(name) {
			continue
		}
		if typeStr != "" && r.Type != typeFilter {
			continue
		}
		filtered = append(filtered, r)
	}

	OK(c, filtered)
}

// Get handles GET /overrides/get.
func (h *OverrideHandler) Get(c *gin.Context) {
	name := c.Query("name")
	typeStr := c.Query("type")
	if name == "" || typeStr == "" {
		Fail(c, 400, "name and type query parameters are required")
		return
	}

	rt, err := dnsjson.ParseRecordType(typeStr)
	if err != nil {
		Fail(c, 400, "invalid record type")
		return
	}

	records, err := h.store.Get(name, rt)
	if err != nil {
		if errors.Is(err, override.ErrNotFound) {
			Fail(c, 404, "record not found")
			return
		}
		Fail(c, 500, err.Error())
		return
	}

	OK(c, records)
}
