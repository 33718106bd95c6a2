package relay

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dohdig/dohdig/dnsjson"
	"github.com/dohdig/dohdig/doh"
)

// ResolveHandler serves JSON-DoH resolution requests.
type ResolveHandler struct {
	resolver *Resolver
}

// NewResolveHandler creates a ResolveHandler backed by the given resolver.
func NewResolveHandler(resolver *Resolver) *ResolveHandler {
	return &ResolveHandler{resolver: resolver}
}

// Resolve handles GET /resolve and GET /dns-query. It accepts the same
// name, type, cd, and do parameters the public providers accept and
// returns the resolved document as application/dns-json.
func (h *ResolveHandler) Resolve(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		Fail(c, 400, "name query parameter is required")
		return
	}

	rt, err := dnsjson.ParseRecordType(c.DefaultQuery("type", "A"))
	if err != nil {
		Fail(c, 400, "invalid record type")
		return
	}

	cd, err := strconv.ParseBool(c.DefaultQuery("cd", "false"))
	if err != nil {
		Fail(c, 400, "cd must be a boolean")
		return
	}
	do, err := strconv.ParseBool(c.DefaultQuery("do", "false"))
	if err != nil {
		Fail(c, 400, "do must be a boolean")
		return
	}

	resp, err := h.resolver.Resolve(c.Request.Context(), name, doh.ResolveOptions{
		Type:             rt,
		CheckingDisabled: cd,
		DNSSECOK:         do,
	})
	if err != nil {
		Fail(c, upstreamFailureStatus(err), err.Error())
		return
	}

	data, err := json.Marshal(resp)
	if err != nil {
		Fail(c, 500, err.Error())
		return
	}
	c.Data(200, "application/dns-json", data)
}

// upstreamFailureStatus maps resolution errors to an HTTP status. Errors
// here only ever come from the upstream leg, so they are gateway problems;
// timeouts get their own status.
func upstreamFailureStatus(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return 504
	}
	return 502
}
