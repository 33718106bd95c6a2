package relay

import (
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dohdig/dohdig/override"
)

var startTime = time.Now()

// HealthHandler handles GET /health.
func HealthHandler(c *gin.Context) {
	OK(c, gin.H{"status": "ok"})
}

// NewStatusHandler returns the GET /status handler, reporting process
// runtime information and the state of the override store.
func NewStatusHandler(store *override.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)

		OK(c, gin.H{
			"uptime":           time.Since(startTime).String(),
			"goroutines":       runtime.NumGoroutine(),
			"go_version":       runtime.Version(),
			"alloc_bytes":      mem.Alloc,
			"override_version": store.Version(),
			"override_records": len(store.List()),
		})
	}
}
