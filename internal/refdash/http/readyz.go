package http

import (
	"net/http"
	"time"

	"github.com/toshilabs/toshiref/internal/refdash/store"
	"github.com/toshilabs/toshiref/pkg/httpx"
	"github.com/toshilabs/toshiref/pkg/refsdk"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint returning service health status and checks for critical dependencies
//	@Description	Includes uptime, version, and status of the database and the pending authorization store
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	refsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	refsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	pending store.PendingAuthorizations,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &refsdk.HealthChecks{
			Database:     "ok",
			PendingStore: "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		// Len is the cheapest round trip every driver supports.
		if _, err := pending.Len(r.Context()); err != nil {
			checks.PendingStore = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		response := refsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		}
		httpx.WriteJSON(w, statusCode, response)
	}
}
