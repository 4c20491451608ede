package http

import (
	"net/http"
	"time"

	"github.com/toshilabs/toshiref/pkg/httpx"
	"github.com/toshilabs/toshiref/pkg/refsdk"
)

// LivezHandler godoc
//
//	@Summary		Health Check Endpoint
//	@Description	Liveness probe endpoint returning basic service health status, uptime, and version information
//	@Description	This endpoint always returns 200 OK if the service is running
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	refsdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := refsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		}
		httpx.WriteJSON(w, http.StatusOK, response)
	}
}

// TestHandler godoc
//
//	@Summary		API Smoke Test
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	refsdk.MessageResponse	"message"
//	@Router			/api/test [get].
func TestHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, refsdk.MessageResponse{Message: "API is working"})
	}
}
