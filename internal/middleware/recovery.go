package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/2beens/gymsession/internal/telemetry/metrics"
	"github.com/2beens/gymsession/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type panicResponse struct {
	Error string `json:"error"`
}

// PanicRecovery turns a handler panic into a 500 JSON response. An active
// session of the user stays untouched, the engine state lives outside the request.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				// let net/http abort the connection silently
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				fields := log.Fields{"method": r.Method, "path": r.URL.Path}
				if userID, ok := UserIDFromContext(r.Context()); ok {
					fields["user"] = userID
				}
				log.WithFields(fields).Errorf("panic: %v\n%s", rec, debug.Stack())

				span := trace.SpanFromContext(r.Context())
				span.RecordError(fmt.Errorf("panic: %v", rec))
				span.SetStatus(codes.Error, "panic")

				if metricsManager != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
				}
				pkg.WriteJSONResponse(w, panicResponse{Error: "internal error"}, http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
