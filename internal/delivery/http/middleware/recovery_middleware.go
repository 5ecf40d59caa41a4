package middleware

import (
	"net/http"
	"runtime/debug"

	"clinical-registry/pkg/response"

	"github.com/sirupsen/logrus"
)

type RecoveryMiddleware struct {
	log *logrus.Logger
}

func NewRecoveryMiddleware(log *logrus.Logger) *RecoveryMiddleware {
	return &RecoveryMiddleware{log: log}
}

// Handle turns a panic in a handler into a generic 500 response.
func (m *RecoveryMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				requestID, _ := GetRequestIDFromContext(r.Context())
				m.log.WithFields(logrus.Fields{
					"request_id": requestID,
					"panic":      rec,
					"stack":      string(debug.Stack()),
				}).Error("handler panicked")
				response.InternalServerError(w, "")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
