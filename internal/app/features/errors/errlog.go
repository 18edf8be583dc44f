// internal/app/features/errors/errlog.go
package errors

import (
	"net/http"

	"go.uber.org/zap"
)

// ErrorLogger pairs structured logging with user-facing error pages so
// handlers can report a failure in one call.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogBadRequest logs a client error and renders an error page with the
// given user-facing message. backURL may be empty.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.log.Warn(logMsg,
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.Error(err))
	w.WriteHeader(http.StatusBadRequest)
	RenderForbidden(w, r, userMsg, backURL)
}

// LogServerError logs a server-side failure and renders an error page
// with the given user-facing message. backURL may be empty.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.log.Error(logMsg,
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.Error(err))
	w.WriteHeader(http.StatusInternalServerError)
	RenderForbidden(w, r, userMsg, backURL)
}
