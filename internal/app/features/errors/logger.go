// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"github.com/dalemusser/repairhub/internal/app/system/auth"
	"go.uber.org/zap"
)

// ErrorLogger logs a failure with request context and renders the matching
// error page.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger wraps logger. A nil logger is replaced by a no-op logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{Log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	fs := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	}
	if u, ok := auth.CurrentUser(r); ok {
		fs = append(fs, zap.String("user_id", u.ID))
	}
	return fs
}

// LogServerError logs at error level and renders a 500 page (or toast).
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.Log.Error(logMsg, e.fields(r, err)...)
	HTMXError(w, r, http.StatusInternalServerError, userMsg, func() { RenderServerError(w, r, userMsg, backURL) })
}

// LogBadRequest logs at warn level and renders a 400 page (or toast).
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.Log.Warn(logMsg, e.fields(r, err)...)
	HTMXBadRequest(w, r, userMsg, backURL)
}

// LogNotFound logs at info level and renders a 404 page (or toast).
func (e *ErrorLogger) LogNotFound(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.Log.Info(logMsg, e.fields(r, err)...)
	HTMXNotFound(w, r, userMsg, backURL)
}
