package logger

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// RequestFormatter adapts l to chi's request logger so access logs share the
// application's structured output.
func RequestFormatter(l Logger) middleware.LogFormatter {
	return &requestFormatter{log: l}
}

type requestFormatter struct {
	log Logger
}

func (f *requestFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	fields := map[string]interface{}{
		"method": r.Method,
		"path":   r.URL.Path,
		"remote": r.RemoteAddr,
	}
	if id := middleware.GetReqID(r.Context()); id != "" {
		fields["request_id"] = id
	}
	return &requestEntry{log: f.log.With(fields)}
}

type requestEntry struct {
	log Logger
}

func (e *requestEntry) Write(status, bytes int, header http.Header, elapsed time.Duration, extra interface{}) {
	l := e.log.With(map[string]interface{}{
		"status":     status,
		"bytes":      bytes,
		"elapsed_ms": float64(elapsed.Microseconds()) / 1000,
	})
	switch {
	case status >= http.StatusInternalServerError:
		l.Warn("request failed")
	case status >= http.StatusBadRequest:
		l.Info("request rejected")
	default:
		l.Debug("request")
	}
}

func (e *requestEntry) Panic(v interface{}, stack []byte) {
	e.log.With(map[string]interface{}{"stack": string(stack)}).Error(fmt.Errorf("%v", v), "request panicked")
}
