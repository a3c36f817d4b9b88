package transport

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jake-scott/switchbot-cli/internal/pkg/logging"
)

// Headers that carry credential material and must never reach a log
var sensitiveHeaders = []string{"Authorization", "sign"}

// Wrapper around an io.ReadCloser that logs every read as a string
type loggingReader struct {
	io.ReadCloser
	ctx context.Context
}

func newLoggingReader(ctx context.Context, rc io.ReadCloser) io.ReadCloser {
	return loggingReader{
		ReadCloser: rc,
		ctx:        ctx,
	}
}

func (lr loggingReader) Read(b []byte) (size int, err error) {
	size, err = lr.ReadCloser.Read(b)
	if size > 0 {
		logging.Logger(lr.ctx).Debugf("read %d bytes: --:--%s--:--", size, b[:size])
	}

	return size, err
}

// LoggingTransport writes an audit entry for every API call.  With
// logRequests set it also logs redacted request headers and response
// bodies at debug level.
type LoggingTransport struct {
	logRequests bool
	next        http.RoundTripper
}

func NewLoggingTransport(next http.RoundTripper, logRequests bool) *LoggingTransport {
	if next == nil {
		next = http.DefaultTransport
	}

	return &LoggingTransport{next: next, logRequests: logRequests}
}

func (t *LoggingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()
	startTime := time.Now()

	if t.logRequests {
		logging.Logger(ctx).Debugf("request headers: %+v", redactHeaders(r.Header))
	}

	fields := logrus.Fields{
		"entrytype": "audit",
		"method":    r.Method,
		"host":      r.URL.Host,
		"path":      r.URL.Path,
		"start":     startTime.Format(time.RFC3339Nano),
	}

	resp, err := t.next.RoundTrip(r)
	fields["duration"] = time.Since(startTime)

	if err != nil {
		logging.Logger(ctx).WithFields(fields).WithError(err).Warn("request failed")
		return nil, err
	}

	fields["status"] = resp.StatusCode
	fields["size"] = resp.ContentLength
	logging.Logger(ctx).WithFields(fields).Debug(http.StatusText(resp.StatusCode))

	if t.logRequests && resp.Body != nil {
		resp.Body = newLoggingReader(ctx, resp.Body)
	}

	return resp, nil
}

func redactHeaders(h http.Header) http.Header {
	out := h.Clone()
	for _, name := range sensitiveHeaders {
		if _, ok := out[name]; ok {
			out[name] = []string{"<redacted>"}
		}
		if canonical := http.CanonicalHeaderKey(name); canonical != name {
			if _, ok := out[canonical]; ok {
				out[canonical] = []string{"<redacted>"}
			}
		}
	}

	return out
}
