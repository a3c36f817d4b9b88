package sbapi

import (
	"bytes"
	"net/http"
	"strings"

	apierrors "github.com/go-openapi/errors"
	"github.com/go-openapi/runtime/middleware/header"
	"github.com/pkg/errors"
)

// Longest response body quoted in an error message
const maxErrorBody = 512

func newStatusError(path string, resp *http.Response, body []byte) error {
	body = bytes.TrimSpace(body)
	if len(body) > maxErrorBody {
		body = append(body[:maxErrorBody:maxErrorBody], "..."...)
	}

	return apierrors.New(int32(resp.StatusCode), "GET %s: HTTP %s: %s", path, resp.Status, body)
}

// StatusCode returns the HTTP status carried by an error from a request
// that the API answered with a non-2xx code
func StatusCode(err error) (int, bool) {
	var apiErr apierrors.Error
	if errors.As(err, &apiErr) {
		return int(apiErr.Code()), true
	}

	return 0, false
}

// isJSONContent reports whether the response is unlabelled or labelled as JSON
func isJSONContent(resp *http.Response) bool {
	if resp.Header.Get("Content-Type") == "" {
		return true
	}

	value, _ := header.ParseValueAndParams(resp.Header, "Content-Type")
	value = strings.ToLower(value)
	return value == "application/json" || strings.HasSuffix(value, "+json")
}
