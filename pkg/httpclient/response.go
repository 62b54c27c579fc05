package httpclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

var errEmptyBody = errors.New("empty response body")

// handleResponse turns a non-2xx response into a KindHTTP error carrying the
// body text, and otherwise decodes the JSON body into out. An empty body is
// accepted only when out is nil or the status is 204; otherwise it is
// KindDecode.
func handleResponse(resp *http.Response, method, target string, out any) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(resp.Body)
		return &Error{
			Kind:       KindHTTP,
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(text)),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindNetwork, Method: method, URL: target, StatusCode: resp.StatusCode, Err: err}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return &Error{Kind: KindDecode, Method: method, URL: target, StatusCode: resp.StatusCode, Err: errEmptyBody}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindDecode, Method: method, URL: target, StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}
