package probe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Response is one completed HTTP exchange.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Text returns the raw body without trailing line breaks.
func (r *Response) Text() string {
	return strings.TrimRight(string(r.Body), "\r\n")
}

// Decode parses the body as JSON into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return nil
}

// JSON returns the body parsed and re-rendered compactly, with key order and
// values exactly as the server sent them.
func (r *Response) JSON() (string, error) {
	var parsed any
	if err := r.Decode(&parsed); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, r.Body); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return buf.String(), nil
}
