package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"gastos/internal/core"
)

// RequestBodyParser reads a bounded request body once and exposes its
// fields. JSON objects, form-encoded bodies and text/plain are accepted;
// a text/plain body is exposed as the "text" field.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser reads at most limit bytes of r's body.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request, limit int64) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	return p
}

// Parse decodes the body according to its content.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if mediaType, _, err := mime.ParseMediaType(p.contentType); err == nil && mediaType == "text/plain" {
		p.formData = url.Values{"text": {string(p.body)}}
		return nil
	}

	if p.body[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns the sanitized value of key.
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// TooLarge reports whether reading stopped at the body limit.
func (p *RequestBodyParser) TooLarge() bool {
	var maxErr *http.MaxBytesError
	return errors.As(p.err, &maxErr)
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}

// parseWindow reads the report window from the query string; an absent
// window selects the last 30 days.
func parseWindow(r *http.Request) (core.TimeWindow, error) {
	return core.ParseTimeWindow(r.URL.Query().Get("window"))
}
