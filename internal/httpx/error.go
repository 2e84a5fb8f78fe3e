package httpx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorRecord is the structured error body returned by the vault.
type ErrorRecord struct {
	Status  int    `json:"status"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// HTTPError represents a non-2xx HTTP response returned by the remote service.
// Record is set when the body decoded as an ErrorRecord.
type HTTPError struct {
	StatusCode int
	Body       []byte
	Header     http.Header
	Record     *ErrorRecord
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Record != nil {
		return fmt.Sprintf("Error %d (%s): %s", e.Record.Status, e.Record.Name, e.Record.Message)
	}
	return string(e.Body)
}

// Cause returns the raw response body the error was built from.
func (e *HTTPError) Cause() string {
	if e == nil {
		return ""
	}
	return string(e.Body)
}

// NewHTTPError builds an HTTPError carrying a decoded record, with Body set
// to the record's JSON encoding.
func NewHTTPError(status int, message string) *HTTPError {
	record := &ErrorRecord{
		Status:  status,
		Name:    http.StatusText(status),
		Message: message,
	}
	body, _ := jsonMarshal(record)
	return &HTTPError{
		StatusCode: status,
		Body:       body,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Record:     record,
	}
}

// decodeErrorRecord parses body as an ErrorRecord. Only a JSON object with a
// numeric status qualifies; HTML pages, plain text, scalars and objects of
// any other shape are reported as undecodable.
func decodeErrorRecord(body []byte) (*ErrorRecord, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil || fields == nil {
		return nil, false
	}
	var status int
	if raw, ok := fields["status"]; !ok || json.Unmarshal(raw, &status) != nil || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, false
	}
	var record ErrorRecord
	if err := json.Unmarshal(trimmed, &record); err != nil {
		return nil, false
	}
	return &record, true
}
