package loader

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/plateview/internal/datasource"
	"github.com/vanderheijden86/plateview/pkg/metrics"
)

var errEmptyBody = errors.New("empty response body")

// decodeDocument parses a 2xx response body into v, which must point to a
// struct. Malformed JSON becomes a FetchError. A well-formed body of the
// wrong shape becomes a StructuralError.
func decodeDocument(resp *datasource.Response, v any) error {
	defer metrics.Timer(metrics.JSONParsing)()

	body := bytes.TrimSpace(stripBOM(resp.Body))
	if len(body) == 0 {
		return &FetchError{Status: resp.Status, URL: resp.URL, Err: errEmptyBody}
	}

	if body[0] != '{' {
		var top any
		if err := json.Unmarshal(body, &top); err != nil {
			return &FetchError{Status: resp.Status, URL: resp.URL, Err: fmt.Errorf("invalid JSON: %w", err)}
		}
		return &StructuralError{URL: resp.URL, Reason: fmt.Sprintf("document root is %s, not an object", jsonKind(top))}
	}

	err := json.Unmarshal(body, v)
	if err == nil {
		return nil
	}
	if !json.Valid(body) {
		return &FetchError{Status: resp.Status, URL: resp.URL, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	// The body is well-formed, so the decoder rejected its shape.
	reason := err.Error()
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		reason = fmt.Sprintf("field %q: cannot use %s as %s", typeErr.Field, typeErr.Value, typeErr.Type)
	}
	return &StructuralError{URL: resp.URL, Reason: reason, Err: err}
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "an array"
	case string:
		return "a string"
	case float64:
		return "a number"
	case bool:
		return "a boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// stripBOM removes the UTF-8 Byte Order Mark if present.
func stripBOM(b []byte) []byte {
	if bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) {
		return b[3:]
	}
	return b
}
