package ads

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
)

// Static errors for err113 compliance.
var (
	ErrEmptyBody   = errors.New("response body is empty")
	ErrNotAnObject = errors.New("response body is not a JSON object")
)

// Header is one response header line.
type Header struct {
	Name  string
	Value string
}

// Response is a read-only view of a completed API call.
type Response struct {
	StatusCode int

	header http.Header
	raw    []byte

	once    sync.Once
	body    map[string]any
	bodyErr error
}

// NewResponse wraps a status, header set and raw payload.
func NewResponse(statusCode int, header http.Header, raw []byte) *Response {
	if header == nil {
		header = http.Header{}
	}

	return &Response{
		StatusCode: statusCode,
		header:     header.Clone(),
		raw:        raw,
	}
}

// Header returns a copy of the header map.
func (r *Response) Header() http.Header {
	return r.header.Clone()
}

// Headers returns every header line ordered by canonical name. Repeated
// values of one name keep their received order.
func (r *Response) Headers() []Header {
	names := make([]string, 0, len(r.header))
	for name := range r.header {
		names = append(names, name)
	}

	sort.Strings(names)

	out := make([]Header, 0, len(names))
	for _, name := range names {
		for _, value := range r.header[name] {
			out = append(out, Header{Name: name, Value: value})
		}
	}

	return out
}

// RawBody returns the undecoded payload.
func (r *Response) RawBody() []byte {
	return r.raw
}

// Body decodes the payload once and caches the result. Numbers decode as
// json.Number so 64-bit ids keep their precision.
func (r *Response) Body() (map[string]any, error) {
	r.once.Do(func() {
		if len(bytes.TrimSpace(r.raw)) == 0 {
			r.bodyErr = ErrEmptyBody

			return
		}

		var decoded any

		dec := json.NewDecoder(bytes.NewReader(r.raw))
		dec.UseNumber()

		if err := dec.Decode(&decoded); err != nil {
			r.bodyErr = fmt.Errorf("decoding response body: %w", err)

			return
		}

		obj, ok := decoded.(map[string]any)
		if !ok {
			r.bodyErr = ErrNotAnObject

			return
		}

		r.body = obj
	})

	return r.body, r.bodyErr
}

// Data returns the body's data member.
func (r *Response) Data() (any, error) {
	body, err := r.Body()
	if err != nil {
		return nil, err
	}

	return body["data"], nil
}

// DataObject returns the body's data member when it is a single object.
func (r *Response) DataObject() (map[string]any, error) {
	data, err := r.Data()
	if err != nil {
		return nil, err
	}

	obj, ok := data.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: data member", ErrNotAnObject)
	}

	return obj, nil
}

// Decode unmarshals the raw payload into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.raw, v); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}

	return nil
}
