package board

import (
	"errors"
	"fmt"
)

// ErrMissingContentType is returned when a response carries no Content-Type header,
// so there is no declared charset to decode the body with.
var ErrMissingContentType = errors.New("response has no content-type header")

// TransportError covers network failures and non-2xx responses.
type TransportError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UnsupportedEncodingError reports a Content-Type whose charset is not one we decode.
type UnsupportedEncodingError struct {
	ContentType string
}

func (e *UnsupportedEncodingError) Error() string {
	return fmt.Sprintf("unsupported encoding in content-type %q", e.ContentType)
}

// DecodeError reports a body that is not valid in its declared charset.
type DecodeError struct {
	Charset string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s body: %v", e.Charset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// StructureMismatchError means an element the parser relies on is gone from the page.
// It usually signals an upstream layout change and will not clear up by itself.
type StructureMismatchError struct {
	Selector string
	Detail   string
}

func (e *StructureMismatchError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("page structure mismatch at %q: %s", e.Selector, e.Detail)
	}
	return fmt.Sprintf("page structure mismatch: %q not found", e.Selector)
}

// ItemFieldMissingError reports a listing row without a usable required field.
type ItemFieldMissingError struct {
	Index int
	Field string
	Err   error
}

func (e *ItemFieldMissingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("listing item %d: field %s: %v", e.Index, e.Field, e.Err)
	}
	return fmt.Sprintf("listing item %d: field %s missing", e.Index, e.Field)
}

func (e *ItemFieldMissingError) Unwrap() error { return e.Err }

// TimestampParseError carries the raw date text that failed to parse.
type TimestampParseError struct {
	Raw string
	Err error
}

func (e *TimestampParseError) Error() string {
	return fmt.Sprintf("parse timestamp %q: %v", e.Raw, e.Err)
}

func (e *TimestampParseError) Unwrap() error { return e.Err }
