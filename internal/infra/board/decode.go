package board

import (
	"bytes"
	"errors"
	"mime"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
)

// koreanCharsets are the labels servers use for the Korean double-byte charset.
// x/text's EUC-KR decoder implements the full code page 949 table, so all of them share it.
var koreanCharsets = map[string]struct{}{
	"ms949":          {},
	"cp949":          {},
	"windows-949":    {},
	"euc-kr":         {},
	"ks_c_5601-1987": {},
}

var errInvalidSequence = errors.New("byte sequence not representable in charset")

// DecodeBody turns a response body into text using the charset declared in contentType.
// Decoding is strict: invalid input is an error, never replaced with U+FFFD.
func DecodeBody(contentType string, body []byte) (string, error) {
	if strings.TrimSpace(contentType) == "" {
		return "", ErrMissingContentType
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", &UnsupportedEncodingError{ContentType: contentType}
	}
	charset := strings.ToLower(strings.TrimSpace(params["charset"]))

	switch {
	case charset == "utf-8" || charset == "utf8":
		if !utf8.Valid(body) {
			return "", &DecodeError{Charset: charset, Err: errInvalidSequence}
		}
		return string(body), nil
	case isKoreanCharset(charset):
		return decodeKorean(charset, body)
	default:
		return "", &UnsupportedEncodingError{ContentType: contentType}
	}
}

func isKoreanCharset(charset string) bool {
	_, ok := koreanCharsets[charset]
	return ok
}

func decodeKorean(charset string, body []byte) (string, error) {
	out, err := korean.EUCKR.NewDecoder().Bytes(body)
	if err != nil {
		return "", &DecodeError{Charset: charset, Err: err}
	}
	// U+FFFD is not in code page 949, so any occurrence is the decoder's substitution marker.
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", &DecodeError{Charset: charset, Err: errInvalidSequence}
	}
	return string(out), nil
}
