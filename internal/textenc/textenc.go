// Package textenc decodes the byte strings found in
// embedding files into Go strings.
package textenc

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// ErrInvalidUTF8 is returned when a strict decode
// encounters bytes which are not valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// Decode converts b to a string.
//
// If lossy is false, invalid UTF-8 results in
// ErrInvalidUTF8.
// If lossy is true, invalid sequences are replaced with
// the Unicode replacement character.
func Decode(b []byte, lossy bool) (string, error) {
	if utf8.Valid(b) {
		return string(b), nil
	}
	if !lossy {
		return "", ErrInvalidUTF8
	}
	res, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(res), nil
}
