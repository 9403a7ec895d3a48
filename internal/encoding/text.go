// Package encoding provides text decoding for hand-edited input files.
package encoding

import (
	"bytes"
	"unicode/utf8"

	"github.com/spf13/afero"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// ToUTF8 returns data as UTF-8. A leading byte order mark is dropped and
// data that is not valid UTF-8 is decoded as Windows-1252.
// Returns the original bytes if conversion fails.
func ToUTF8(data []byte) []byte {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return data
	}

	result, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	if err != nil {
		return data
	}
	return result
}

// ReadFile reads a text file from fsys and converts it with ToUTF8.
func ReadFile(fsys afero.Fs, path string) ([]byte, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}
	return ToUTF8(data), nil
}
