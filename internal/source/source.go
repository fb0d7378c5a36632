// Package source reads file versions into lines for mapping.
package source

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadLines reads the file at path and splits it into lines.
// Errors are wrapped with the path and otherwise returned unchanged.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	defer f.Close()

	lines, err := Lines(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}

var utf8BOM = []byte("\xef\xbb\xbf")

// Lines decodes r and splits it into lines. Input is UTF-8 unless a UTF-16
// byte order mark says otherwise; a leading mark is dropped. Malformed UTF-8
// fails with encoding.ErrInvalidUTF8. "\n", "\r\n" and a lone "\r" all end
// a line, and a final terminator does not start another.
func Lines(r io.Reader) ([]string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	dec := unicode.BOMOverride(encoding.UTF8Validator)
	data, _, err := transform.Bytes(dec, bytes.TrimPrefix(raw, utf8BOM))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return splitLines(data), nil
}

func splitLines(data []byte) []string {
	var lines []string
	for len(data) > 0 {
		i := bytes.IndexAny(data, "\r\n")
		if i < 0 {
			lines = append(lines, string(data))
			break
		}
		lines = append(lines, string(data[:i]))
		if data[i] == '\r' && i+1 < len(data) && data[i+1] == '\n' {
			i++
		}
		data = data[i+1:]
	}
	return lines
}
