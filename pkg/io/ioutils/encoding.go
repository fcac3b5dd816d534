package ioutils

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// Decode wraps r so that text in the named charset (any WHATWG label such as
// "windows-1250" or "latin1") is read as UTF-8. An empty name or a UTF-8
// label returns r unchanged.
func Decode(r io.Reader, charset string) (io.Reader, error) {
	name := strings.ToLower(strings.TrimSpace(charset))
	if name == "" || name == "utf-8" || name == "utf8" {
		return r, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", charset, err)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
