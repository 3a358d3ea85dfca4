package wiremodel

import (
	"strconv"
	"strings"
)

// Paths are JSON Pointers (RFC 6901) into the wire value, built while the
// coercion engine descends. The root is the empty string internally and is
// rendered as "/".

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func escapePointer(token string) string { return pointerEscaper.Replace(token) }

func joinPointer(base, token string) string { return base + "/" + escapePointer(token) }

func indexPointer(base string, i int) string { return base + "/" + strconv.Itoa(i) }

func pointerOrRoot(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
