package store

import (
	"errors"
	"fmt"
	"strings"
)

const fence = "---"

// ErrMalformedHeader reports a delimited header block whose lines do not
// parse as "key: value" pairs.
var ErrMalformedHeader = errors.New("malformed frontmatter header")

// Header is the ordered key/value metadata block prefixed to a document.
// Updates overwrite in place and append unknown keys, so the serialized
// order is stable across rewrites.
type Header struct {
	keys   []string
	values map[string]string
}

// NewHeader returns an empty header.
func NewHeader() *Header {
	return &Header{values: map[string]string{}}
}

// Set overwrites key or appends it, preserving first-insertion order.
func (h *Header) Set(key, value string) {
	if _, ok := h.values[key]; !ok {
		h.keys = append(h.keys, key)
	}
	h.values[key] = value
}

// Get returns the value for key, if present.
func (h *Header) Get(key string) (string, bool) {
	value, ok := h.values[key]
	return value, ok
}

// Len reports the number of keys.
func (h *Header) Len() int {
	return len(h.keys)
}

func (h *Header) marshal() string {
	var sb strings.Builder
	sb.WriteString(fence)
	sb.WriteString("\n")
	for _, key := range h.keys {
		sb.WriteString(key)
		sb.WriteString(": ")
		sb.WriteString(h.values[key])
		sb.WriteString("\n")
	}
	sb.WriteString(fence)
	sb.WriteString("\n")
	return sb.String()
}

// splitDocument separates the header block from the body. A document without
// the leading fence pair has no metadata and its raw content is kept as the
// body. A fenced block containing a non-"key: value" line is malformed.
// The body is trimmed so re-serialization is canonical: updating twice with
// identical values yields a byte-identical file.
func splitDocument(content string) (*Header, string, error) {
	header := NewHeader()

	if !strings.HasPrefix(content, fence+"\n") {
		return header, strings.TrimSpace(content), nil
	}

	rest := content[len(fence)+1:]
	end := strings.Index(rest, "\n"+fence+"\n")
	if end < 0 {
		return header, strings.TrimSpace(content), nil
	}

	block := rest[:end]
	body := rest[end+len(fence)+2:]

	for _, line := range strings.Split(block, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, "", fmt.Errorf("line %q: %w", line, ErrMalformedHeader)
		}
		header.Set(strings.TrimSpace(key), strings.TrimSpace(value))
	}

	return header, strings.TrimSpace(body), nil
}

func renderDocument(header *Header, body string) string {
	if header.Len() == 0 {
		return body + "\n"
	}
	return header.marshal() + "\n" + body + "\n"
}
