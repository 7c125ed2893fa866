package codec

import (
	"amani/internal/document"
	pstrings "amani/pkg/platform/strings"
)

// Write-side helpers shared by the entity writers. Optional values map to
// the absence marker so the sanitizer omits them; declared defaults are
// written explicitly by the writers themselves.

// OmitEmptyString maps "" to the absence marker.
func OmitEmptyString(s string) any {
	if s == "" {
		return document.Absent
	}
	return s
}

// StringListValue encodes a string slice as a document list. A nil slice
// encodes as an empty list, not as absence: lists always read back dense.
func StringListValue(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// TagList encodes a tag-like string slice, trimming whitespace and
// dropping duplicates and empties first.
func TagList(values []string) []any {
	return StringListValue(pstrings.DedupeAndTrim(values))
}
