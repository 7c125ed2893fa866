package codec

import "amani/internal/document"

// Sanitize returns a copy of v with every map entry whose value is the
// absence marker removed, at any nesting depth. Explicit nils are kept
// verbatim: a stored null is the intentional "clear" signal, absence is
// not. List elements are sanitized in place in the copy but never dropped;
// an absent list element degrades to a null so the list stays dense. The
// input is never mutated.
func Sanitize(v any) any {
	switch tv := v.(type) {
	case document.Document:
		return document.Document(sanitizeMap(tv))
	case map[string]any:
		return sanitizeMap(tv)
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			if document.IsAbsent(e) {
				out[i] = nil
				continue
			}
			out[i] = Sanitize(e)
		}
		return out
	default:
		return v
	}
}

// SanitizeDocument is Sanitize specialized to whole documents.
func SanitizeDocument(doc document.Document) document.Document {
	return Sanitize(doc).(document.Document)
}

func sanitizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, e := range m {
		if document.IsAbsent(e) {
			continue
		}
		out[k] = Sanitize(e)
	}
	return out
}
