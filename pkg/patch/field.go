// Package patch models partial-update fields as an explicit
// unset / clear / value choice.
//
// The document store distinguishes "leave this field alone" (key omitted
// from the update) from "clear this field" (key written as a literal
// null). Key-presence checks on raw maps conflate the two; this sum type
// is the single presence check partial updates are built on.
package patch

// Field is one field of a partial update. The zero value is Unset.
type Field[T any] struct {
	set   bool
	clear bool
	value T
}

// Set returns a Field carrying a new value.
func Set[T any](v T) Field[T] {
	return Field[T]{set: true, value: v}
}

// Clear returns a Field expressing intent to null the stored value.
func Clear[T any]() Field[T] {
	return Field[T]{set: true, clear: true}
}

// IsSet reports whether the field appears in the update at all, whether as
// a value or a clear.
func (f Field[T]) IsSet() bool { return f.set }

// IsClear reports whether the field clears the stored value.
func (f Field[T]) IsClear() bool { return f.set && f.clear }

// Value returns the carried value; ok is false for unset or cleared
// fields.
func (f Field[T]) Value() (T, bool) {
	if !f.set || f.clear {
		var zero T
		return zero, false
	}
	return f.value, true
}

// Apply writes the field into an update document under key: omitted when
// unset, a literal null when cleared, conv(value) otherwise. conv adapts
// the domain value to its store representation; pass Identity for values
// stored as-is.
func Apply[T any](doc map[string]any, key string, f Field[T], conv func(T) any) {
	switch {
	case !f.set:
	case f.clear:
		doc[key] = nil
	default:
		doc[key] = conv(f.value)
	}
}

// Identity is the no-op conversion for Apply.
func Identity[T any](v T) any { return v }
