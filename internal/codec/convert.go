package codec

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"amani/internal/document"
)

// ConversionError reports a stored field whose shape cannot be interpreted
// at all. Missing fields are not conversion errors (they default); this is
// reserved for structural malformation that needs manual repair.
type ConversionError struct {
	EntityID string
	Field    string
	Reason   string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert field %q of entity %s: %s", e.Field, e.EntityID, e.Reason)
}

// Decoder reads typed fields out of a raw document, substituting declared
// defaults for missing values and recording the first structural failure.
// Entity readers drive one Decoder per document and check Err once at the
// end, so a fully malformed record fails loudly instead of yielding a
// half-wrong entity.
type Decoder struct {
	doc      document.Document
	entityID string
	err      *ConversionError
	warnings []string
	now      func() time.Time
	parent   *Decoder
}

func NewDecoder(doc document.Document, entityID string) *Decoder {
	return &Decoder{doc: doc, entityID: entityID, now: time.Now}
}

// root finds the top-level decoder; sub-decoders share its error and
// warning state so nested failures surface on the owning entity.
func (d *Decoder) root() *Decoder {
	for d.parent != nil {
		d = d.parent
	}
	return d
}

// Err returns the first structural failure, or nil.
func (d *Decoder) Err() error {
	if r := d.root(); r.err != nil {
		return r.err
	}
	return nil
}

// Warnings lists non-fatal data problems found while reading, such as a
// required instant that had to fall back to the current time. Callers
// surface these; the record itself still loads.
func (d *Decoder) Warnings() []string { return d.root().warnings }

func (d *Decoder) fail(field, reason string) {
	r := d.root()
	if r.err == nil {
		r.err = &ConversionError{EntityID: r.entityID, Field: field, Reason: reason}
	}
}

func (d *Decoder) warnf(format string, args ...any) {
	r := d.root()
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

// String reads a string field, defaulting to "".
func (d *Decoder) String(field string) string {
	return d.StringOr(field, "")
}

// StringOr reads a string field with a named fallback for missing or null
// values. A present value of the wrong type is a structural failure.
func (d *Decoder) StringOr(field, fallback string) string {
	v, ok := d.doc[field]
	if !ok || v == nil {
		return fallback
	}
	s, ok := v.(string)
	if !ok {
		d.fail(field, fmt.Sprintf("expected string, got %T", v))
		return fallback
	}
	return s
}

// Float reads a numeric field, defaulting to 0. JSON decoding hands back
// float64; in-memory documents may hold any Go numeric type.
func (d *Decoder) Float(field string) float64 {
	v, ok := d.doc[field]
	if !ok || v == nil {
		return 0
	}
	n, ok := numeric(v)
	if !ok {
		d.fail(field, fmt.Sprintf("expected number, got %T", v))
		return 0
	}
	return n
}

// Bool reads a boolean field, defaulting to false.
func (d *Decoder) Bool(field string) bool {
	return d.BoolOr(field, false)
}

// BoolOr reads a boolean field with an explicit default.
func (d *Decoder) BoolOr(field string, fallback bool) bool {
	v, ok := d.doc[field]
	if !ok || v == nil {
		return fallback
	}
	b, ok := v.(bool)
	if !ok {
		d.fail(field, fmt.Sprintf("expected bool, got %T", v))
		return fallback
	}
	return b
}

// StringList reads a list of strings, defaulting to an empty slice. A
// non-list value or a non-string element is a structural failure.
func (d *Decoder) StringList(field string) []string {
	v, ok := d.doc[field]
	if !ok || v == nil {
		return []string{}
	}
	list, ok := v.([]any)
	if !ok {
		d.fail(field, fmt.Sprintf("expected list, got %T", v))
		return []string{}
	}
	out := make([]string, 0, len(list))
	for _, e := range list {
		s, ok := e.(string)
		if !ok {
			d.fail(field, fmt.Sprintf("expected string element, got %T", e))
			return []string{}
		}
		out = append(out, s)
	}
	return out
}

// RequiredInstant reads an instant field that every entity of this type
// must carry. A missing or malformed value does not fail the read, since
// one corrupted record must not take down a whole list view; it falls
// back to the current time and leaves a warning for the caller to surface.
func (d *Decoder) RequiredInstant(field string) time.Time {
	t, present, err := ToInstant(d.doc[field])
	if err != nil {
		d.warnf("%s: %v; substituted current time", field, err)
		return d.now().UTC()
	}
	if !present {
		d.warnf("%s: required instant missing; substituted current time", field)
		return d.now().UTC()
	}
	return t
}

// OptionalInstant reads an instant field that may be absent or cleared.
// Absent and null both come back as nil; a malformed present value is a
// structural failure.
func (d *Decoder) OptionalInstant(field string) *time.Time {
	t, present, err := ToInstant(d.doc[field])
	if err != nil {
		d.fail(field, err.Error())
		return nil
	}
	if !present {
		return nil
	}
	return &t
}

// RequiredObject reads a nested object field. A missing value yields an
// empty sub-decoder (fields default); a present non-object value is a
// structural failure, never a silently-defaulted object.
func (d *Decoder) RequiredObject(field string) *Decoder {
	v, ok := d.doc[field]
	if !ok || v == nil {
		return d.child(document.Document{})
	}
	obj, ok := asObject(v)
	if !ok {
		d.fail(field, fmt.Sprintf("expected object, got %T", v))
		return d.child(document.Document{})
	}
	return d.child(obj)
}

// SubRecords reads a nested list of sub-record objects, handing each to fn
// through its own sub-decoder. Non-object elements are structural
// failures. Sub-record identifiers are the caller's business via ID.
func SubRecords[T any](d *Decoder, field string, fn func(item *Decoder) T) []T {
	v, ok := d.doc[field]
	if !ok || v == nil {
		return []T{}
	}
	list, ok := v.([]any)
	if !ok {
		d.fail(field, fmt.Sprintf("expected list, got %T", v))
		return []T{}
	}
	out := make([]T, 0, len(list))
	for _, e := range list {
		obj, ok := asObject(e)
		if !ok {
			d.fail(field, fmt.Sprintf("expected object element, got %T", e))
			return []T{}
		}
		out = append(out, fn(d.child(obj)))
	}
	return out
}

// ID reads the sub-record identifier, generating a fresh one when the
// stored element lacks it. Identifiers already present are preserved.
func (d *Decoder) ID() string {
	id := d.String("id")
	if id == "" {
		return uuid.NewString()
	}
	return id
}

// child shares error and warning accumulation with the parent.
func (d *Decoder) child(doc document.Document) *Decoder {
	return &Decoder{doc: doc, entityID: d.entityID, now: d.now, parent: d}
}

func asObject(v any) (document.Document, bool) {
	switch obj := v.(type) {
	case document.Document:
		return obj, true
	case map[string]any:
		return obj, true
	default:
		return nil, false
	}
}

// EnsureID returns id unchanged when non-empty and a fresh uuid otherwise.
// Writers use it so sub-records always carry a stable identifier after any
// write without ever regenerating an existing one.
func EnsureID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}
