package document

// Op is a filter comparison operator. The store supports equality and
// membership tests on string-list fields; nothing else.
type Op string

const (
	OpEqual         Op = "=="
	OpArrayContains Op = "array-contains"
)

// Filter is a single predicate on a top-level document field.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// Where builds an equality filter.
func Where(field string, value any) Filter {
	return Filter{Field: field, Op: OpEqual, Value: value}
}

// WhereContains builds an array-contains filter.
func WhereContains(field string, value any) Filter {
	return Filter{Field: field, Op: OpArrayContains, Value: value}
}

// Order describes single-field ordering.
type Order struct {
	Field string
	Desc  bool
}

// Query is an executable list request against one collection.
type Query struct {
	Filters []Filter
	OrderBy Order
	Limit   int
}
