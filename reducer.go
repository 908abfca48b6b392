package newsgrab

// Reducer shrinks rendered HTML into a bounded text payload suitable for a
// language-model prompt.
//
// Reduce is a pure function: no I/O, and it never fails. If the HTML cannot
// be parsed the implementation falls back to truncating the raw input.
// Output never exceeds the implementation's character budget plus the length
// of its truncation marker.
type Reducer interface {
	Reduce(html string) string
}
