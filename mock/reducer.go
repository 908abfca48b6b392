package mock

import "newsgrab"

var _ newsgrab.Reducer = (*Reducer)(nil)

// Reducer is a mock implementation of newsgrab.Reducer.
type Reducer struct {
	ReduceFn func(html string) string
}

func (r *Reducer) Reduce(html string) string {
	return r.ReduceFn(html)
}
