package soa

// Kernel is the method set every generated column model provides.
// T is the column model struct and R the row type it stores; the *T
// constraint lets containers hold models by value and call methods through
// a pointer.
type Kernel[T any, R any] interface {
	*T
	// Len returns the common column length
	Len() int
	// Push appends one row to every column and returns its index
	Push(row R) int
	// Clone returns a deep copy
	Clone() *T
}

// Must panics if err is non-nil and returns v otherwise. It is used by
// generated constructors whose arguments are compile-time constants.
func Must[V any](v V, err error) V {
	if err != nil {
		panic(err)
	}
	return v
}
