package async

// Result holds the outcome of a resolved promise node: exactly one of
// Value or Err is meaningful, discriminated by Err == nil. A Result with
// both fields nil is therefore a success whose value is nil (for example
// a Fulfiller settled with a nil pointer).
type Result struct {
	Value any
	Err   error
}

// Ok reports whether the result represents success.
func (r Result) Ok() bool {
	return r.Err == nil
}

// valueOrErr is a tiny helper used by combinators that need to build a
// Result from a (value, error) pair, the idiomatic Go shape that most
// user callbacks return.
func valueOrErr(v any, err error) Result {
	if err != nil {
		return Result{Err: err}
	}
	return Result{Value: v}
}
