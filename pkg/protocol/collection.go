package protocol

import "fmt"

// ReadSlice decodes count repetitions of a homogeneous element, threading
// the element decoder through the same continuous bit stream: no alignment
// is inserted between entries. The first failing element aborts the whole
// read with no partial slice.
//
// A count that cannot possibly fit in the remaining bits is rejected up
// front as an underrun, before any allocation proportional to it.
func ReadSlice[T any](r *Reader, count int, elem func(*Reader) (T, error)) ([]T, error) {
	if count < 0 || count > r.BitsRemaining() {
		return nil, fmt.Errorf("slice count %d with %d bits remaining: %w", count, r.BitsRemaining(), ErrUnderrun)
	}
	if count == 0 {
		return nil, nil
	}
	out := make([]T, 0, count)
	for i := 0; i < count; i++ {
		v, err := elem(r)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// WriteSlice encodes every element back to back through the same continuous
// bit stream. The count field is the caller's to write, at whatever width
// the schema declares.
func WriteSlice[T any](w *Writer, elems []T, elem func(*Writer, T)) {
	for i := range elems {
		elem(w, elems[i])
	}
}
