package usagemap

import "iter"

// Pages iterates the allocated pages of a map in increasing order. A
// decoding error is yielded once as the final element.
func Pages(m []byte, loader PageLoader, opts Options) iter.Seq2[uint32, error] {
	return func(yield func(uint32, error) bool) {
		stopped := false
		err := scan(m, 0, loader, opts, func(p uint32) bool {
			if !yield(p, nil) {
				stopped = true
				return false
			}
			return true
		})
		if err != nil && !stopped {
			yield(0, err)
		}
	}
}

// Collect returns every allocated page of the map.
func Collect(m []byte, loader PageLoader, opts Options) ([]uint32, error) {
	var out []uint32
	for p, err := range Pages(m, loader, opts) {
		if err != nil {
			return out, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Count returns the number of allocated pages in the map.
func Count(m []byte, loader PageLoader, opts Options) (int, error) {
	n := 0
	err := scan(m, 0, loader, opts, func(uint32) bool {
		n++
		return true
	})
	return n, err
}
