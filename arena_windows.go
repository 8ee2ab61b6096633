//go:build windows

package mu

// newArena on Windows falls back to a plain heap-backed slice; the
// core's contract only requires that image bytes remain stable across
// a GC pass, which a Go slice already guarantees.
func newArena(size int) ([]byte, func() error, error) {
	return make([]byte, size), func() error { return nil }, nil
}
