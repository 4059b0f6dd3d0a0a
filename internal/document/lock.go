package document

import "sync/atomic"

// registerOnce guards the one-shot transition from Document to RegisteredDocument
// with a compare-and-swap. A losing caller returns immediately.
type registerOnce struct {
	state atomic.Int32 // 0 = loaded, 1 = registered
}

// TryClaim reports whether the caller won the transition
func (o *registerOnce) TryClaim() bool {
	return o.state.CompareAndSwap(0, 1)
}

// Claimed reports whether the document was already registered
func (o *registerOnce) Claimed() bool {
	return o.state.Load() == 1
}
