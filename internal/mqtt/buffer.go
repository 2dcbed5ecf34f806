package mqtt

// bufferedMsg is a serialized publish held for replay after reconnection.
type bufferedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// ring is a fixed-capacity FIFO that overwrites its oldest entry when full.
// Not safe for concurrent use; RealPublisher guards it with its mutex.
type ring[T any] struct {
	items   []T
	start   int // index of the oldest entry
	n       int
	dropped int // entries overwritten since the last drain
}

func newRing[T any](capacity int) *ring[T] {
	return &ring[T]{items: make([]T, capacity)}
}

// push appends v. It reports true when v displaced the first entry lost
// since the last drain, so callers can warn once per outage.
func (r *ring[T]) push(v T) bool {
	if r.n < len(r.items) {
		r.items[(r.start+r.n)%len(r.items)] = v
		r.n++
		return false
	}
	r.items[r.start] = v
	r.start = (r.start + 1) % len(r.items)
	r.dropped++
	return r.dropped == 1
}

// drain returns the held entries oldest first, the number lost to overflow,
// and empties the ring.
func (r *ring[T]) drain() ([]T, int) {
	dropped := r.dropped
	if r.n == 0 {
		r.dropped = 0
		return nil, dropped
	}
	out := make([]T, 0, r.n)
	for i := 0; i < r.n; i++ {
		out = append(out, r.items[(r.start+i)%len(r.items)])
	}
	var zero T
	for i := range r.items {
		r.items[i] = zero
	}
	r.start, r.n, r.dropped = 0, 0, 0
	return out, dropped
}

func (r *ring[T]) len() int {
	return r.n
}
