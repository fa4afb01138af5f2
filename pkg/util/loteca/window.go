package loteca

// FormWindowSize is the capacity of every recent-form window
const FormWindowSize = 5

// Window is a fixed-capacity FIFO: pushing onto a full window evicts the oldest entry.
// The zero value is not usable, create one with NewWindow.
type Window[T any] struct {
	buf   []T
	start int
	n     int
}

func NewWindow[T any](capacity int) *Window[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Window[T]{buf: make([]T, capacity)}
}

// Push appends v, evicting the oldest entry when full
func (w *Window[T]) Push(v T) {
	if w.n < len(w.buf) {
		w.buf[(w.start+w.n)%len(w.buf)] = v
		w.n++
		return
	}
	w.buf[w.start] = v
	w.start = (w.start + 1) % len(w.buf)
}

func (w *Window[T]) Len() int { return w.n }

func (w *Window[T]) Cap() int { return len(w.buf) }

// Values returns the entries oldest first
func (w *Window[T]) Values() []T {
	out := make([]T, w.n)
	for i := 0; i < w.n; i++ {
		out[i] = w.buf[(w.start+i)%len(w.buf)]
	}
	return out
}

// SumInts adds up an int window
func SumInts(w *Window[int]) int {
	total := 0
	for _, v := range w.Values() {
		total += v
	}
	return total
}
