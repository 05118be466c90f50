package compiler

// stack is the LIFO used for the parse stack and every bookkeeping stack.
// pop and peek report emptiness instead of panicking so callers can turn it
// into a diagnostic.
type stack[T any] struct {
	items []T
}

func (s *stack[T]) push(v T) { s.items = append(s.items, v) }

func (s *stack[T]) pop() (T, bool) {
	var zero T
	if len(s.items) == 0 {
		return zero, false
	}
	v := s.items[len(s.items)-1]
	s.items[len(s.items)-1] = zero
	s.items = s.items[:len(s.items)-1]
	return v, true
}

func (s *stack[T]) peek() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}
	return s.items[len(s.items)-1], true
}

func (s *stack[T]) len() int { return len(s.items) }

func (s *stack[T]) empty() bool { return len(s.items) == 0 }
