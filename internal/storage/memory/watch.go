package memory

import "sync"

// stream delivers snapshots to a single subscriber in commit order.
// Commits append to an ordered queue; a drain goroutine forwards to
// the subscriber channel so a slow consumer never blocks a commit.
type stream[T any] struct {
	mu      sync.Mutex
	pending []T
	kick    chan struct{}
	out     chan T
	done    chan struct{}
	once    sync.Once
}

func newStream[T any]() *stream[T] {
	return &stream[T]{
		kick: make(chan struct{}, 1),
		out:  make(chan T),
		done: make(chan struct{}),
	}
}

// push enqueues a snapshot for delivery
func (s *stream[T]) push(v T) {
	s.mu.Lock()
	s.pending = append(s.pending, v)
	s.mu.Unlock()

	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// run drains the queue into the subscriber channel until stopped
func (s *stream[T]) run() {
	defer close(s.out)
	for {
		select {
		case <-s.done:
			return
		case <-s.kick:
		}

		for {
			s.mu.Lock()
			if len(s.pending) == 0 {
				s.mu.Unlock()
				break
			}
			v := s.pending[0]
			s.pending = s.pending[1:]
			s.mu.Unlock()

			select {
			case s.out <- v:
			case <-s.done:
				return
			}
		}
	}
}

// stop releases the stream; safe to call more than once
func (s *stream[T]) stop() {
	s.once.Do(func() { close(s.done) })
}
