package progrock

import (
	"io"
	"sync"

	"github.com/vito/progrock"
)

var _ progrock.Writer = (*Queue)(nil)

// Queue is an in-process progrock writer whose updates can be read
// back one at a time, feeding a UI from the recorder's status stream.
type Queue struct {
	updates chan *progrock.StatusUpdate

	mu     sync.Mutex
	closed bool
}

// NewQueue creates a Queue with a small buffer so recording never
// blocks on a slow renderer for long.
func NewQueue() *Queue {
	return &Queue{
		updates: make(chan *progrock.StatusUpdate, 64),
	}
}

// WriteStatus queues one status update. When the renderer falls
// behind, the oldest queued update is dropped; later updates always
// carry the newest vertex states.
func (q *Queue) WriteStatus(status *progrock.StatusUpdate) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return io.ErrClosedPipe
	}

	select {
	case q.updates <- status:
	default:
		select {
		case <-q.updates:
		default:
		}
		q.updates <- status
	}
	return nil
}

// Read blocks until the next update is available. It returns io.EOF
// after Close once the queue drains.
func (q *Queue) Read() (*progrock.StatusUpdate, error) {
	update, ok := <-q.updates
	if !ok {
		return nil, io.EOF
	}
	return update, nil
}

// Close ends the stream; pending updates stay readable.
func (q *Queue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	close(q.updates)
	return nil
}
