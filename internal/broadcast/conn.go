package broadcast

import (
	"sync"
	"time"

	"github.com/mcoot/judgecore/internal/model"
)

// DefaultSendQueueSize is the per-connection buffer used when none is configured
const DefaultSendQueueSize = 256

// Conn is one open subscriber connection. It owns a bounded send queue that a
// transport drains; the hub never blocks on it.
type Conn struct {
	id          uint64
	requester   model.Requester
	send        chan []byte
	done        chan struct{}
	closeOnce   sync.Once
	connectedAt time.Time
}

func newConn(id uint64, requester model.Requester, queueSize int) *Conn {
	if queueSize <= 0 {
		queueSize = DefaultSendQueueSize
	}
	return &Conn{
		id:          id,
		requester:   requester,
		send:        make(chan []byte, queueSize),
		done:        make(chan struct{}),
		connectedAt: time.Now(),
	}
}

// ID returns the connection's hub-local identifier
func (c *Conn) ID() uint64 {
	return c.id
}

// Requester returns the identity the connection was opened with
func (c *Conn) Requester() model.Requester {
	return c.requester
}

// Messages returns the queue of frames waiting to be written
func (c *Conn) Messages() <-chan []byte {
	return c.send
}

// Done is closed once the hub has closed the connection
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// enqueue offers a frame without blocking; false means the queue was full or the connection closed
func (c *Conn) enqueue(msg []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}
