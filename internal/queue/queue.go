package queue

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/vidarr1412/projectFacebook-MarketPlace/internal/models"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// ContactQueue buffers contact-seller messages so HTTP handlers never
// block on the mail relay.
type ContactQueue struct {
	items    chan *models.ContactMessage
	done     chan struct{}
	maxSize  int
	closed   bool
	mu       sync.RWMutex
	logger   *logrus.Logger
	handlers []func(*models.ContactMessage) error
}

// NewContactQueue creates a new contact queue with the specified buffer size
func NewContactQueue(bufferSize int, logger *logrus.Logger) *ContactQueue {
	return &ContactQueue{
		items:    make(chan *models.ContactMessage, bufferSize),
		done:     make(chan struct{}),
		maxSize:  bufferSize,
		logger:   logger,
		handlers: make([]func(*models.ContactMessage) error, 0),
	}
}

// Push adds a contact message to the queue
func (q *ContactQueue) Push(msg *models.ContactMessage) error {
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return ErrQueueClosed
	}
	q.mu.RUnlock()

	// Non-blocking send to prevent deadlocks
	select {
	case q.items <- msg:
		q.logger.WithField("listing_id", msg.ListingID).Debug("Pushed contact message to queue")
		return nil
	default:
		return ErrQueueFull
	}
}

// Subscribe adds a handler function that will be called for each message
func (q *ContactQueue) Subscribe(handler func(*models.ContactMessage) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Start begins processing items in the queue
func (q *ContactQueue) Start() {
	go q.process()
}

// process handles the queue processing loop
func (q *ContactQueue) process() {
	for {
		select {
		case <-q.done:
			return
		case msg := <-q.items:
			q.processMessage(msg)
		}
	}
}

// processMessage sends the message to all subscribed handlers
func (q *ContactQueue) processMessage(msg *models.ContactMessage) {
	if msg == nil {
		return
	}

	q.mu.RLock()
	handlers := q.handlers
	q.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(msg); err != nil {
			q.logger.WithError(err).Error("Handler failed to process contact message")
		}
	}
}

// Close stops the queue and prevents new items from being added
func (q *ContactQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	// Only done is closed; closing items would make the processing loop
	// receive nil messages, and a concurrent Push could hit a closed
	// channel.
	q.closed = true
	close(q.done)
	return nil
}

// Len returns the current number of messages in the queue
func (q *ContactQueue) Len() int {
	return len(q.items)
}

// IsClosed returns whether the queue has been closed
func (q *ContactQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
