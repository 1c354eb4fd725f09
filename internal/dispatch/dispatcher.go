// Package dispatch drains the contact queue into the mail relay so the
// HTTP layer never waits on email I/O.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vidarr1412/projectFacebook-MarketPlace/config"
	"github.com/vidarr1412/projectFacebook-MarketPlace/internal/models"
	"github.com/vidarr1412/projectFacebook-MarketPlace/internal/queue"
)

// Relay sends a contact message through the hosted mail API.
type Relay interface {
	SendForm(ctx context.Context, msg *models.ContactMessage) error
}

// Dispatcher handles the delivery of queued contact messages
type Dispatcher struct {
	relay  Relay
	logger *logrus.Logger
	config *config.Config
	queue  *queue.ContactQueue
	ctx    context.Context
	cancel context.CancelFunc
}

// NewDispatcher creates a new dispatcher instance
func NewDispatcher(relay Relay, q *queue.ContactQueue, cfg *config.Config, logger *logrus.Logger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		relay:  relay,
		queue:  q,
		config: cfg,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start subscribes the dispatcher to the contact queue
func (d *Dispatcher) Start() {
	d.queue.Subscribe(func(msg *models.ContactMessage) error {
		return d.deliver(msg)
	})
	d.queue.Start()
}

// Stop cancels in-progress retry waits
func (d *Dispatcher) Stop() {
	d.cancel()
}

// StartDrain consumes the queue, logging and discarding every message.
// Used when no mail relay is configured so accepted contact requests do
// not accumulate until the queue jams.
func StartDrain(q *queue.ContactQueue, logger *logrus.Logger) {
	q.Subscribe(func(msg *models.ContactMessage) error {
		logger.WithField("listing_id", msg.ListingID).Warn("Discarding contact message: no mail relay configured")
		return nil
	})
	q.Start()
}

// deliver sends a single contact message with bounded retry
func (d *Dispatcher) deliver(msg *models.ContactMessage) error {
	var err error
	for attempt := 0; attempt <= d.config.Mail.MaxRetries; attempt++ {
		if attempt > 0 {
			d.logger.Infof("Retrying contact delivery, attempt %d of %d", attempt, d.config.Mail.MaxRetries)
			select {
			case <-d.ctx.Done():
				return d.ctx.Err()
			case <-time.After(time.Duration(d.config.Mail.RetryDelay) * time.Second):
			}
		}

		err = d.relay.SendForm(d.ctx, msg)
		if err == nil {
			d.logger.WithField("listing_id", msg.ListingID).Info("Contact message delivered")
			return nil
		}

		d.logger.Errorf("Contact delivery failed: %v", err)
	}

	return fmt.Errorf("failed to deliver contact message after %d attempts: %w", d.config.Mail.MaxRetries, err)
}
