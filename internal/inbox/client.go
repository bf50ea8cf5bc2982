// Package inbox implements the polling client that keeps a recipient's
// notification list warm. Two independent timers drive it: a short one
// re-fetches the list, a longer one re-runs the deadline check that may
// append new rows. Mutations are optimistic; the next poll overwrites
// whatever local state diverged from the ledger.
package inbox

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prazodigital/prazos-backend/internal/notifications"
	"github.com/prazodigital/prazos-backend/pkg/db/models"
	"github.com/prazodigital/prazos-backend/pkg/logger"
)

// State is the client's lifecycle phase.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

const (
	defaultRefreshInterval  = 30 * time.Second
	defaultDeadlineInterval = 5 * time.Minute
)

// Snapshot is a point-in-time copy of the client's visible state.
type Snapshot struct {
	State        State
	Items        []models.Notification
	UnreadCount  int64
	LastError    error
	LastSyncedAt time.Time
}

// Client polls the ledger on behalf of one recipient.
type Client struct {
	ledger  notifications.Service
	checker *notifications.DeadlineChecker
	logg    *logger.Logger

	refreshInterval  time.Duration
	deadlineInterval time.Duration

	mu          sync.Mutex
	recipientID uuid.UUID
	tenantID    uuid.UUID
	state       State
	items       []models.Notification
	unread      int64
	lastErr     error
	syncedAt    time.Time

	stop    chan struct{}
	wg      sync.WaitGroup
	started bool
	stopped bool
}

// ClientParams configures the inbox client. The checker and intervals are
// optional; zero intervals fall back to the defaults.
type ClientParams struct {
	Ledger           notifications.Service
	Checker          *notifications.DeadlineChecker
	Logger           *logger.Logger
	RecipientID      uuid.UUID
	TenantID         uuid.UUID
	RefreshInterval  time.Duration
	DeadlineInterval time.Duration
}

// NewClient builds an idle inbox client. Nothing runs until Start.
func NewClient(params ClientParams) (*Client, error) {
	if params.Ledger == nil || params.Logger == nil {
		return nil, fmt.Errorf("ledger and logger are required")
	}
	if params.RecipientID == uuid.Nil {
		return nil, fmt.Errorf("recipient is required")
	}
	refresh := params.RefreshInterval
	if refresh <= 0 {
		refresh = defaultRefreshInterval
	}
	check := params.DeadlineInterval
	if check <= 0 {
		check = defaultDeadlineInterval
	}
	return &Client{
		ledger:           params.Ledger,
		checker:          params.Checker,
		logg:             params.Logger,
		refreshInterval:  refresh,
		deadlineInterval: check,
		recipientID:      params.RecipientID,
		tenantID:         params.TenantID,
		state:            StateIdle,
		stop:             make(chan struct{}),
	}, nil
}

// Start performs the initial fetch and launches both polling timers. The
// client is single-use: Start after Stop, or a second Start, is a no-op.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started || c.stopped {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	c.Refresh(ctx)

	c.wg.Add(2)
	go c.refreshLoop(ctx)
	go c.deadlineLoop(ctx)
}

// Stop clears both timers and waits for the loops to exit. An in-flight
// ledger call finishes on its own; it is not aborted.
func (c *Client) Stop() {
	c.mu.Lock()
	if !c.started || c.stopped {
		c.mu.Unlock()
		return
	}
	c.started = false
	c.stopped = true
	c.mu.Unlock()

	close(c.stop)
	c.wg.Wait()
}

// SetRecipient switches the client to another recipient and reloads.
func (c *Client) SetRecipient(ctx context.Context, recipientID, tenantID uuid.UUID) {
	c.mu.Lock()
	c.recipientID = recipientID
	c.tenantID = tenantID
	c.items = nil
	c.unread = 0
	c.state = StateIdle
	c.mu.Unlock()

	c.Refresh(ctx)
}

// Snapshot returns a copy of the visible state.
func (c *Client) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]models.Notification, len(c.items))
	copy(items, c.items)
	return Snapshot{
		State:        c.state,
		Items:        items,
		UnreadCount:  c.unread,
		LastError:    c.lastErr,
		LastSyncedAt: c.syncedAt,
	}
}

// Refresh fetches the current list. On failure the client enters the error
// state but keeps the last successful list visible.
func (c *Client) Refresh(ctx context.Context) {
	c.mu.Lock()
	recipient := c.recipientID
	c.state = StateLoading
	c.mu.Unlock()

	result, err := c.ledger.List(ctx, recipient, notifications.ListParams{})

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.recipientID != recipient {
		// Recipient changed while the fetch was in flight; drop the result.
		return
	}
	if err != nil {
		c.state = StateError
		c.lastErr = err
		c.logg.Error(ctx, "inbox refresh failed", err)
		return
	}
	c.state = StateReady
	c.lastErr = nil
	c.items = result.Items
	c.unread = result.UnreadCount
	c.syncedAt = time.Now()
}

// MarkAsRead flips the row locally and tells the ledger. A ledger error is
// logged, not rolled back; the next refresh reconciles.
func (c *Client) MarkAsRead(ctx context.Context, id uuid.UUID) {
	now := time.Now()
	c.mu.Lock()
	recipient := c.recipientID
	for i := range c.items {
		if c.items[i].ID == id && c.items[i].ReadAt == nil {
			c.items[i].ReadAt = &now
			if c.unread > 0 {
				c.unread--
			}
			break
		}
	}
	c.mu.Unlock()

	if err := c.ledger.MarkRead(ctx, recipient, id); err != nil {
		c.logg.Error(ctx, "mark notification read failed", err)
	}
}

// MarkAllAsRead flips every row locally and tells the ledger.
func (c *Client) MarkAllAsRead(ctx context.Context) {
	now := time.Now()
	c.mu.Lock()
	recipient := c.recipientID
	for i := range c.items {
		if c.items[i].ReadAt == nil {
			c.items[i].ReadAt = &now
		}
	}
	c.unread = 0
	c.mu.Unlock()

	if err := c.ledger.MarkAllRead(ctx, recipient); err != nil {
		c.logg.Error(ctx, "mark all notifications read failed", err)
	}
}

// Delete removes the row locally and tells the ledger.
func (c *Client) Delete(ctx context.Context, id uuid.UUID) {
	c.mu.Lock()
	recipient := c.recipientID
	for i := range c.items {
		if c.items[i].ID == id {
			if c.items[i].ReadAt == nil && c.unread > 0 {
				c.unread--
			}
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	if err := c.ledger.Delete(ctx, recipient, id); err != nil {
		c.logg.Error(ctx, "delete notification failed", err)
	}
}

func (c *Client) refreshLoop(ctx context.Context) {
	defer c.wg.Done()
	ticker := time.NewTicker(c.refreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.Refresh(ctx)
		}
	}
}

func (c *Client) deadlineLoop(ctx context.Context) {
	defer c.wg.Done()
	ticker := time.NewTicker(c.deadlineInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.runDeadlineCheck(ctx)
		}
	}
}

func (c *Client) runDeadlineCheck(ctx context.Context) {
	if c.checker == nil {
		return
	}
	c.mu.Lock()
	recipient := c.recipientID
	tenant := c.tenantID
	c.mu.Unlock()

	created, err := c.checker.Run(ctx, recipient, tenant)
	if err != nil {
		// Recoverable; the next tick tries again.
		c.logg.Error(ctx, "inbox deadline check failed", err)
		return
	}
	if created > 0 {
		c.Refresh(ctx)
	}
}
