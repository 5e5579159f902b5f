// Package payment models the hosted payment widget as a one-shot asynchronous operation:
// open a checkout for an order, then await exactly one completion callback.
package payment

import (
	"context"
	"errors"
	"sync"

	"github.com/Domenick1991/staybook/internal/domain"
)

var (
	// ErrAbandoned is returned by Await when the widget was dismissed or the wait was cancelled.
	ErrAbandoned = errors.New("payment abandoned")
	// ErrUnknownOrder is returned when a callback names an order with no open checkout.
	ErrUnknownOrder = errors.New("unknown payment order")
	// ErrOrderMismatch is returned when a callback's order id differs from the checkout's.
	ErrOrderMismatch = errors.New("payment callback order mismatch")
	// ErrCheckoutOpen is returned when an order already has an open checkout.
	ErrCheckoutOpen = errors.New("checkout already open for order")
)

// Options is what the browser hands to the payment widget.
type Options struct {
	Key      string `json:"key"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	OrderID  string `json:"order_id"`
}

// Gateway keeps the open checkouts keyed by order id.
type Gateway struct {
	key      string
	currency string

	mu        sync.Mutex
	checkouts map[string]*Checkout
}

func NewGateway(key, currency string) *Gateway {
	return &Gateway{
		key:       key,
		currency:  currency,
		checkouts: make(map[string]*Checkout),
	}
}

// Checkout is a single open widget session.
type Checkout struct {
	opts     Options
	gateway  *Gateway
	callback chan domain.PaymentReceipt
	closed   chan struct{}
	once     sync.Once
}

// Open registers a checkout for order. Only one checkout may be open per order.
func (g *Gateway) Open(order domain.PaymentOrder) (*Checkout, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.checkouts[order.OrderID]; ok {
		return nil, ErrCheckoutOpen
	}
	c := &Checkout{
		opts: Options{
			Key:      g.key,
			Amount:   order.Amount,
			Currency: g.currency,
			OrderID:  order.OrderID,
		},
		gateway:  g,
		callback: make(chan domain.PaymentReceipt, 1),
		closed:   make(chan struct{}),
	}
	g.checkouts[order.OrderID] = c
	return c, nil
}

// Deliver hands the widget's completion payload to the checkout of its order.
// The checkout is consumed, so a second delivery for the same order fails.
func (g *Gateway) Deliver(orderID string, receipt domain.PaymentReceipt) error {
	if receipt.OrderID != "" && receipt.OrderID != orderID {
		return ErrOrderMismatch
	}
	c := g.take(orderID)
	if c == nil {
		return ErrUnknownOrder
	}
	if receipt.OrderID == "" {
		receipt.OrderID = orderID
	}
	c.callback <- receipt
	return nil
}

// Dismiss closes the checkout of orderID without a callback.
func (g *Gateway) Dismiss(orderID string) error {
	c := g.take(orderID)
	if c == nil {
		return ErrUnknownOrder
	}
	c.close()
	return nil
}

// Pending reports how many checkouts are still open.
func (g *Gateway) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.checkouts)
}

func (g *Gateway) take(orderID string) *Checkout {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.checkouts[orderID]
	if !ok {
		return nil
	}
	delete(g.checkouts, orderID)
	return c
}

func (c *Checkout) Options() Options {
	return c.opts
}

// Await blocks until the completion callback arrives, the checkout is dismissed,
// or ctx is done. Cancellation removes the checkout from the gateway.
func (c *Checkout) Await(ctx context.Context) (domain.PaymentReceipt, error) {
	select {
	case r := <-c.callback:
		return r, nil
	case <-c.closed:
		return domain.PaymentReceipt{}, ErrAbandoned
	case <-ctx.Done():
		if c.gateway.take(c.opts.OrderID) != nil {
			return domain.PaymentReceipt{}, ErrAbandoned
		}
		// Deliver or Dismiss already took the checkout and is about to
		// send the receipt or close it.
		select {
		case r := <-c.callback:
			return r, nil
		case <-c.closed:
			return domain.PaymentReceipt{}, ErrAbandoned
		}
	}
}

func (c *Checkout) close() {
	c.once.Do(func() { close(c.closed) })
}
