package queue

import (
	"context"
	"errors"
)

// ErrUnprocessable wraps handler errors that no redelivery can fix, such as
// a body that does not decode. Listeners that redeliver on failure drop
// these messages instead.
var ErrUnprocessable = errors.New("unprocessable message")

// MessageHandler processes one message body. A returned error marks the
// message as failed; the listener keeps consuming.
type MessageHandler func(ctx context.Context, body []byte) error

// Listener consumes messages one at a time until its context is canceled.
type Listener interface {
	Listen(ctx context.Context, handler MessageHandler) error
	IsRunning() bool
	Stats() (processed int64, failed int64)
}
