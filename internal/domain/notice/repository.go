// internal/domain/notice/repository.go
package notice

import "context"

// CursorRepository persists the highest notice number ever delivered.
// There is exactly one cursor; ok is false until the first successful run stores one.
type CursorRepository interface {
	GetLastDelivered(ctx context.Context) (id int64, ok bool, err error)
	SetLastDelivered(ctx context.Context, id int64) error
}

// Notifier delivers one message downstream. Calls are synchronous: when Notify returns nil the
// message has been accepted by the transport.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}
