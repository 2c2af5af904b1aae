package broker

import (
	"context"

	"go-heartbeat/internal/domain/entity"
)

// ConsumerGateway lists the consumers currently attached to a broker queue.
type ConsumerGateway interface {
	// ListConsumers returns the consumers of queue in vhost. An empty vhost
	// means the gateway's default vhost.
	ListConsumers(ctx context.Context, vhost, queue string) ([]entity.Consumer, error)
}
