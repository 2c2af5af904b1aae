package consumeraudit

import (
	"context"

	"go-heartbeat/internal/domain/entity"
)

type UseCase interface {
	// Audit compares expected listeners with the consumers observed on each
	// queue. consumers is aligned with queues by index; a missing or nil entry
	// means no consumer was observed.
	Audit(queues []entity.QueueTarget, consumers [][]entity.Consumer) entity.ConsumerAudit
	// Collect looks the consumers up on the broker and audits them. Lookup
	// failures degrade to an empty consumer list for that queue.
	Collect(ctx context.Context, queues []entity.QueueTarget) entity.ConsumerAudit
}
