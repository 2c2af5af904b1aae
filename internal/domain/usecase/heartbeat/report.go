package heartbeat

import (
	"time"

	"go-heartbeat/internal/domain/entity"
)

// Build assembles a report. Nil inputs are encoded as empty arrays.
func Build(hosts []entity.ComponentStatus, audit entity.ConsumerAudit, capturedAt time.Time) entity.HeartbeatReport {
	return entity.HeartbeatReport{
		Status:    entity.ReportKindHeartbeat,
		Service:   entity.ReportRolePublisher,
		Timestamp: entity.FormatTimestamp(capturedAt),
		Hosts:     orEmpty(hosts),
		RMQConsumers: entity.ConsumerAudit{
			QueuesStatus:   orEmpty(audit.QueuesStatus),
			ServicesStatus: orEmpty(audit.ServicesStatus),
		},
	}
}

func orEmpty(statuses []entity.ComponentStatus) []entity.ComponentStatus {
	if statuses == nil {
		return []entity.ComponentStatus{}
	}
	return statuses
}
