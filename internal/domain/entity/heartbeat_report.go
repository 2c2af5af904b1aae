package entity

const (
	ReportKindHeartbeat = "heartbeat"
	ReportRolePublisher = "publisher"
)

// ConsumerAudit is the outcome of comparing expected and actual consumers.
type ConsumerAudit struct {
	QueuesStatus   []ComponentStatus `json:"queues_status"`
	ServicesStatus []ComponentStatus `json:"services_status"`
}

// HeartbeatReport is the message published once per cycle. Field order is the
// wire order.
type HeartbeatReport struct {
	Status       string            `json:"status"`
	Service      string            `json:"service"`
	Timestamp    string            `json:"timestamp"`
	Hosts        []ComponentStatus `json:"hosts"`
	RMQConsumers ConsumerAudit     `json:"rmq_consumers"`
}
