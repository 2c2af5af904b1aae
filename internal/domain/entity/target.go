package entity

// HostTarget is a host:port pair to probe. Name is the display name reported
// in the heartbeat; it defaults to Host.
type HostTarget struct {
	Host string
	Port int
	Name string
}

// DisplayName returns the explicit name, or the literal host string.
func (t HostTarget) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Host
}

// Listener is an expected consumer: Tag is a pattern searched for in actual
// consumer tags, Name is the logical service reported.
type Listener struct {
	Tag  string
	Name string
}

// QueueTarget lists the listeners expected on a queue. An empty VHost means
// the broker's configured vhost.
type QueueTarget struct {
	Queue     string
	VHost     string
	Listeners []Listener
}

// Targets is the publisher's probe configuration.
type Targets struct {
	Hosts  []HostTarget
	Queues []QueueTarget
}

// Consumer is a consumer observed on a broker queue.
type Consumer struct {
	ConsumerTag    string `json:"consumer_tag"`
	ActivityStatus string `json:"activity_status"`
}

// ActivityUp is the activity status of a consumer able to receive deliveries.
const ActivityUp = "up"

// IsActive reports whether the consumer is up.
func (c Consumer) IsActive() bool {
	return c.ActivityStatus == ActivityUp
}
