package entity

import "fmt"

// PublishError is raised when a report could not be handed to the bus. It
// aborts the current cycle only.
type PublishError struct {
	RoutingKey string
	Err        error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("failed to publish heartbeat with routing key %q: %v", e.RoutingKey, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// ProjectionError is raised when a received report could not be parsed or
// written to the store. Keys written before the failure stay written.
type ProjectionError struct {
	Key string
	Err error
}

func (e *ProjectionError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("failed to project heartbeat: %v", e.Err)
	}
	return fmt.Sprintf("failed to project heartbeat key %q: %v", e.Key, e.Err)
}

func (e *ProjectionError) Unwrap() error {
	return e.Err
}
