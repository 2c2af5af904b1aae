package model

import (
	"time"

	"go-heartbeat/internal/domain/entity"
)

// OverallStatus summarizes every component found in the status store.
type OverallStatus string

const (
	AllOk                    OverallStatus = "ALL_OK"
	MissingServices          OverallStatus = "MISSING_SERVICES"
	MissingQueues            OverallStatus = "MISSING_QUEUES"
	MissingServicesAndQueues OverallStatus = "MISSING_SERVICES_AND_QUEUES"
)

// Description is the human readable form of the overall status.
func (s OverallStatus) Description() string {
	switch s {
	case AllOk:
		return "All services and queues are up and running"
	case MissingServices:
		return "Missing one or more services"
	case MissingQueues:
		return "Missing one or more queues"
	default:
		return "Missing one or more services and queues"
	}
}

// ComponentView is the resolved state of one component across its ok and
// not_ok keys.
type ComponentView struct {
	Name           string        `json:"name"`
	Status         entity.Status `json:"status"`
	LastSeenOk     *time.Time    `json:"last_seen_ok"`
	LastSeenFailed *time.Time    `json:"last_seen_failed"`
}

// Heartbeat is the answer of the status reader.
type Heartbeat struct {
	Status      OverallStatus   `json:"status"`
	Description string          `json:"description"`
	Queues      []ComponentView `json:"queues"`
	Services    []ComponentView `json:"services"`
}
