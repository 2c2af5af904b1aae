package status

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"go-heartbeat/internal/domain/entity"
	"go-heartbeat/internal/domain/gateway/store"
	"go-heartbeat/internal/domain/model"
	"go-heartbeat/pkg/log"
	"go-heartbeat/pkg/msg"
)

type statusUseCase struct {
	store store.StatusStore
	// okAfterFailed is how long ok must be newer than the last failure to win.
	okAfterFailed time.Duration
	// notOkAfterOk is how long a failure must be newer than the last ok to win.
	notOkAfterOk time.Duration
}

func NewStatusUseCase(store store.StatusStore, okAfterFailed, notOkAfterOk time.Duration) UseCase {
	return &statusUseCase{
		store:         store,
		okAfterFailed: okAfterFailed,
		notOkAfterOk:  notOkAfterOk,
	}
}

func (uc *statusUseCase) GetHeartbeat(ctx context.Context) (model.Heartbeat, error) {
	services, err := uc.components(ctx, entity.KeyKindService)
	if err != nil {
		return model.Heartbeat{}, err
	}
	queues, err := uc.components(ctx, entity.KeyKindQueue)
	if err != nil {
		return model.Heartbeat{}, err
	}

	servicesOk := allOk(services)
	queuesOk := allOk(queues)

	overall := model.MissingServicesAndQueues
	switch {
	case servicesOk && queuesOk:
		overall = model.AllOk
	case queuesOk:
		overall = model.MissingServices
	case servicesOk:
		overall = model.MissingQueues
	}

	return model.Heartbeat{
		Status:      overall,
		Description: overall.Description(),
		Queues:      queues,
		Services:    services,
	}, nil
}

// components reads every key of kind and folds the ok and not_ok keys of each
// name into one view. Keys are evaluated in sorted order.
func (uc *statusUseCase) components(ctx context.Context, kind entity.KeyKind) ([]model.ComponentView, error) {
	keys, err := uc.store.Keys(ctx, entity.KeyPattern(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s keys: %w", kind, err)
	}
	sort.Strings(keys)

	views := make(map[string]*model.ComponentView)
	var order []string

	for _, key := range keys {
		keyKind, name, status, err := entity.ParseStatusKey(key)
		if err != nil || keyKind != kind {
			log.Info(msg.GetMessage("status.unknown-status", key), zap.String("key", key))
			continue
		}

		value, found, err := uc.store.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to read key %s: %w", key, err)
		}

		var seen *time.Time
		if found {
			if t, err := entity.ParseTimestamp(value); err == nil {
				seen = &t
			}
		}

		view, ok := views[name]
		if !ok {
			view = &model.ComponentView{Name: name}
			views[name] = view
			order = append(order, name)
		}
		if status == entity.StatusOk {
			view.LastSeenOk = seen
		} else {
			view.LastSeenFailed = seen
		}
		view.Status = uc.resolve(status, view)
	}

	result := make([]model.ComponentView, 0, len(order))
	for _, name := range order {
		result = append(result, *views[name])
	}
	return result, nil
}

// resolve picks the authoritative status once a key of status current has
// been folded into view.
func (uc *statusUseCase) resolve(current entity.Status, view *model.ComponentView) entity.Status {
	ok, failed := view.LastSeenOk, view.LastSeenFailed

	switch {
	case ok != nil && failed != nil:
		if ok.After(*failed) && ok.Sub(*failed) >= uc.okAfterFailed {
			return entity.StatusOk
		}
		if failed.After(*ok) && failed.Sub(*ok) >= uc.notOkAfterOk {
			return entity.StatusNotOk
		}
		return current
	case ok != nil:
		return entity.StatusOk
	case failed != nil:
		return entity.StatusNotOk
	default:
		return current
	}
}

func allOk(views []model.ComponentView) bool {
	for _, view := range views {
		if view.Status == entity.StatusNotOk {
			return false
		}
	}
	return true
}
