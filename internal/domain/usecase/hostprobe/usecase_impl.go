package hostprobe

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"go-heartbeat/internal/domain/entity"
	"go-heartbeat/internal/domain/gateway/network"
	"go-heartbeat/pkg/log"
	"go-heartbeat/pkg/msg"
)

// MaxTimeout bounds a single TCP probe.
const MaxTimeout = 5 * time.Second

type hostProbeUseCase struct {
	dialer  network.Dialer
	timeout time.Duration
	now     func() time.Time
}

// NewHostProbeUseCase builds a prober. A timeout outside (0, MaxTimeout] is
// clamped to MaxTimeout; a nil clock means time.Now.
func NewHostProbeUseCase(dialer network.Dialer, timeout time.Duration, now func() time.Time) UseCase {
	if timeout <= 0 || timeout > MaxTimeout {
		timeout = MaxTimeout
	}
	if now == nil {
		now = time.Now
	}
	return &hostProbeUseCase{
		dialer:  dialer,
		timeout: timeout,
		now:     now,
	}
}

func (uc *hostProbeUseCase) Probe(ctx context.Context, targets []entity.HostTarget) []entity.ComponentStatus {
	results := make([]entity.ComponentStatus, len(targets))

	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target entity.HostTarget) {
			defer wg.Done()
			results[i] = entity.NewComponentStatus(target.DisplayName(), uc.check(ctx, target), uc.now())
		}(i, target)
	}
	wg.Wait()

	return results
}

func (uc *hostProbeUseCase) check(ctx context.Context, target entity.HostTarget) entity.Status {
	log.Info(msg.GetMessage("probe.host-check", target.Host, target.Port, target.DisplayName()),
		zap.String("host", target.Host),
		zap.Int("port", target.Port),
		zap.String("name", target.DisplayName()),
	)

	if target.Port < 1 || target.Port > 65535 {
		uc.logDown(target, fmt.Errorf("invalid port %d", target.Port))
		return entity.StatusNotOk
	}

	dialCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	address := net.JoinHostPort(target.Host, strconv.Itoa(target.Port))
	conn, err := uc.dialer.DialContext(dialCtx, "tcp", address)
	if err != nil {
		uc.logDown(target, err)
		return entity.StatusNotOk
	}
	_ = conn.Close()

	return entity.StatusOk
}

func (uc *hostProbeUseCase) logDown(target entity.HostTarget, err error) {
	log.Warn(msg.GetMessage("probe.host-down", target.Host, target.Port, err),
		zap.String("host", target.Host),
		zap.Int("port", target.Port),
		zap.String("name", target.DisplayName()),
	)
}
