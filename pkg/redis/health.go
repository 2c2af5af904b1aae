package redis

import (
	"context"
	"strconv"
	"time"
)

// RedisHealthCheck represents the health check response for Redis
type RedisHealthCheck struct {
	Status  HealthStatus      `json:"status"`
	Details map[string]string `json:"details"`
}

// HealthCheck pings Redis within timeout and reports pool statistics.
func (c *Client) HealthCheck(timeout time.Duration) RedisHealthCheck {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	details := map[string]string{
		"host":     c.config.Host,
		"port":     strconv.Itoa(c.config.Port),
		"database": strconv.Itoa(c.config.Database),
	}

	if err := c.Ping(ctx); err != nil {
		details["message"] = err.Error()
		return RedisHealthCheck{Status: StatusDown, Details: details}
	}

	stats := c.rdb.PoolStats()
	details["total_conns"] = strconv.FormatUint(uint64(stats.TotalConns), 10)
	details["idle_conns"] = strconv.FormatUint(uint64(stats.IdleConns), 10)
	details["message"] = string(StatusUp)

	return RedisHealthCheck{Status: StatusUp, Details: details}
}
