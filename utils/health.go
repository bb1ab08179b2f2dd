package utils

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus reports reachability of the backing services.
type HealthStatus struct {
	Mongo     bool      `json:"mongo"`
	Redis     bool      `json:"redis"`
	CheckedAt time.Time `json:"checkedAt"`
}

func (h HealthStatus) OK() bool {
	return h.Mongo && h.Redis
}

// HealthChecker pings mongo and redis on demand. Either client may be nil when
// the corresponding backend is not configured; it then reports as healthy.
type HealthChecker struct {
	Mongo *mongo.Client
	Redis *redis.Client
}

func (hc *HealthChecker) Check(ctx context.Context) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := HealthStatus{Mongo: true, Redis: true, CheckedAt: time.Now().UTC()}
	if hc.Mongo != nil {
		status.Mongo = hc.Mongo.Ping(ctx, nil) == nil
	}
	if hc.Redis != nil {
		status.Redis = hc.Redis.Ping(ctx).Err() == nil
	}
	return status
}
