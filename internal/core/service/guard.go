package service

import (
	"context"

	"github.com/nebsit/hr-gateway/internal/core/domain"
	"github.com/nebsit/hr-gateway/internal/core/ports"
)

type nopRecorder struct{}

func (nopRecorder) Record(domain.Activity) {}

// acquire takes the in-flight key when a guard is configured.
func acquire(ctx context.Context, guard ports.InFlightGuard, key string) (func(), error) {
	if guard == nil {
		return func() {}, nil
	}
	return guard.Acquire(ctx, key)
}
