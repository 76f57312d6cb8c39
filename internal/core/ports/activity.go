package ports

import (
	"context"

	"github.com/nebsit/hr-gateway/internal/core/domain"
)

// ActivityRecorder accepts audit entries without blocking the caller.
type ActivityRecorder interface {
	Record(a domain.Activity)
}

// ActivityRepository persists audit entries.
type ActivityRepository interface {
	Insert(ctx context.Context, a *domain.Activity) error
}
