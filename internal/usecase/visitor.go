package usecase

import (
	"context"
	"sync/atomic"

	"go-portfolio-backend/internal/domain"
	"go-portfolio-backend/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const visitorCounterKey = "portfolio:visitors"

type visitorUsecase struct {
	client *redis.Client // nil when Redis is unconfigured
	local  atomic.Int64  // process-local fallback
}

// NewVisitorUsecase creates the visitor counter. With Redis the count
// survives restarts and is shared across instances; without it the counter
// is process-local, which is still good enough for a portfolio page badge.
func NewVisitorUsecase(client *redis.Client) domain.VisitorUsecase {
	return &visitorUsecase{client: client}
}

func (uc *visitorUsecase) RecordVisit(ctx context.Context) (int64, error) {
	if uc.client != nil {
		count, err := uc.client.Incr(ctx, visitorCounterKey).Result()
		if err == nil {
			return count, nil
		}
		// Redis down mid-flight: degrade rather than break the page
		logger.Log.Warn("visitor counter falling back to local", "error", err)
	}
	return uc.local.Add(1), nil
}

func (uc *visitorUsecase) VisitCount(ctx context.Context) (int64, error) {
	if uc.client != nil {
		count, err := uc.client.Get(ctx, visitorCounterKey).Int64()
		if err == nil {
			return count, nil
		}
		if err == redis.Nil {
			return 0, nil
		}
		logger.Log.Warn("visitor counter falling back to local", "error", err)
	}
	return uc.local.Load(), nil
}
