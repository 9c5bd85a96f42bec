package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/domain"
	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/internal/repository/cache"
)

var _ cache.StatusCache = (*StatusCache)(nil)

const statusTTL = 24 * time.Hour

type StatusCache struct {
	client *goredis.Client
}

func NewStatusCache(client *goredis.Client) *StatusCache {
	return &StatusCache{client: client}
}

func statusKey(patientID string) string {
	return "guardian:status:" + patientID
}

func (c *StatusCache) SetStatus(ctx context.Context, patientID string, st *domain.PatientStatus) error {
	body, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal status: %w", err)
	}
	return c.client.Set(ctx, statusKey(patientID), body, statusTTL).Err()
}

func (c *StatusCache) GetStatus(ctx context.Context, patientID string) (*domain.PatientStatus, error) {
	body, err := c.client.Get(ctx, statusKey(patientID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, cache.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var st domain.PatientStatus
	if err := json.Unmarshal(body, &st); err != nil {
		return nil, fmt.Errorf("unmarshal status: %w", err)
	}
	return &st, nil
}
