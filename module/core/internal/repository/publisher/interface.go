package publisher

import (
	"context"

	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/domain"
)

// AlertPublisher delivers core events to the external alerting layer.
type AlertPublisher interface {
	PublishGeofenceEvent(ctx context.Context, ev *domain.GeofenceEvent) error
	PublishStatusChange(ctx context.Context, ch *domain.StatusChange) error
	PublishBeaconEvent(ctx context.Context, ev *domain.BeaconEvent) error
}
