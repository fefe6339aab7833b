package providers

import (
	"context"

	"github.com/zatekoja/goldenhour/internal/domain/entities"
)

// Notifier delivers an out-of-band alert for a dispatched emergency
type Notifier interface {
	Notify(ctx context.Context, alert *entities.EmergencyAlert) error
}
