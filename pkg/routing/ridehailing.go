package routing

import (
	"context"
	"time"

	"github.com/travigo/planner/pkg/ctdf"
)

// FixedPickupRideHailing answers every pickup request with the same estimate. It stands
// in for a provider API when only a configured average wait is known.
type FixedPickupRideHailing struct {
	ServiceName string
	Estimate    time.Duration
}

func (f FixedPickupRideHailing) Name() string {
	return f.ServiceName
}

func (f FixedPickupRideHailing) ArrivalTime(ctx context.Context, _ *ctdf.Location) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return f.Estimate, nil
}
