package query

import "github.com/travigo/planner/pkg/routing"

type JourneyPlan struct {
	Request *routing.RouteRequest

	// SkipCache forces a fresh plan, the result still replaces any cached one
	SkipCache bool
}
