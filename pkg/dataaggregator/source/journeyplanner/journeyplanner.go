package journeyplanner

import (
	"context"
	"reflect"

	"github.com/travigo/planner/pkg/ctdf"
	"github.com/travigo/planner/pkg/dataaggregator/query"
	"github.com/travigo/planner/pkg/dataaggregator/source"
	"github.com/travigo/planner/pkg/dataaggregator/source/cachedresults"
	"github.com/travigo/planner/pkg/routing"
)

// Planner is implemented by routing.Service
type Planner interface {
	Plan(ctx context.Context, request *routing.RouteRequest) (*ctdf.JourneyPlanResults, error)
}

type Source struct {
	Planner       Planner
	CachedResults *cachedresults.Cache
}

func (s Source) GetName() string {
	return "Journey Planner"
}

func (s Source) Supports() []reflect.Type {
	return []reflect.Type{
		reflect.TypeOf(ctdf.JourneyPlanResults{}),
	}
}

func (s Source) Lookup(ctx context.Context, q any) (interface{}, error) {
	switch q := q.(type) {
	case query.JourneyPlan:
		return s.JourneyPlanQuery(ctx, q)
	default:
		return nil, source.UnsupportedSourceError
	}
}

func (s Source) JourneyPlanQuery(ctx context.Context, q query.JourneyPlan) (*ctdf.JourneyPlanResults, error) {
	cacheItemPath := cacheKey(q.Request)

	if !q.SkipCache {
		if cached, found := cachedresults.Get[*ctdf.JourneyPlanResults](ctx, s.CachedResults, cacheItemPath); found {
			return cached, nil
		}
	}

	results, err := s.Planner.Plan(ctx, q.Request)
	if err != nil {
		return nil, err
	}

	if err := cachedresults.Set(ctx, s.CachedResults, cacheItemPath, results); err != nil {
		return nil, err
	}

	return results, nil
}
