package global

import (
	"github.com/travigo/planner/pkg/dataaggregator"
	"github.com/travigo/planner/pkg/dataaggregator/source/cachedresults"
	"github.com/travigo/planner/pkg/dataaggregator/source/journeyplanner"
	"github.com/travigo/planner/pkg/dataaggregator/source/transitstops"
	"github.com/travigo/planner/pkg/routing"
	"github.com/travigo/planner/pkg/transit"
)

func Setup(planner *routing.Service, transitService *transit.Service, cachedResults *cachedresults.Cache) {
	dataaggregator.GlobalAggregator = dataaggregator.Aggregator{}

	dataaggregator.GlobalAggregator.RegisterSource(transitstops.Source{
		TransitService: transitService,
	})

	dataaggregator.GlobalAggregator.RegisterSource(journeyplanner.Source{
		Planner:       planner,
		CachedResults: cachedResults,
	})
}
