package planner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/planner/pkg/config"
	"github.com/travigo/planner/pkg/database"
	"github.com/travigo/planner/pkg/raptor"
	"github.com/travigo/planner/pkg/routing"
	"github.com/travigo/planner/pkg/routing/transferoptimization"
	"github.com/travigo/planner/pkg/street"
	"github.com/travigo/planner/pkg/transit"
	"github.com/travigo/planner/pkg/util"
)

// Planner is the assembled routing stack for one process
type Planner struct {
	Config config.RouterConfig

	TransitService *transit.Service
	Graph          *street.Graph
	Router         *routing.TransitRouter
	Service        *routing.Service
}

var ErrStopsChanged = errors.New("reloaded stops differ from the street graph, restart required")

// LoadTransitService builds the timetable from Mongo when connected, otherwise a
// stops only layer from the configured stops CSV
func LoadTransitService(ctx context.Context, cfg config.RouterConfig) (*transit.Service, error) {
	timeZone := cfg.Location()

	if database.MongoGlobalInstance != nil {
		layer, transfers, err := loadFromMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}

		return transit.NewService(layer, transfers, timeZone), nil
	}

	if cfg.Transit.StopsCSV == "" {
		return nil, fmt.Errorf("no timetable source: mongo is not connected and no stops csv is configured")
	}

	file, err := os.Open(cfg.Transit.StopsCSV)
	if err != nil {
		return nil, fmt.Errorf("opening stops csv: %w", err)
	}
	defer file.Close()

	stops, err := transit.LoadStopsCSV(file)
	if err != nil {
		return nil, err
	}

	log.Warn().Int("stops", len(stops)).Msg("Running without trip patterns, only stops were loaded")

	return transit.NewService(transit.NewLayer(stops, nil), nil, timeZone), nil
}

func loadFromMongo(ctx context.Context, cfg config.RouterConfig) (*transit.Layer, *transit.TransferService, error) {
	timeZone := cfg.Location()

	today := util.ServiceDate(time.Now(), timeZone)
	from := util.ShiftServiceDays(today, -cfg.Transit.LoadDaysBefore)
	to := util.ShiftServiceDays(today, cfg.Transit.LoadDaysAfter)

	layer, err := transit.LoadLayerFromMongo(ctx, timeZone, from, to)
	if err != nil {
		return nil, nil, err
	}

	transfers, err := transit.LoadGuaranteedTransfers(ctx)
	if err != nil {
		return nil, nil, err
	}

	return layer, transit.NewTransferService(transfers), nil
}

func New(cfg config.RouterConfig, transitService *transit.Service, events routing.EventSink) *Planner {
	graph := street.NewGraph(transitService.TransitLayer().Stops())

	var rideHailing []routing.RideHailingService
	if cfg.RideHailing.Enabled {
		rideHailing = append(rideHailing, routing.FixedPickupRideHailing{
			ServiceName: "fixed-pickup",
			Estimate:    cfg.RideHailing.PickupEstimate.Value(),
		})
	}

	accessEgress := routing.NewAccessEgressRouter(routing.AccessEgressRouterOptions{
		StreetSearcher:      street.NewNearbyStopFinder(cfg.Street.NearbyStopCacheSize, cfg.Street.NearbyStopCacheExpiration.Value()),
		RideHailingServices: rideHailing,
		FlexRoutingEnabled:  cfg.Features.FlexRouting,
	})

	var optimizer routing.TransferOptimizer
	if cfg.Features.OptimizeTransfers {
		optimizer = transferoptimization.NewOptimizer(transitService.TransferService())
	}

	router := routing.NewTransitRouter(routing.TransitRouterOptions{
		TransitService:             transitService,
		Graph:                      graph,
		LinkRadius:                 cfg.Street.LinkRadius,
		AccessEgress:               accessEgress,
		Engine:                     raptor.DirectSearch{DefaultWindow: int(cfg.Search.DirectSearchWindow.Value() / time.Second)},
		TransferOptimizer:          optimizer,
		Strategy:                   routing.NewConcurrencyStrategy(cfg.Features.ParallelRouting),
		AdditionalPastSearchDays:   cfg.Transit.AdditionalPastSearchDays,
		AdditionalFutureSearchDays: cfg.Transit.AdditionalFutureSearchDays,
	})

	log.Info().
		Int("stops", transitService.TransitLayer().StopCount()).
		Bool("parallel", cfg.Features.ParallelRouting).
		Bool("optimizetransfers", cfg.Features.OptimizeTransfers).
		Bool("ridehailing", cfg.RideHailing.Enabled).
		Msg("Planner ready")

	return &Planner{
		Config:         cfg,
		TransitService: transitService,
		Graph:          graph,
		Router:         router,
		Service:        routing.NewService(router, events),
	}
}

// RealtimeOptions maps the config onto trip update matching
func (p *Planner) RealtimeOptions() transit.RealtimeOptions {
	return transit.RealtimeOptions{
		TimeZone:      p.TransitService.TimeZone(),
		StopRefPrefix: p.Config.Transit.RealtimeStopRefPrefix,
	}
}

// Reload reads the timetable from Mongo again and publishes it. Realtime changes made
// against the old timetable are dropped.
func (p *Planner) Reload(ctx context.Context) error {
	layer, _, err := loadFromMongo(ctx, p.Config)
	if err != nil {
		return err
	}

	return p.ReplaceLayer(layer)
}

// ReplaceLayer publishes layer as the scheduled timetable. The street graph is built
// once, so the stops must match it index for index.
func (p *Planner) ReplaceLayer(layer *transit.Layer) error {
	current := p.TransitService.TransitLayer()
	if layer.StopCount() != current.StopCount() {
		return ErrStopsChanged
	}

	for i, stop := range layer.Stops() {
		if stop.PrimaryIdentifier != current.StopByIndex(i).PrimaryIdentifier {
			return ErrStopsChanged
		}
	}

	p.TransitService.ReplaceScheduledLayer(layer)
	return nil
}
