package api

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/planner/pkg/config"
	"github.com/travigo/planner/pkg/consumer"
	"github.com/travigo/planner/pkg/dataaggregator/global"
	"github.com/travigo/planner/pkg/dataaggregator/source/cachedresults"
	"github.com/travigo/planner/pkg/database"
	"github.com/travigo/planner/pkg/dbwatch"
	"github.com/travigo/planner/pkg/elastic_client"
	"github.com/travigo/planner/pkg/planner"
	"github.com/travigo/planner/pkg/realtime"
	"github.com/travigo/planner/pkg/redis_client"
	"github.com/travigo/planner/pkg/routing"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the journey planner web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "router config YAML file",
					},
					&cli.IntFlag{
						Name:  "realtime-consumers",
						Value: 1,
						Usage: "number of GTFS-RT trip update consumers, 0 disables realtime",
					},
					&cli.StringFlag{
						Name:  "stats-listen",
						Usage: "listen target for the queue stats server",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}

					if cfg.Transit.StopsCSV == "" {
						if err := database.Connect(); err != nil {
							return err
						}
					}
					if err := elastic_client.Connect(false); err != nil {
						return err
					}
					if err := redis_client.Connect(); err != nil {
						log.Warn().Err(err).Msg("Redis unavailable, running without result cache or realtime updates")
					}

					transitService, err := planner.LoadTransitService(context.Background(), cfg)
					if err != nil {
						return err
					}

					var events routing.EventSink
					if elastic_client.Client != nil {
						events = routing.ElasticEventSink{}
					}

					journeyPlanner := planner.New(cfg, transitService, events)

					cachedResults := &cachedresults.Cache{}
					cachedResults.Setup(1 * time.Minute)

					global.Setup(journeyPlanner.Service, transitService, cachedResults)

					if database.MongoGlobalInstance != nil {
						go dbwatch.NewTimetableWatch(journeyPlanner.Reload).Run(context.Background())
					}

					if redis_client.IsConnected() && c.Int("realtime-consumers") > 0 {
						tripUpdatesConsumer := &consumer.RedisConsumer{
							QueueName:       realtime.TripUpdatesQueueName,
							NumberConsumers: c.Int("realtime-consumers"),
							BatchSize:       20,
							Timeout:         2 * time.Second,
							Consumer:        realtime.NewTripUpdatesBatchConsumer(transitService, journeyPlanner.RealtimeOptions()),
							StatsListen:     c.String("stats-listen"),
						}
						if err := tripUpdatesConsumer.Setup(); err != nil {
							return err
						}
					}

					return SetupServer(c.String("listen"), cfg)
				},
			},
		},
	}
}
