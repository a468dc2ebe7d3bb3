package realtime

import (
	"os"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/rs/zerolog/log"
	"github.com/travigo/planner/pkg/redis_client"
	"github.com/urfave/cli/v2"
	"google.golang.org/protobuf/proto"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "realtime",
		Usage: "Realtime trip update feeds",
		Subcommands: []*cli.Command{
			{
				Name:  "publish",
				Usage: "publish a GTFS-RT feed file onto the trip updates queue",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "GTFS-RT FeedMessage protobuf file",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					if err := redis_client.Connect(); err != nil {
						return err
					}

					payload, err := os.ReadFile(c.String("file"))
					if err != nil {
						return err
					}

					feed := &gtfs.FeedMessage{}
					if err := proto.Unmarshal(payload, feed); err != nil {
						return err
					}

					queue, err := redis_client.QueueConnection.OpenQueue(TripUpdatesQueueName)
					if err != nil {
						return err
					}

					if err := queue.PublishBytes(payload); err != nil {
						return err
					}

					log.Info().
						Str("file", c.String("file")).
						Int("entities", len(feed.GetEntity())).
						Msg("Published GTFS-RT feed")

					return nil
				},
			},
		},
	}
}
