package realtime

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
	"github.com/travigo/planner/pkg/elastic_client"
	"github.com/travigo/planner/pkg/transit"
	"google.golang.org/protobuf/proto"
)

const TripUpdatesQueueName = "gtfsrt-trip-updates"

// TripUpdatesBatchConsumer applies GTFS-RT feed messages to the realtime transit layer.
// Every batch becomes a single layer swap.
type TripUpdatesBatchConsumer struct {
	TransitService *transit.Service
	Options        transit.RealtimeOptions
}

func NewTripUpdatesBatchConsumer(transitService *transit.Service, options transit.RealtimeOptions) *TripUpdatesBatchConsumer {
	return &TripUpdatesBatchConsumer{
		TransitService: transitService,
		Options:        options,
	}
}

func (c *TripUpdatesBatchConsumer) Consume(batch rmq.Deliveries) {
	var feeds []*gtfs.FeedMessage
	var accepted rmq.Deliveries
	rejected := 0

	for _, delivery := range batch {
		feed := &gtfs.FeedMessage{}
		if err := proto.Unmarshal([]byte(delivery.Payload()), feed); err != nil {
			log.Error().Err(err).Msg("Failed to decode GTFS-RT feed message")

			if err := delivery.Reject(); err != nil {
				log.Error().Err(err).Msg("Failed to reject delivery")
			}
			rejected++
			continue
		}

		feeds = append(feeds, feed)
		accepted = append(accepted, delivery)
	}

	stats, err := c.Apply(feeds)
	if err != nil {
		log.Error().Err(err).Msg("Failed to update realtime layer")
		if rejectErrors := accepted.Reject(); len(rejectErrors) > 0 {
			log.Error().Int("errors", len(rejectErrors)).Msg("Failed to reject deliveries")
		}
		return
	}

	if ackErrors := accepted.Ack(); len(ackErrors) > 0 {
		for _, err := range ackErrors {
			log.Error().Err(err).Msg("Failed to ack trip update")
		}
	}

	log.Info().
		Int("feeds", len(feeds)).
		Int("applied", stats.Applied).
		Int("cancelled", stats.Cancelled).
		Int("unmatched", stats.Unmatched).
		Msg("Applied GTFS-RT trip updates")

	recordEvent(len(feeds), rejected, stats)
}

// Apply folds the feeds into the realtime layer in order
func (c *TripUpdatesBatchConsumer) Apply(feeds []*gtfs.FeedMessage) (transit.TripUpdateStats, error) {
	total := transit.TripUpdateStats{}
	if len(feeds) == 0 {
		return total, nil
	}

	options := c.Options
	if options.TimeZone == nil {
		options.TimeZone = c.TransitService.TimeZone()
	}

	err := c.TransitService.UpdateRealtimeLayer(func(current *transit.Layer) (*transit.Layer, error) {
		if current == nil {
			return nil, fmt.Errorf("no realtime layer loaded")
		}

		layer := current
		for _, feed := range feeds {
			var stats transit.TripUpdateStats
			layer, stats = transit.ApplyTripUpdates(layer, feed, options)

			total.Applied += stats.Applied
			total.Cancelled += stats.Cancelled
			total.Unmatched += stats.Unmatched
		}
		return layer, nil
	})

	return total, err
}

func recordEvent(feeds int, rejected int, stats transit.TripUpdateStats) {
	timestamp := time.Now()
	year, week := timestamp.ISOWeek()

	elasticEvent, _ := json.Marshal(TripUpdatesElasticEvent{
		Timestamp: timestamp,
		Feeds:     feeds,
		Rejected:  rejected,
		Applied:   stats.Applied,
		Cancelled: stats.Cancelled,
		Unmatched: stats.Unmatched,
	})

	elastic_client.IndexRequest(fmt.Sprintf("planner-realtime-events-%d-%d", year, week), bytes.NewReader(elasticEvent))
}
