package dbwatch

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/planner/pkg/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// TimetableWatch reloads the timetable after the watched collections change. Bursts of
// changes, such as a full import, collapse into one reload once the collections have
// been quiet for Debounce.
type TimetableWatch struct {
	Collections []string
	Debounce    time.Duration

	Reload func(ctx context.Context) error
}

func NewTimetableWatch(reload func(ctx context.Context) error) *TimetableWatch {
	return &TimetableWatch{
		Collections: []string{database.TripPatternsCollection},
		Debounce:    30 * time.Second,
		Reload:      reload,
	}
}

func (w *TimetableWatch) Run(ctx context.Context) {
	changes := make(chan string, 16)

	for _, collection := range w.Collections {
		go w.watchCollection(ctx, collection, changes)
	}

	w.reloadOnChanges(ctx, changes)
}

func (w *TimetableWatch) watchCollection(ctx context.Context, collectionName string, changes chan<- string) {
	log.Info().Str("collection", collectionName).Msg("Starting dbwatch")

	matchPipeline := bson.D{
		{
			Key: "$match", Value: bson.D{
				{Key: "operationType", Value: bson.D{{Key: "$in", Value: bson.A{"insert", "update", "replace", "delete"}}}},
			},
		},
	}

	for ctx.Err() == nil {
		stream, err := database.GetCollection(collectionName).Watch(ctx, mongo.Pipeline{matchPipeline})
		if err != nil {
			log.Error().Err(err).Str("collection", collectionName).Msg("Failed to watch collection")
			sleepContext(ctx, w.Debounce)
			continue
		}

		for stream.Next(ctx) {
			select {
			case changes <- collectionName:
			default:
				// a reload is already pending
			}
		}

		if err := stream.Err(); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Str("collection", collectionName).Msg("Collection watch fell over")
		}
		stream.Close(context.Background())
	}
}

// reloadOnChanges calls Reload once no change has arrived for Debounce
func (w *TimetableWatch) reloadOnChanges(ctx context.Context, changes <-chan string) {
	timer := time.NewTimer(w.Debounce)
	timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case collection := <-changes:
			log.Debug().Str("collection", collection).Msg("Timetable change seen")

			timer.Reset(w.Debounce)
			pending = true
		case <-timer.C:
			if !pending {
				continue
			}
			pending = false

			startTime := time.Now()
			if err := w.Reload(ctx); err != nil {
				log.Error().Err(err).Msg("Failed to reload timetable")
				continue
			}
			log.Info().Str("duration", time.Since(startTime).String()).Msg("Reloaded timetable")
		}
	}
}

func sleepContext(ctx context.Context, duration time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(duration):
	}
}
