package transit

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/planner/pkg/ctdf"
	"github.com/travigo/planner/pkg/database"
	"github.com/travigo/planner/pkg/util"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TripPatternRecord is the stored form of a pattern with its journeys per service date
type TripPatternRecord struct {
	ctdf.TripPattern `bson:",inline"`

	ServiceDates []TripSetRecord `bson:"servicedates"`
}

type TripSetRecord struct {
	Date      string            `bson:"date"`
	TripTimes []*ctdf.TripTimes `bson:"triptimes"`
}

// LoadLayerFromMongo reads stops and the trip patterns running between from and to
// (inclusive service dates)
func LoadLayerFromMongo(ctx context.Context, timeZone *time.Location, from time.Time, to time.Time) (*Layer, error) {
	stops, err := loadStops(ctx)
	if err != nil {
		return nil, err
	}

	records, err := loadTripPatterns(ctx, from, to)
	if err != nil {
		return nil, err
	}

	tripPatternsForDate, err := BuildTripPatternsForDate(records, timeZone, from, to)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("stops", len(stops)).
		Int("patterns", len(records)).
		Int("patterndates", len(tripPatternsForDate)).
		Msg("Loaded transit layer")

	return NewLayer(stops, tripPatternsForDate), nil
}

func LoadGuaranteedTransfers(ctx context.Context) ([]GuaranteedTransfer, error) {
	collection := database.GetCollection(database.GuaranteedTransfersCollection)
	cursor, err := collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("finding guaranteed transfers: %w", err)
	}

	var transfers []GuaranteedTransfer
	if err := cursor.All(ctx, &transfers); err != nil {
		return nil, fmt.Errorf("decoding guaranteed transfers: %w", err)
	}

	return transfers, nil
}

func loadStops(ctx context.Context) ([]*ctdf.Stop, error) {
	collection := database.GetCollection(database.StopsCollection)
	// a stable order keeps stop indexes the same across reloads
	opts := options.Find().SetSort(bson.D{{Key: "primaryidentifier", Value: 1}})
	cursor, err := collection.Find(ctx, bson.M{"location": bson.M{"$exists": true}}, opts)
	if err != nil {
		return nil, fmt.Errorf("finding stops: %w", err)
	}
	defer cursor.Close(ctx)

	var stops []*ctdf.Stop
	for cursor.Next(ctx) {
		var stop *ctdf.Stop
		if err := cursor.Decode(&stop); err != nil {
			return nil, fmt.Errorf("decoding stop: %w", err)
		}

		stops = append(stops, stop)
	}

	return stops, cursor.Err()
}

func loadTripPatterns(ctx context.Context, from time.Time, to time.Time) ([]*TripPatternRecord, error) {
	collection := database.GetCollection(database.TripPatternsCollection)
	cursor, err := collection.Find(ctx, bson.M{
		"servicedates.date": bson.M{
			"$gte": from.Format(util.ServiceDateFormat),
			"$lte": to.Format(util.ServiceDateFormat),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("finding trip patterns: %w", err)
	}

	var records []*TripPatternRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decoding trip patterns: %w", err)
	}

	return records, nil
}

// BuildTripPatternsForDate turns stored records into per date trip sets, keeping only
// the dates between from and to
func BuildTripPatternsForDate(records []*TripPatternRecord, timeZone *time.Location, from time.Time, to time.Time) ([]*ctdf.TripPatternForDate, error) {
	fromKey := from.Format(util.ServiceDateFormat)
	toKey := to.Format(util.ServiceDateFormat)

	var tripPatternsForDate []*ctdf.TripPatternForDate

	for _, record := range records {
		pattern := record.TripPattern
		patternPointer := &pattern

		for _, tripSet := range record.ServiceDates {
			if tripSet.Date < fromKey || tripSet.Date > toKey {
				continue
			}

			serviceDate, err := time.ParseInLocation(util.ServiceDateFormat, tripSet.Date, timeZone)
			if err != nil {
				return nil, fmt.Errorf("pattern %s service date %q: %w", pattern.PrimaryIdentifier, tripSet.Date, err)
			}

			tripPatternsForDate = append(tripPatternsForDate, ctdf.NewTripPatternForDate(patternPointer, serviceDate, tripSet.TripTimes))
		}
	}

	return tripPatternsForDate, nil
}
