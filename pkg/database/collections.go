package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	StopsCollection               = "stops"
	TripPatternsCollection        = "trip_patterns"
	GuaranteedTransfersCollection = "guaranteed_transfers"
)

func createIndexes() {
	createStopsIndexes()
	createTripPatternsIndexes()
}

func createStopsIndexes() {
	stopsCollection := GetCollection(StopsCollection)
	stopsIndex := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "primaryidentifier", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "location.coordinates", Value: "2d"}},
		},
	}

	opts := options.CreateIndexes()
	_, err := stopsCollection.Indexes().CreateMany(context.Background(), stopsIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}

func createTripPatternsIndexes() {
	tripPatternsCollection := GetCollection(TripPatternsCollection)
	tripPatternsIndex := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "primaryidentifier", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "servicedates.date", Value: 1}},
		},
	}

	opts := options.CreateIndexes()
	_, err := tripPatternsCollection.Indexes().CreateMany(context.Background(), tripPatternsIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}
