package redis_client

import (
	"context"
	"strconv"

	"github.com/adjust/rmq/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/travigo/planner/pkg/util"
)

var Client *redis.Client
var QueueConnection rmq.Connection

const defaultConnectionAddress = "localhost:6379"
const defaultConnectionPassword = ""
const defaultDatabase = 0

// Connect reads TRAVIGO_REDIS_* and opens both the client and the rmq queue connection
func Connect() error {
	address := defaultConnectionAddress
	password := defaultConnectionPassword
	database := defaultDatabase

	env := util.GetEnvironmentVariables()

	if env["TRAVIGO_REDIS_ADDRESS"] != "" {
		address = env["TRAVIGO_REDIS_ADDRESS"]
	}

	if env["TRAVIGO_REDIS_PASSWORD"] != "" {
		password = env["TRAVIGO_REDIS_PASSWORD"]
	}

	if env["TRAVIGO_REDIS_DATABASE"] != "" {
		if n, err := strconv.Atoi(env["TRAVIGO_REDIS_DATABASE"]); err == nil {
			database = n
		} else {
			return err
		}
	}

	return ConnectWithOptions(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       database,
	})
}

func ConnectWithOptions(options *redis.Options) error {
	client := redis.NewClient(options)

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return err
	}
	Client = client

	errChan := make(chan error, 10)
	go logQueueErrors(errChan)

	var err error
	QueueConnection, err = rmq.OpenConnectionWithRedisClient("travigo-planner", Client, errChan)
	if err != nil {
		return err
	}

	log.Info().Str("address", options.Addr).Msg("Redis client setup")

	return nil
}

func logQueueErrors(errChan <-chan error) {
	for err := range errChan {
		switch err := err.(type) {
		case *rmq.HeartbeatError:
			if err.Count == rmq.HeartbeatErrorLimit {
				log.Fatal().Err(err).Msg("Redis queue heartbeat failed too many times")
			}
			log.Error().Err(err).Msg("Redis queue heartbeat error")
		default:
			log.Error().Err(err).Msg("Redis queue error")
		}
	}
}

// IsConnected reports whether Connect has succeeded
func IsConnected() bool {
	return Client != nil
}
