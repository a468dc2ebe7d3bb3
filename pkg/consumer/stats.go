package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/adjust/rmq/v5"
	"github.com/travigo/planner/pkg/database"
	"github.com/travigo/planner/pkg/redis_client"
)

type StatsServerHandler struct {
	redisConnection rmq.Connection
}

func NewStatsHandler(connection rmq.Connection) *StatsServerHandler {
	return &StatsServerHandler{redisConnection: connection}
}

func (handler *StatsServerHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	layout := request.FormValue("layout")
	refresh := request.FormValue("refresh")

	queues, err := handler.redisConnection.GetOpenQueues()
	if err != nil {
		writer.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(writer, err)
		return
	}

	stats, err := handler.redisConnection.CollectStats(queues)
	if err != nil {
		writer.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(writer, err)
		return
	}

	fmt.Fprint(writer, stats.GetHtml(layout, refresh))
}

type HealthHandler struct {
	checks map[string]func(ctx context.Context) error
}

// NewHealthHandler checks Redis, and MongoDB when the timetable came from it
func NewHealthHandler() *HealthHandler {
	handler := &HealthHandler{checks: map[string]func(ctx context.Context) error{}}

	if redis_client.Client != nil {
		handler.checks["redis"] = func(ctx context.Context) error {
			return redis_client.Client.Ping(ctx).Err()
		}
	}

	if database.MongoGlobalInstance != nil {
		handler.checks["mongo"] = func(ctx context.Context) error {
			return database.MongoGlobalInstance.Client.Ping(ctx, nil)
		}
	}

	return handler
}

func (handler *HealthHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	status := http.StatusOK
	results := map[string]string{}

	for name, check := range handler.checks {
		if err := check(request.Context()); err != nil {
			status = http.StatusInternalServerError
			results[name] = err.Error()
		} else {
			results[name] = "OK"
		}
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	json.NewEncoder(writer).Encode(results)
}
