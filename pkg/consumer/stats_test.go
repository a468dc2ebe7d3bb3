package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/planner/pkg/redis_client"
)

func serveHealth(t *testing.T, handler *HealthHandler) (int, map[string]string) {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	results := map[string]string{}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&results))
	return recorder.Code, results
}

func TestHealthHandlerRedis(t *testing.T) {
	server := miniredis.RunT(t)

	previous := redis_client.Client
	redis_client.Client = redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { redis_client.Client = previous })

	status, results := serveHealth(t, NewHealthHandler())
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", results["redis"])
	assert.NotContains(t, results, "mongo")
}

func TestHealthHandlerFailingCheck(t *testing.T) {
	handler := &HealthHandler{checks: map[string]func(ctx context.Context) error{
		"redis": func(context.Context) error { return nil },
		"mongo": func(context.Context) error { return errors.New("no reachable servers") },
	}}

	status, results := serveHealth(t, handler)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "OK", results["redis"])
	assert.Equal(t, "no reachable servers", results["mongo"])
}
