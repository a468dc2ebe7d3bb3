package routing

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequentialStrategyStopsAtFirstError(t *testing.T) {
	errFirst := errors.New("first")
	ran := []int{}

	err := SequentialStrategy{}.Run(
		func() error { ran = append(ran, 1); return nil },
		func() error { ran = append(ran, 2); return errFirst },
		func() error { ran = append(ran, 3); return nil },
	)

	assert.Same(t, errFirst, err)
	assert.Equal(t, []int{1, 2}, ran)
}

func TestParallelStrategyRunsEveryTask(t *testing.T) {
	errFailed := errors.New("failed")
	var ran atomic.Int32

	err := ParallelStrategy{}.Run(
		func() error { ran.Add(1); return nil },
		func() error { ran.Add(1); return errFailed },
		func() error { ran.Add(1); return nil },
	)

	assert.Same(t, errFailed, err)
	assert.Equal(t, int32(3), ran.Load())

	assert.NoError(t, ParallelStrategy{}.Run())
}

func TestStrategiesRecoverPanics(t *testing.T) {
	for name, strategy := range map[string]ConcurrencyStrategy{
		"sequential": NewConcurrencyStrategy(false),
		"parallel":   NewConcurrencyStrategy(true),
	} {
		t.Run(name, func(t *testing.T) {
			errCause := errors.New("cause")

			err := strategy.Run(func() error { panic(errCause) })
			assert.Same(t, errCause, err)

			err = strategy.Run(func() error { panic("boom") })
			require.Error(t, err)
			assert.Equal(t, "task panicked: boom", err.Error())
		})
	}
}

func TestNewConcurrencyStrategy(t *testing.T) {
	assert.IsType(t, ParallelStrategy{}, NewConcurrencyStrategy(true))
	assert.IsType(t, SequentialStrategy{}, NewConcurrencyStrategy(false))
}
