package transitstops

import (
	"context"
	"errors"
	"reflect"

	"github.com/travigo/planner/pkg/ctdf"
	"github.com/travigo/planner/pkg/dataaggregator/query"
	"github.com/travigo/planner/pkg/dataaggregator/source"
	"github.com/travigo/planner/pkg/transit"
)

var ErrStopNotFound = errors.New("could not find a matching stop")

// Source answers stop lookups from the scheduled transit layer held in memory
type Source struct {
	TransitService *transit.Service
}

func (s Source) GetName() string {
	return "Transit Stops"
}

func (s Source) Supports() []reflect.Type {
	return []reflect.Type{
		reflect.TypeOf(ctdf.Stop{}),
	}
}

func (s Source) Lookup(_ context.Context, q any) (interface{}, error) {
	switch q := q.(type) {
	case query.Stop:
		layer := s.TransitService.TransitLayer()

		stopIndex, exists := layer.StopIndex(q.PrimaryIdentifier)
		if !exists {
			return nil, ErrStopNotFound
		}
		return layer.StopByIndex(stopIndex), nil
	default:
		return nil, source.UnsupportedSourceError
	}
}
