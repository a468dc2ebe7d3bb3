package transferoptimization

import (
	"github.com/rs/zerolog/log"
	"github.com/travigo/planner/pkg/raptor"
	"github.com/travigo/planner/pkg/transit"
)

// Optimizer prefers guaranteed transfers between paths the engine considers equal
type Optimizer struct {
	transfers *transit.TransferService
}

func NewOptimizer(transfers *transit.TransferService) *Optimizer {
	if transfers == nil {
		transfers = transit.NewTransferService(nil)
	}
	return &Optimizer{transfers: transfers}
}

type pathKey struct {
	startTime         int
	endTime           int
	numberOfTransfers int
}

type candidate struct {
	path       *raptor.Path
	guaranteed int
}

// Optimize returns copies of the paths with guaranteed transfers marked. Of paths with the
// same departure, arrival and number of transfers only the one with the most guaranteed
// transfers is kept, lower cost breaking ties. The input paths are not modified.
func (o *Optimizer) Optimize(paths []*raptor.Path) []*raptor.Path {
	best := map[pathKey]int{}
	candidates := make([]candidate, 0, len(paths))

	for _, path := range paths {
		marked, guaranteed := o.markGuaranteedTransfers(path)
		current := candidate{path: marked, guaranteed: guaranteed}

		key := pathKey{startTime: path.StartTime, endTime: path.EndTime, numberOfTransfers: path.NumberOfTransfers}
		if existing, exists := best[key]; exists {
			if current.better(candidates[existing]) {
				candidates[existing] = current
			}
			continue
		}

		best[key] = len(candidates)
		candidates = append(candidates, current)
	}

	optimized := make([]*raptor.Path, len(candidates))
	for i, c := range candidates {
		optimized[i] = c.path
	}

	if len(optimized) != len(paths) {
		log.Debug().Int("before", len(paths)).Int("after", len(optimized)).Msg("Transfer optimization merged paths")
	}

	return optimized
}

func (c candidate) better(other candidate) bool {
	if c.guaranteed != other.guaranteed {
		return c.guaranteed > other.guaranteed
	}
	return c.path.GeneralizedCost < other.path.GeneralizedCost
}

func (o *Optimizer) markGuaranteedTransfers(path *raptor.Path) (*raptor.Path, int) {
	marked := path.Copy()
	guaranteed := 0

	var previous *raptor.PathLeg
	for i := range marked.Legs {
		leg := &marked.Legs[i]
		if leg.Type != raptor.LegTypeTransit {
			continue
		}

		leg.GuaranteedTransfer = false
		if previous != nil && o.isGuaranteed(previous, leg) {
			leg.GuaranteedTransfer = true
			guaranteed++
		}
		previous = leg
	}

	return marked, guaranteed
}

func (o *Optimizer) isGuaranteed(from *raptor.PathLeg, to *raptor.PathLeg) bool {
	if from.Trip == nil || to.Trip == nil {
		return false
	}

	return o.transfers.IsGuaranteed(
		from.Trip.OriginalTripTimes().JourneyRef,
		stopRef(from.Trip, from.AlightStopPosition),
		to.Trip.OriginalTripTimes().JourneyRef,
		stopRef(to.Trip, to.BoardStopPosition),
	)
}

func stopRef(trip *raptor.TripScheduleWithOffset, stopPosition int) string {
	stopRefs := trip.TripPattern().StopRefs
	if stopPosition < 0 || stopPosition >= len(stopRefs) {
		return ""
	}
	return stopRefs[stopPosition]
}
