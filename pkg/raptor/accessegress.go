package raptor

import "fmt"

// AccessEgress is a street leg between the origin (or destination) and one stop
type AccessEgress struct {
	StopIndex         int
	DurationInSeconds int
	GeneralizedCost   int

	Mode     string
	Distance float64

	Flex        bool
	RideHailing bool

	// EarliestStartTime is seconds since the transit search time zero, NotSet when the
	// leg can start at any time
	EarliestStartTime int
}

// EarliestDepartureTime returns the first time at or after requested this leg can begin
func (a AccessEgress) EarliestDepartureTime(requested int) int {
	if a.EarliestStartTime == NotSet || a.EarliestStartTime <= requested {
		return requested
	}
	return a.EarliestStartTime
}

func (a AccessEgress) HasTimeRestriction() bool {
	return a.EarliestStartTime != NotSet
}

func (a AccessEgress) String() string {
	return fmt.Sprintf("%s %ds -> stop %d", a.Mode, a.DurationInSeconds, a.StopIndex)
}
