package raptor

import (
	"fmt"
	"time"

	"github.com/travigo/planner/pkg/ctdf"
	"github.com/travigo/planner/pkg/util"
)

// TripScheduleWithOffset is one trip of a flattened timetable seen in search time.
// Times are the trip's own times shifted by the offset of its service date.
type TripScheduleWithOffset struct {
	timetable     *TripPatternForDates
	tripTimes     *ctdf.TripTimes
	serviceDate   time.Time
	secondsOffset int
}

func (t TripScheduleWithOffset) ArrivalTime(stopPosition int) int {
	return t.tripTimes.ArrivalTime(stopPosition) + t.secondsOffset
}

func (t TripScheduleWithOffset) DepartureTime(stopPosition int) int {
	return t.tripTimes.DepartureTime(stopPosition) + t.secondsOffset
}

func (t TripScheduleWithOffset) ServiceDate() time.Time {
	return t.serviceDate
}

func (t TripScheduleWithOffset) SecondsOffset() int {
	return t.secondsOffset
}

func (t TripScheduleWithOffset) OriginalTripTimes() *ctdf.TripTimes {
	return t.tripTimes
}

func (t TripScheduleWithOffset) TripPattern() *ctdf.TripPattern {
	return t.timetable.TripPattern()
}

func (t TripScheduleWithOffset) Timetable() *TripPatternForDates {
	return t.timetable
}

func (t TripScheduleWithOffset) String() string {
	return fmt.Sprintf("%s %s +%ds", t.tripTimes.JourneyRef, t.serviceDate.Format(util.ServiceDateFormat), t.secondsOffset)
}
