package ctdf

import "time"

type JourneyPlanResults struct {
	JourneyPlans []JourneyPlan `groups:"basic"`

	SearchWindowStart time.Time     `groups:"basic"`
	SearchWindow      time.Duration `groups:"basic"`
}

type JourneyPlan struct {
	RouteItems []JourneyPlanRouteItem `groups:"basic"`

	StartTime   time.Time     `groups:"basic"`
	ArrivalTime time.Time     `groups:"basic"`
	Duration    time.Duration `groups:"basic"`

	GeneralizedCost   int `groups:"detailed"`
	NumberOfTransfers int `groups:"basic"`

	SystemNotices []SystemNotice `groups:"debug"`
}

type JourneyPlanRouteItemType string

const (
	JourneyPlanRouteItemTypeStreet  JourneyPlanRouteItemType = "Street"
	JourneyPlanRouteItemTypeTransit JourneyPlanRouteItemType = "Transit"
)

type JourneyPlanRouteItem struct {
	Type JourneyPlanRouteItemType `groups:"basic"`
	Mode string                   `groups:"basic"`

	JourneyRef    string        `groups:"basic" json:",omitempty"`
	TripPattern   *TripPattern  `groups:"detailed" json:",omitempty"`
	TransportType TransportType `groups:"basic" json:",omitempty"`
	ServiceDate   time.Time     `groups:"detailed"`
	Realtime      bool          `groups:"basic"`

	OriginStopRef      string `groups:"basic" json:",omitempty"`
	DestinationStopRef string `groups:"basic" json:",omitempty"`

	StartTime   time.Time `groups:"basic"`
	ArrivalTime time.Time `groups:"basic"`

	Distance float64 `groups:"detailed"`
}

// SystemNotice is a tag left on an itinerary by a filter stage
type SystemNotice struct {
	Tag  string `groups:"debug"`
	Text string `groups:"debug"`
}

func (j JourneyPlan) IsFlaggedForDeletion() bool {
	return len(j.SystemNotices) > 0
}

func (j JourneyPlan) HasSystemNotice(tag string) bool {
	for _, notice := range j.SystemNotices {
		if notice.Tag == tag {
			return true
		}
	}
	return false
}

// WithSystemNotice returns a copy of the plan carrying the extra notice. The receiver's
// notice slice is never appended to in place.
func (j JourneyPlan) WithSystemNotice(notice SystemNotice) JourneyPlan {
	notices := make([]SystemNotice, 0, len(j.SystemNotices)+1)
	notices = append(notices, j.SystemNotices...)
	notices = append(notices, notice)

	j.SystemNotices = notices
	return j
}
