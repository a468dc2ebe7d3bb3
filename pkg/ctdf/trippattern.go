package ctdf

import "fmt"

// TripPattern is an ordered stop sequence shared by a family of journeys
type TripPattern struct {
	PrimaryIdentifier string `groups:"basic" bson:"primaryidentifier"`

	ServiceRef  string `groups:"basic" bson:"serviceref"`
	OperatorRef string `groups:"basic" bson:"operatorref"`
	ServiceName string `groups:"basic" bson:"servicename"`

	TransportType TransportType `groups:"basic" bson:"transporttype"`

	StopRefs    []string `groups:"detailed" bson:"stoprefs"`
	StopIndexes []int    `groups:"internal" bson:"-"`

	// Boarding and Alighting are indexed by stop position. A missing entry means allowed.
	Boarding  []bool `groups:"internal" bson:"boarding,omitempty"`
	Alighting []bool `groups:"internal" bson:"alighting,omitempty"`
}

func (p *TripPattern) NumberOfStops() int {
	return len(p.StopIndexes)
}

func (p *TripPattern) StopIndex(stopPosition int) int {
	return p.StopIndexes[stopPosition]
}

func (p *TripPattern) CanBoard(stopPosition int) bool {
	if stopPosition >= len(p.Boarding) {
		return true
	}
	return p.Boarding[stopPosition]
}

func (p *TripPattern) CanAlight(stopPosition int) bool {
	if stopPosition >= len(p.Alighting) {
		return true
	}
	return p.Alighting[stopPosition]
}

func (p *TripPattern) String() string {
	return fmt.Sprintf("%s %s (%s)", p.TransportType, p.ServiceName, p.PrimaryIdentifier)
}
