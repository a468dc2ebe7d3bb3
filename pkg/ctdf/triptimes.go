package ctdf

// TripTimes holds one journey's stop times in seconds since midnight of its service date
type TripTimes struct {
	JourneyRef string `groups:"basic" bson:"journeyref"`

	ArrivalTimes   []int `groups:"detailed" bson:"arrivaltimes"`
	DepartureTimes []int `groups:"detailed" bson:"departuretimes"`

	RealtimeUpdated bool `groups:"basic" bson:"-"`
}

func (t *TripTimes) ArrivalTime(stopPosition int) int {
	return t.ArrivalTimes[stopPosition]
}

func (t *TripTimes) DepartureTime(stopPosition int) int {
	return t.DepartureTimes[stopPosition]
}

func (t *TripTimes) NumberOfStops() int {
	return len(t.DepartureTimes)
}
