package realtime

import "time"

type TripUpdatesElasticEvent struct {
	Timestamp time.Time

	Feeds    int
	Rejected int

	Applied   int
	Cancelled int
	Unmatched int
}
