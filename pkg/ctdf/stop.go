package ctdf

const StopIDFormat = "GB:ATCO:%s"

type Stop struct {
	PrimaryIdentifier string            `groups:"basic" bson:"primaryidentifier"`
	OtherIdentifiers  map[string]string `groups:"basic" bson:"otheridentifiers,omitempty"`

	PrimaryName string `groups:"basic" bson:"primaryname"`

	Location *Location `groups:"basic" bson:"location"`

	TransportTypes []TransportType `groups:"detailed" bson:"transporttypes,omitempty"`

	// Index is the position of the stop in the transit layer stop model
	Index int `groups:"internal" bson:"-"`
}
