package query

type Stop struct {
	PrimaryIdentifier string
}
