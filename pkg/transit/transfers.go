package transit

// GuaranteedTransfer promises the to journey waits for passengers from the from journey.
// An empty stop ref matches any stop.
type GuaranteedTransfer struct {
	FromJourneyRef string `yaml:"from_journey" bson:"fromjourneyref"`
	FromStopRef    string `yaml:"from_stop" bson:"fromstopref"`
	ToJourneyRef   string `yaml:"to_journey" bson:"tojourneyref"`
	ToStopRef      string `yaml:"to_stop" bson:"tostopref"`
}

type TransferService struct {
	byFromJourney map[string][]GuaranteedTransfer
	count         int
}

func NewTransferService(transfers []GuaranteedTransfer) *TransferService {
	service := &TransferService{
		byFromJourney: map[string][]GuaranteedTransfer{},
	}

	for _, transfer := range transfers {
		service.byFromJourney[transfer.FromJourneyRef] = append(service.byFromJourney[transfer.FromJourneyRef], transfer)
		service.count++
	}

	return service
}

func (t *TransferService) IsGuaranteed(fromJourneyRef string, fromStopRef string, toJourneyRef string, toStopRef string) bool {
	for _, transfer := range t.byFromJourney[fromJourneyRef] {
		if transfer.ToJourneyRef != toJourneyRef {
			continue
		}
		if transfer.FromStopRef != "" && transfer.FromStopRef != fromStopRef {
			continue
		}
		if transfer.ToStopRef != "" && transfer.ToStopRef != toStopRef {
			continue
		}
		return true
	}
	return false
}

func (t *TransferService) Count() int {
	return t.count
}
