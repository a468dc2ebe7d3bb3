package transit

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/planner/pkg/util"
)

// Service holds the scheduled timetable and its realtime counterpart. Layers are never
// modified once published, readers keep the pointer they got for a whole request.
type Service struct {
	mutex sync.RWMutex

	scheduled *Layer
	realtime  *Layer

	transfers *TransferService
	timeZone  *time.Location
}

func NewService(scheduled *Layer, transfers *TransferService, timeZone *time.Location) *Service {
	if transfers == nil {
		transfers = NewTransferService(nil)
	}
	if timeZone == nil {
		timeZone = time.UTC
	}

	return &Service{
		scheduled: scheduled,
		realtime:  scheduled,
		transfers: transfers,
		timeZone:  timeZone,
	}
}

func (s *Service) TransitLayer() *Layer {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.scheduled
}

func (s *Service) RealtimeTransitLayer() *Layer {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.realtime
}

func (s *Service) TransferService() *TransferService {
	return s.transfers
}

func (s *Service) TimeZone() *time.Location {
	return s.timeZone
}

// TransitFeedCovers reports whether the instant falls on or between the first and last
// service dates of the scheduled timetable
func (s *Service) TransitFeedCovers(dateTime time.Time) bool {
	serviceDates := s.TransitLayer().ServiceDates()
	if len(serviceDates) == 0 {
		return false
	}

	start := serviceDates[0]
	end := util.ShiftServiceDays(serviceDates[len(serviceDates)-1], 1)

	return !dateTime.Before(start) && dateTime.Before(end)
}

// UpdateRealtimeLayer builds a new realtime layer from the current one and publishes it.
// Concurrent updates are serialised; readers are only blocked for the pointer swap.
func (s *Service) UpdateRealtimeLayer(update func(current *Layer) (*Layer, error)) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	updated, err := update(s.realtime)
	if err != nil {
		return err
	}

	s.realtime = updated
	return nil
}

// ReplaceScheduledLayer publishes a freshly loaded timetable, dropping realtime changes
// made against the previous one
func (s *Service) ReplaceScheduledLayer(scheduled *Layer) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.scheduled = scheduled
	s.realtime = scheduled

	log.Info().
		Int("stops", scheduled.StopCount()).
		Int("dates", len(scheduled.ServiceDates())).
		Msg("Published new scheduled transit layer")
}
