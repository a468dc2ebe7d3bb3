package filterchain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/travigo/planner/pkg/ctdf"
	"github.com/travigo/planner/pkg/util"
)

var ErrUnknownDebugProfile = errors.New("unknown itinerary filter debug profile")

type DebugProfile string

const (
	// Off removes every itinerary flagged by an earlier filter
	Off DebugProfile = "off"
	// ListAll keeps everything, flagged or not
	ListAll DebugProfile = "list-all"
	// LimitToSearchWindow only removes itineraries starting outside the search window
	LimitToSearchWindow DebugProfile = "limit-to-search-window"
	// LimitToNumOfItineraries keeps the first N itineraries, flagged or not
	LimitToNumOfItineraries DebugProfile = "limit-to-num-of-itineraries"
)

// ParseDebugProfile accepts the profile names case-insensitively. Underscores are read as
// dashes so LIST_ALL works too. Empty means Off.
func ParseDebugProfile(value string) (DebugProfile, error) {
	normalised := DebugProfile(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), "_", "-"))

	switch normalised {
	case "":
		return Off, nil
	case Off, ListAll, LimitToSearchWindow, LimitToNumOfItineraries:
		return normalised, nil
	default:
		return "", fmt.Errorf("%q: %w", value, ErrUnknownDebugProfile)
	}
}

// DeleteResultHandler is the last stage of the itinerary filter chain, it decides which
// flagged itineraries are returned
type DeleteResultHandler struct {
	profile          DebugProfile
	numOfItineraries int
}

func NewDeleteResultHandler(profile DebugProfile, numOfItineraries int) *DeleteResultHandler {
	return &DeleteResultHandler{
		profile:          profile,
		numOfItineraries: numOfItineraries,
	}
}

func (h *DeleteResultHandler) Filter(itineraries []ctdf.JourneyPlan) []ctdf.JourneyPlan {
	switch h.profile {
	case ListAll:
		return itineraries
	case LimitToNumOfItineraries:
		limit := h.numOfItineraries
		if limit < 0 {
			limit = 0
		}
		if limit > len(itineraries) {
			limit = len(itineraries)
		}
		limited := make([]ctdf.JourneyPlan, limit)
		copy(limited, itineraries[:limit])
		return limited
	case LimitToSearchWindow:
		return util.Filter(itineraries, func(itinerary ctdf.JourneyPlan) bool {
			return !itinerary.HasSystemNotice(OutsideSearchWindowTag)
		})
	default:
		return util.Filter(itineraries, func(itinerary ctdf.JourneyPlan) bool {
			return !itinerary.IsFlaggedForDeletion()
		})
	}
}
