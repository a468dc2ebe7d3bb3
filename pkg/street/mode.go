package street

import (
	"fmt"
	"strings"
)

type Mode string

//goland:noinspection GoUnusedConst
const (
	ModeNotSet     Mode = "NOT_SET"
	ModeWalk       Mode = "WALK"
	ModeBike       Mode = "BIKE"
	ModeBikeRental Mode = "BIKE_RENTAL"
	ModeCar        Mode = "CAR"
	ModeCarHailing Mode = "CAR_HAILING"
	ModeFlexible   Mode = "FLEXIBLE"
)

var modes = []Mode{ModeNotSet, ModeWalk, ModeBike, ModeBikeRental, ModeCar, ModeCarHailing, ModeFlexible}

func ParseMode(value string) (Mode, error) {
	for _, mode := range modes {
		if strings.EqualFold(string(mode), value) {
			return mode, nil
		}
	}
	return ModeNotSet, fmt.Errorf("unknown street mode %q", value)
}

// Speed in meters per second. Flexible access is reached on foot.
func (m Mode) Speed() float64 {
	switch m {
	case ModeBike, ModeBikeRental:
		return 5
	case ModeCar, ModeCarHailing:
		return 11
	default:
		return 1.33
	}
}

func (m Mode) Reluctance() float64 {
	switch m {
	case ModeBike, ModeBikeRental:
		return 2
	case ModeCar, ModeCarHailing:
		return 3
	default:
		return 2
	}
}

func (m Mode) IncludesDriving() bool {
	return m == ModeCar || m == ModeCarHailing
}

func (m Mode) String() string {
	return string(m)
}
