package config

import (
	"fmt"
	"time"

	iso8601 "github.com/senseyeio/duration"
	"gopkg.in/yaml.v3"
)

var durationReference = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Duration is an ISO-8601 duration such as PT45M in the config file
type Duration struct {
	iso8601.Duration
}

func ParseDuration(value string) (Duration, error) {
	parsed, err := iso8601.ParseISO8601(value)
	if err != nil {
		return Duration{}, fmt.Errorf("invalid duration %q: %w", value, err)
	}
	return Duration{parsed}, nil
}

func MustParseDuration(value string) Duration {
	duration, err := ParseDuration(value)
	if err != nil {
		panic(err)
	}
	return duration
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var value string
	if err := node.Decode(&value); err != nil {
		return err
	}

	parsed, err := ParseDuration(value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value converts to a time.Duration, counting years, months and days from a fixed UTC
// reference so the result does not depend on when it is called
func (d Duration) Value() time.Duration {
	return d.Shift(durationReference).Sub(durationReference)
}

func (d Duration) IsZero() bool {
	return d.Value() == 0
}
