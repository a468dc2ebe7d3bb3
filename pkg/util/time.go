package util

import (
	"time"

	iso8601 "github.com/senseyeio/duration"
)

const ServiceDateFormat = "2006-01-02"

// ServiceDate returns midnight of the calendar day t falls on in loc
func ServiceDate(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// ShiftServiceDays moves a service date by whole calendar days, landing on midnight again
// so DST changes never leave it at 23:00 or 01:00.
func ShiftServiceDays(serviceDate time.Time, days int) time.Time {
	if days == 0 {
		return serviceDate
	}

	shifted := iso8601.Duration{D: days}.Shift(serviceDate)

	return time.Date(shifted.Year(), shifted.Month(), shifted.Day(), 0, 0, 0, 0, serviceDate.Location())
}

// SecondsBetween returns the signed number of seconds from a to b
func SecondsBetween(a time.Time, b time.Time) int {
	return int(b.Sub(a) / time.Second)
}
