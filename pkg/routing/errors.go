package routing

import (
	"errors"
	"fmt"
	"strings"
)

type RoutingErrorCode string

const (
	OutsideServicePeriod RoutingErrorCode = "OUTSIDE_SERVICE_PERIOD"
	NoStopsInRange       RoutingErrorCode = "NO_STOPS_IN_RANGE"
	NoTransitConnection  RoutingErrorCode = "NO_TRANSIT_CONNECTION"
)

type InputField string

const (
	InputFieldNone      InputField = ""
	InputFieldDateTime  InputField = "DATE_TIME"
	InputFieldFromPlace InputField = "FROM_PLACE"
	InputFieldToPlace   InputField = "TO_PLACE"
)

type RoutingError struct {
	Code       RoutingErrorCode `json:"code" groups:"basic"`
	InputField InputField       `json:"field,omitempty" groups:"basic"`
}

func (e RoutingError) String() string {
	if e.InputField == InputFieldNone {
		return string(e.Code)
	}
	return fmt.Sprintf("%s(%s)", e.Code, e.InputField)
}

// ValidationError reports why a request can not produce transit results
type ValidationError struct {
	Errors []RoutingError
}

func NewValidationError(errs ...RoutingError) *ValidationError {
	return &ValidationError{Errors: errs}
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, routingError := range e.Errors {
		parts[i] = routingError.String()
	}
	return "routing validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) HasCode(code RoutingErrorCode) bool {
	for _, routingError := range e.Errors {
		if routingError.Code == code {
			return true
		}
	}
	return false
}

func AsValidationError(err error) (*ValidationError, bool) {
	var validationError *ValidationError
	if errors.As(err, &validationError) {
		return validationError, true
	}
	return nil, false
}
