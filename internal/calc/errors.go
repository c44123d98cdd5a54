package calc

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData is returned when the input is too short for the
	// requested computation (forecast window larger than the series)
	ErrInsufficientData = errors.New("insufficient data for the selected window")

	// ErrUnknownCalculator is returned by Lookup for an unregistered name
	ErrUnknownCalculator = errors.New("unknown calculator")
)

// ParamError reports an invalid auxiliary parameter
type ParamError struct {
	Param  string
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Param, e.Reason)
}

// AlignmentError reports a criterion vector whose length does not match the
// reference length. Row is 1-based; Row 0 refers to the weight vector.
type AlignmentError struct {
	Row  int
	Name string
	Want int
	Got  int
}

func (e *AlignmentError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("weight count mismatch: %d weights for %d criteria", e.Got, e.Want)
	}
	return fmt.Sprintf("row %d (%s): expected %d criteria, got %d", e.Row, e.Name, e.Want, e.Got)
}
