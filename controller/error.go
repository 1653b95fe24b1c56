package controller

import "fmt"

type controllerError uint8

func (e controllerError) Error() string {
	return fmt.Sprintf("controller: %s", controllerErrorString[e])
}

const (
	ErrorGainIndexOutOfRange controllerError = iota
	ErrorUnknownGainMatrix
	ErrorUnknownLawMode
	ErrorModeFilterMismatch
)

var controllerErrorString = map[controllerError]string{
	ErrorGainIndexOutOfRange: "gain entry index out of range",
	ErrorUnknownGainMatrix:   "unknown gain matrix",
	ErrorUnknownLawMode:      "unknown control-law mode",
	ErrorModeFilterMismatch:  "safety-filter form does not match the control-law mode",
}
