package cbflink

import "fmt"

type linkError uint8

func (e linkError) Error() string {
	return fmt.Sprintf("cbflink: %s", linkErrorString[e])
}

const (
	ErrorNotStarted linkError = iota
	ErrorAlreadyStarted
	ErrorLinkClosed
)

var linkErrorString = map[linkError]string{
	ErrorNotStarted:     "link has not been started",
	ErrorAlreadyStarted: "link is already started",
	ErrorLinkClosed:     "link is closed",
}
