package cbf

import "fmt"

type cbfError uint8

func (e cbfError) Error() string {
	return fmt.Sprintf("cbf: %s", cbfErrorString[e])
}

const (
	ErrorPayloadTooLarge cbfError = iota
	ErrorInvalidHeader
	ErrorPacketTooShort
	ErrorUnknownMode
)

var cbfErrorString = map[cbfError]string{
	ErrorPayloadTooLarge: "payload is too large for the packet",
	ErrorInvalidHeader:   "packet header is not the healthy marker",
	ErrorPacketTooShort:  "not enough bytes to decode packet",
	ErrorUnknownMode:     "unknown CBF mode",
}
