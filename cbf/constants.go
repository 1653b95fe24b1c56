package cbf

// Mode selects the form of the CBF-QP solved on the co-processor. It is
// chosen once at startup and fixes the wire payload size for both
// directions of the link.
type Mode uint8

const (
	ModeDisabled Mode = iota
	ModeAttitude
	ModeAttitudeIters
	ModePosition
)

// HeaderHealthy marks a well-formed packet. Anything else in the header
// byte means the link has lost framing.
const HeaderHealthy byte = 'V' // 0x56

// MaxPayloadSize is the largest payload region of any mode.
const MaxPayloadSize = 20

// CompressionScale converts between physical units and the int16
// milliunits used on the wire.
const CompressionScale = 1000

// PayloadSize returns the fixed payload region for the mode. The region
// is sized for the larger direction: requests are compressed int16
// fields, responses are raw float32 (plus an iteration count in the
// iters variant).
func (m Mode) PayloadSize() int {
	switch m {
	case ModeAttitude:
		return 16
	case ModeAttitudeIters, ModePosition:
		return 20
	default:
		return 0
	}
}

// PacketSize is the full wire size: one header byte plus the payload.
func (m Mode) PacketSize() int {
	return 1 + m.PayloadSize()
}

func (m Mode) Enabled() bool {
	return m != ModeDisabled
}

func (m Mode) String() string {
	switch m {
	case ModeAttitude:
		return "eul"
	case ModeAttitudeIters:
		return "eul-iters"
	case ModePosition:
		return "pos"
	default:
		return "off"
	}
}

// ParseMode maps the command-line names onto a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "off", "disabled", "":
		return ModeDisabled, nil
	case "eul":
		return ModeAttitude, nil
	case "eul-iters":
		return ModeAttitudeIters, nil
	case "pos":
		return ModePosition, nil
	}
	return ModeDisabled, ErrorUnknownMode
}
