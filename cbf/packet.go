package cbf

// Packet is the wire unit exchanged with the co-processor: a one-byte
// header followed by a fixed payload region. Two live instances exist
// per link, one per direction.
type Packet struct {
	Header byte
	Data   [MaxPayloadSize]byte
}

// Raw renders the packet's wire image for the active mode.
func (p *Packet) Raw(m Mode) []byte {
	raw := make([]byte, m.PacketSize())
	raw[0] = p.Header
	copy(raw[1:], p.Data[:m.PayloadSize()])
	return raw
}

// LoadRaw fills the packet from a received wire image.
func (p *Packet) LoadRaw(raw []byte) error {
	if len(raw) < 1 {
		return ErrorPacketTooShort
	}
	p.Header = raw[0]
	copy(p.Data[:], raw[1:])
	return nil
}

// Clear zeroes the packet for the next receive round.
func (p *Packet) Clear() {
	p.Header = 0
	p.Data = [MaxPayloadSize]byte{}
}

// Pack builds a healthy outbound packet from payload. When the payload
// does not fit the mode's payload region it returns
// ErrorPayloadTooLarge and leaves dst untouched, so a previously packed
// packet survives an oversize attempt.
func Pack(m Mode, dst *Packet, payload []byte) error {
	if len(payload) > m.PayloadSize() {
		return ErrorPayloadTooLarge
	}
	dst.Header = HeaderHealthy
	copy(dst.Data[:], payload)
	return nil
}

// Unpack validates the inbound packet and decodes its payload into
// resp. A header other than the healthy marker fails with
// ErrorInvalidHeader and leaves the packet uncleared so the caller can
// inspect it and resynchronize the link. On success the packet is
// cleared for the next receive round.
func Unpack(pk *Packet, resp ResponsePacket) error {
	if pk.Header != HeaderHealthy {
		return ErrorInvalidHeader
	}
	if err := resp.LoadFromBytes(pk.Data[:]); err != nil {
		return err
	}
	pk.Clear()
	return nil
}
