package cbf

// RequestPacketPtr is an unconstrained QP candidate that can render
// itself into a compressed wire payload.
type RequestPacketPtr interface {
	Bytes() []byte
}

// ResponsePacket decodes a solver response from a payload region.
type ResponsePacket interface {
	LoadFromBytes([]byte) error
}

// ---- QP REQUEST: ATTITUDE FORM ----
// Current roll/pitch plus the nominal input [T p q r] the solver must
// project into the safe set. Angles in rad, rates in rad/s, thrust in
// m/s^2; all fields compressed to milliunits on the wire.
type AttitudeRequest struct {
	Phi, Theta float64
	T, P, Q, R float64
}

func (p *AttitudeRequest) Bytes() []byte {
	packet := make([]byte, 12)
	copy(packet[0:2], int16ToBytes(Compress(p.Phi)))
	copy(packet[2:4], int16ToBytes(Compress(p.Theta)))
	copy(packet[4:6], int16ToBytes(Compress(p.T)))
	copy(packet[6:8], int16ToBytes(Compress(p.P)))
	copy(packet[8:10], int16ToBytes(Compress(p.Q)))
	copy(packet[10:12], int16ToBytes(Compress(p.R)))
	return packet
}

// ---- QP REQUEST: POSITION FORM ----
// Current position/velocity plus the nominal input [T phi theta psi].
type PositionRequest struct {
	X, Y, Z    float64
	Xd, Yd, Zd float64
	T          float64
	Phi        float64
	Theta      float64
	Psi        float64
}

func (p *PositionRequest) Bytes() []byte {
	packet := make([]byte, 20)
	copy(packet[0:2], int16ToBytes(Compress(p.X)))
	copy(packet[2:4], int16ToBytes(Compress(p.Y)))
	copy(packet[4:6], int16ToBytes(Compress(p.Z)))
	copy(packet[6:8], int16ToBytes(Compress(p.Xd)))
	copy(packet[8:10], int16ToBytes(Compress(p.Yd)))
	copy(packet[10:12], int16ToBytes(Compress(p.Zd)))
	copy(packet[12:14], int16ToBytes(Compress(p.T)))
	copy(packet[14:16], int16ToBytes(Compress(p.Phi)))
	copy(packet[16:18], int16ToBytes(Compress(p.Theta)))
	copy(packet[18:20], int16ToBytes(Compress(p.Psi)))
	return packet
}

// ---- QP RESPONSE: SAFE CONTROL ----
// The solver returns the projected-safe input as four raw float32:
// [T p q r] in attitude form, [T phi theta psi] in position form.
type SafeControlResponse struct {
	U [4]float64
}

func (p *SafeControlResponse) LoadFromBytes(b []byte) error {
	if len(b) < 16 {
		return ErrorPacketTooShort
	}
	p.U[0] = float64(bytesToFloat32(b[0:4]))
	p.U[1] = float64(bytesToFloat32(b[4:8]))
	p.U[2] = float64(bytesToFloat32(b[8:12]))
	p.U[3] = float64(bytesToFloat32(b[12:16]))
	return nil
}

// ---- QP RESPONSE: SAFE CONTROL + SOLVER ITERATIONS ----
type SafeControlItersResponse struct {
	SafeControlResponse
	Iters uint16
}

func (p *SafeControlItersResponse) LoadFromBytes(b []byte) error {
	if len(b) < 18 {
		return ErrorPacketTooShort
	}
	if err := p.SafeControlResponse.LoadFromBytes(b[0:16]); err != nil {
		return err
	}
	p.Iters = bytesToUint16(b[16:18])
	return nil
}
