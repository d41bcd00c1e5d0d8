package protocol

// ControlType identifies the type of control message.
type ControlType uint8

const (
	ControlPing  ControlType = 0x01 // Client/server ping
	ControlPong  ControlType = 0x02 // Response to ping
	ControlClose ControlType = 0x20 // Session close
)

// String returns the string representation of the control type.
func (ct ControlType) String() string {
	switch ct {
	case ControlPing:
		return "Ping"
	case ControlPong:
		return "Pong"
	case ControlClose:
		return "Close"
	default:
		return "Unknown"
	}
}

// Control is a control message payload.
type Control struct {
	Type      ControlType
	Timestamp uint64 // Unix milliseconds, echoed back in a Pong
}

// EncodeControl encodes a control payload.
func EncodeControl(c *Control) []byte {
	e := NewEncoder()
	e.WriteByte(byte(c.Type))
	e.WriteUvarint(c.Timestamp)
	return e.Bytes()
}

// DecodeControl decodes a control payload.
func DecodeControl(data []byte) (*Control, error) {
	d := NewDecoder(data)
	t, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	ts, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	return &Control{Type: ControlType(t), Timestamp: ts}, nil
}

// EncodeControlFrame wraps a control payload in a Frame and returns the wire
// bytes.
func EncodeControlFrame(c *Control) ([]byte, error) {
	return NewFrame(FrameControl, 0, EncodeControl(c)).Encode()
}
