package protocol

import (
	"errors"
	"io"
)

const (
	// FrameHeaderSize is the size of the frame header in bytes.
	FrameHeaderSize = 4

	// MaxPayloadSize is the maximum payload size (2^16 - 1 bytes).
	MaxPayloadSize = 65535
)

// FrameType identifies the type of frame.
type FrameType uint8

const (
	FramePatches FrameType = 0x02 // Server → Client patches
	FrameControl FrameType = 0x03 // Control messages (ping, close)
	FrameError   FrameType = 0x05 // Error message
)

// String returns the string representation of the frame type.
func (ft FrameType) String() string {
	switch ft {
	case FramePatches:
		return "Patches"
	case FrameControl:
		return "Control"
	case FrameError:
		return "Error"
	default:
		return "Unknown"
	}
}

// FrameFlags are optional flags for frame processing.
type FrameFlags uint8

const (
	FlagSequenced FrameFlags = 0x02 // Includes sequence number
	FlagFinal     FrameFlags = 0x04 // Last frame in batch
)

// Has returns true if the flags contain the specified flag.
func (ff FrameFlags) Has(flag FrameFlags) bool {
	return ff&flag != 0
}

// Frame errors.
var ErrFrameTooLarge = errors.New("protocol: frame payload too large")

// Frame is a protocol frame.
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (2 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
type Frame struct {
	Type    FrameType
	Flags   FrameFlags
	Payload []byte
}

// NewFrame creates a new frame with the given type, flags, and payload.
func NewFrame(ft FrameType, flags FrameFlags, payload []byte) *Frame {
	return &Frame{Type: ft, Flags: flags, Payload: payload}
}

// Encode encodes the frame to bytes including the header.
func (f *Frame) Encode() ([]byte, error) {
	length := len(f.Payload)
	if length > MaxPayloadSize {
		return nil, ErrFrameTooLarge
	}
	e := NewEncoder()
	e.WriteByte(byte(f.Type))
	e.WriteByte(byte(f.Flags))
	e.WriteUint16(uint16(length))
	e.WriteBytes(f.Payload)
	return e.Bytes(), nil
}

// DecodeFrame decodes a frame from bytes.
func DecodeFrame(data []byte) (*Frame, error) {
	if len(data) < FrameHeaderSize {
		return nil, io.ErrUnexpectedEOF
	}

	length := int(data[2])<<8 | int(data[3])
	if len(data) < FrameHeaderSize+length {
		return nil, io.ErrUnexpectedEOF
	}

	payload := make([]byte, length)
	copy(payload, data[FrameHeaderSize:FrameHeaderSize+length])

	return &Frame{
		Type:    FrameType(data[0]),
		Flags:   FrameFlags(data[1]),
		Payload: payload,
	}, nil
}
