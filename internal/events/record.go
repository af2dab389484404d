package events

import (
	"encoding/binary"
	"fmt"
	"math"
)

// recordFormat tags the value layout written by MarshalBinary.
const recordFormat = 1

// fixed part: format(1) at(8) kind(1) button(1) axis(1) value(4) code(4)
const recordHeaderSize = 20

// Record is one persisted input event. Records are written once and never updated.
type Record struct {
	At     uint64 // milliseconds since the Unix epoch
	Device string // device label at the time of the event
	App    string // foreground application at the time of the event
	Event  Event
}

// MarshalBinary encodes the record into the compact value format stored
// alongside each key.
func (r Record) MarshalBinary() ([]byte, error) {
	buf := make([]byte, recordHeaderSize,
		recordHeaderSize+2*binary.MaxVarintLen64+len(r.Device)+len(r.App))
	offset := 0

	buf[offset] = recordFormat
	offset++

	binary.BigEndian.PutUint64(buf[offset:], r.At)
	offset += 8

	buf[offset] = byte(r.Event.Kind)
	buf[offset+1] = byte(r.Event.Button)
	buf[offset+2] = byte(r.Event.Axis)
	offset += 3

	binary.BigEndian.PutUint32(buf[offset:], math.Float32bits(r.Event.Value))
	offset += 4

	binary.BigEndian.PutUint32(buf[offset:], uint32(r.Event.Code))

	buf = binary.AppendUvarint(buf, uint64(len(r.Device)))
	buf = append(buf, r.Device...)
	buf = binary.AppendUvarint(buf, uint64(len(r.App)))
	buf = append(buf, r.App...)

	return buf, nil
}

// UnmarshalBinary decodes a value produced by MarshalBinary. Any deviation
// from the layout, including trailing bytes, yields ErrMalformed.
func (r *Record) UnmarshalBinary(data []byte) error {
	if len(data) < recordHeaderSize {
		return fmt.Errorf("record too short (%d bytes): %w", len(data), ErrMalformed)
	}
	if data[0] != recordFormat {
		return fmt.Errorf("unknown record format %d: %w", data[0], ErrMalformed)
	}

	var rec Record
	offset := 1

	rec.At = binary.BigEndian.Uint64(data[offset:])
	offset += 8

	rec.Event.Kind = Kind(data[offset])
	rec.Event.Button = Button(data[offset+1])
	rec.Event.Axis = Axis(data[offset+2])
	offset += 3

	rec.Event.Value = math.Float32frombits(binary.BigEndian.Uint32(data[offset:]))
	offset += 4

	rec.Event.Code = Code(binary.BigEndian.Uint32(data[offset:]))
	offset += 4

	if rec.Event.Kind == KindUnknown || rec.Event.Kind > KindDisconnected {
		return fmt.Errorf("unknown event kind %d: %w", rec.Event.Kind, ErrMalformed)
	}

	device, n, err := readString(data[offset:])
	if err != nil {
		return fmt.Errorf("device label: %w", err)
	}
	offset += n

	app, n, err := readString(data[offset:])
	if err != nil {
		return fmt.Errorf("app context: %w", err)
	}
	offset += n

	if offset != len(data) {
		return fmt.Errorf("%d trailing bytes: %w", len(data)-offset, ErrMalformed)
	}

	rec.Device = device
	rec.App = app
	*r = rec
	return nil
}

// DecodeRecord is a convenience wrapper around UnmarshalBinary.
func DecodeRecord(data []byte) (Record, error) {
	var rec Record
	err := rec.UnmarshalBinary(data)
	return rec, err
}

func readString(data []byte) (string, int, error) {
	length, n := binary.Uvarint(data)
	if n <= 0 {
		return "", 0, fmt.Errorf("bad length prefix: %w", ErrMalformed)
	}
	if length > uint64(len(data)-n) {
		return "", 0, fmt.Errorf("length %d exceeds remaining %d bytes: %w", length, len(data)-n, ErrMalformed)
	}
	end := n + int(length)
	return string(data[n:end]), end, nil
}
