package source

import (
	"bufio"
	"encoding/binary"
	"io"
	"strings"

	"github.com/blackwell-systems/coca/internal/events"
)

// Linux input event types and codes handled by the evdev source.
const (
	evSyn = 0x00
	evKey = 0x01
	evAbs = 0x03

	synDropped = 0x03

	btnSouth   = 0x130
	btnEast    = 0x131
	btnC       = 0x132
	btnNorth   = 0x133
	btnWest    = 0x134
	btnZ       = 0x135
	btnTL      = 0x136
	btnTR      = 0x137
	btnTL2     = 0x138
	btnTR2     = 0x139
	btnSelect  = 0x13a
	btnStart   = 0x13b
	btnMode    = 0x13c
	btnThumbL  = 0x13d
	btnThumbR  = 0x13e
	btnDPadUp  = 0x220
	btnDPadDn  = 0x221
	btnDPadLt  = 0x222
	btnDPadRt  = 0x223
	btnJoyLow  = 0x120
	btnJoyHigh = 0x13f

	absX     = 0x00
	absY     = 0x01
	absZ     = 0x02
	absRX    = 0x03
	absRY    = 0x04
	absRZ    = 0x05
	absHat0X = 0x10
	absHat0Y = 0x11
)

var buttonCodes = map[uint16]events.Button{
	btnSouth:  events.ButtonSouth,
	btnEast:   events.ButtonEast,
	btnC:      events.ButtonC,
	btnNorth:  events.ButtonNorth,
	btnWest:   events.ButtonWest,
	btnZ:      events.ButtonZ,
	btnTL:     events.ButtonLeftTrigger,
	btnTR:     events.ButtonRightTrigger,
	btnTL2:    events.ButtonLeftTrigger2,
	btnTR2:    events.ButtonRightTrigger2,
	btnSelect: events.ButtonSelect,
	btnStart:  events.ButtonStart,
	btnMode:   events.ButtonMode,
	btnThumbL: events.ButtonLeftThumb,
	btnThumbR: events.ButtonRightThumb,
	btnDPadUp: events.ButtonDPadUp,
	btnDPadDn: events.ButtonDPadDown,
	btnDPadLt: events.ButtonDPadLeft,
	btnDPadRt: events.ButtonDPadRight,
}

type axisMapping struct {
	axis    events.Axis
	button  events.Button // set for analog triggers, reported as ButtonChanged
	invert  bool
	oneSide bool
}

var axisCodes = map[uint16]axisMapping{
	absX:     {axis: events.AxisLeftStickX},
	absY:     {axis: events.AxisLeftStickY, invert: true},
	absZ:     {button: events.ButtonLeftTrigger2, oneSide: true},
	absRX:    {axis: events.AxisRightStickX},
	absRY:    {axis: events.AxisRightStickY, invert: true},
	absRZ:    {button: events.ButtonRightTrigger2, oneSide: true},
	absHat0X: {axis: events.AxisDPadX},
	absHat0Y: {axis: events.AxisDPadY, invert: true},
}

// absRange is the reported range of an absolute axis.
type absRange struct {
	Min, Max int32
}

// normalize maps v into [-1, 1], or [0, 1] for one-sided controls.
func (r absRange) normalize(v int32, oneSide bool) float32 {
	if r.Max <= r.Min {
		return 0
	}
	if v < r.Min {
		v = r.Min
	}
	if v > r.Max {
		v = r.Max
	}
	f := float64(v-r.Min) / float64(r.Max-r.Min)
	if oneSide {
		return float32(f)
	}
	return float32(f*2 - 1)
}

// translate converts one raw input_event into a coca event. ok is false for
// events that carry nothing worth recording (sync frames, key repeats,
// codes outside the gamepad ranges).
func translate(typ, code uint16, value int32, ranges map[uint16]absRange) (ev events.Event, ok bool) {
	switch typ {
	case evKey:
		b, known := buttonCodes[code]
		if !known && (code < btnJoyLow || code > btnJoyHigh) {
			return events.Event{}, false
		}
		switch value {
		case 1:
			return events.ButtonPressed(b, events.Code(code)), true
		case 0:
			return events.ButtonReleased(b, events.Code(code)), true
		}
		return events.Event{}, false

	case evAbs:
		m, known := axisCodes[code]
		if !known {
			return events.Event{}, false
		}
		r, have := ranges[code]
		if !have {
			r = absRange{Min: -1, Max: 1}
			if m.oneSide {
				r = absRange{Min: 0, Max: 255}
			}
		}
		v := r.normalize(value, m.oneSide)
		if m.invert && v != 0 {
			v = -v
		}
		if m.button != events.ButtonUnknown {
			return events.ButtonChanged(m.button, v, events.Code(code)), true
		}
		return events.AxisChanged(m.axis, v, events.Code(code)), true
	}
	return events.Event{}, false
}

// deviceInfo is one joystick entry of /proc/bus/input/devices.
type deviceInfo struct {
	Name string
	Path string
}

// parseJoysticks lists the evdev nodes of devices whose handlers include a
// js* joystick interface.
func parseJoysticks(r io.Reader) []deviceInfo {
	var (
		found   []deviceInfo
		name    string
		node    string
		isStick bool
	)

	flush := func() {
		if isStick && node != "" {
			found = append(found, deviceInfo{Name: name, Path: "/dev/input/" + node})
		}
		name, node, isStick = "", "", false
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "N: Name="):
			name = strings.Trim(strings.TrimPrefix(line, "N: Name="), `"`)
		case strings.HasPrefix(line, "H: Handlers="):
			for _, h := range strings.Fields(strings.TrimPrefix(line, "H: Handlers=")) {
				if strings.HasPrefix(h, "event") {
					node = h
				}
				if strings.HasPrefix(h, "js") {
					isStick = true
				}
			}
		}
	}
	flush()
	return found
}

// rawEvent is a decoded struct input_event.
type rawEvent struct {
	Sec, Usec int64
	Type      uint16
	Code      uint16
	Value     int32
}

// decodeRawEvent decodes one input_event in host byte order. timevalSize is
// 16 on 64-bit kernels and 8 on 32-bit ones.
func decodeRawEvent(b []byte, timevalSize int) rawEvent {
	half := timevalSize / 2
	var ev rawEvent
	if half == 8 {
		ev.Sec = int64(binary.NativeEndian.Uint64(b[0:8]))
		ev.Usec = int64(binary.NativeEndian.Uint64(b[8:16]))
	} else {
		ev.Sec = int64(int32(binary.NativeEndian.Uint32(b[0:4])))
		ev.Usec = int64(int32(binary.NativeEndian.Uint32(b[4:8])))
	}
	ev.Type = binary.NativeEndian.Uint16(b[timevalSize : timevalSize+2])
	ev.Code = binary.NativeEndian.Uint16(b[timevalSize+2 : timevalSize+4])
	ev.Value = int32(binary.NativeEndian.Uint32(b[timevalSize+4 : timevalSize+8]))
	return ev
}
