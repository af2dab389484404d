// Package events defines the input events recorded by coca and the binary
// encoding of the records persisted in the time-series store.
package events

import (
	"fmt"
	"strings"
)

// Kind identifies the variant of an Event.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindButtonPressed
	KindButtonReleased
	KindButtonChanged
	KindAxisChanged
	KindConnected
	KindDisconnected
)

var kindNames = map[Kind]string{
	KindUnknown:        "Unknown",
	KindButtonPressed:  "ButtonPressed",
	KindButtonReleased: "ButtonReleased",
	KindButtonChanged:  "ButtonChanged",
	KindAxisChanged:    "AxisChanged",
	KindConnected:      "Connected",
	KindDisconnected:   "Disconnected",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Button is a gamepad button in the standard layout.
type Button uint8

const (
	ButtonUnknown Button = iota
	ButtonSouth
	ButtonEast
	ButtonNorth
	ButtonWest
	ButtonC
	ButtonZ
	ButtonLeftTrigger
	ButtonLeftTrigger2
	ButtonRightTrigger
	ButtonRightTrigger2
	ButtonSelect
	ButtonStart
	ButtonMode
	ButtonLeftThumb
	ButtonRightThumb
	ButtonDPadUp
	ButtonDPadDown
	ButtonDPadLeft
	ButtonDPadRight
)

var buttonNames = []string{
	ButtonUnknown:       "Unknown",
	ButtonSouth:         "South",
	ButtonEast:          "East",
	ButtonNorth:         "North",
	ButtonWest:          "West",
	ButtonC:             "C",
	ButtonZ:             "Z",
	ButtonLeftTrigger:   "LeftTrigger",
	ButtonLeftTrigger2:  "LeftTrigger2",
	ButtonRightTrigger:  "RightTrigger",
	ButtonRightTrigger2: "RightTrigger2",
	ButtonSelect:        "Select",
	ButtonStart:         "Start",
	ButtonMode:          "Mode",
	ButtonLeftThumb:     "LeftThumb",
	ButtonRightThumb:    "RightThumb",
	ButtonDPadUp:        "DPadUp",
	ButtonDPadDown:      "DPadDown",
	ButtonDPadLeft:      "DPadLeft",
	ButtonDPadRight:     "DPadRight",
}

func (b Button) String() string {
	if int(b) < len(buttonNames) {
		return buttonNames[b]
	}
	return fmt.Sprintf("Button(%d)", uint8(b))
}

// ParseButton resolves a button name case-insensitively.
func ParseButton(name string) (Button, bool) {
	for i, n := range buttonNames {
		if strings.EqualFold(n, name) {
			return Button(i), true
		}
	}
	return ButtonUnknown, false
}

// Axis is an analog control in the standard layout.
type Axis uint8

const (
	AxisUnknown Axis = iota
	AxisLeftStickX
	AxisLeftStickY
	AxisLeftZ
	AxisRightStickX
	AxisRightStickY
	AxisRightZ
	AxisDPadX
	AxisDPadY
)

var axisNames = []string{
	AxisUnknown:     "Unknown",
	AxisLeftStickX:  "LeftStickX",
	AxisLeftStickY:  "LeftStickY",
	AxisLeftZ:       "LeftZ",
	AxisRightStickX: "RightStickX",
	AxisRightStickY: "RightStickY",
	AxisRightZ:      "RightZ",
	AxisDPadX:       "DPadX",
	AxisDPadY:       "DPadY",
}

func (a Axis) String() string {
	if int(a) < len(axisNames) {
		return axisNames[a]
	}
	return fmt.Sprintf("Axis(%d)", uint8(a))
}

// ParseAxis resolves an axis name case-insensitively.
func ParseAxis(name string) (Axis, bool) {
	for i, n := range axisNames {
		if strings.EqualFold(n, name) {
			return Axis(i), true
		}
	}
	return AxisUnknown, false
}

// Code is the raw device-specific code that produced an event. It is kept
// for reference and never interpreted by the capture or query paths.
type Code uint32

// Event is a tagged variant over the input events a device can produce.
// Button is meaningful for the button kinds, Axis for KindAxisChanged and
// Value for KindButtonChanged and KindAxisChanged.
type Event struct {
	Kind   Kind
	Button Button
	Axis   Axis
	Value  float32
	Code   Code
}

func ButtonPressed(b Button, code Code) Event {
	return Event{Kind: KindButtonPressed, Button: b, Code: code}
}

func ButtonReleased(b Button, code Code) Event {
	return Event{Kind: KindButtonReleased, Button: b, Code: code}
}

// ButtonChanged reports an analog button (trigger) position in [0, 1].
func ButtonChanged(b Button, value float32, code Code) Event {
	return Event{Kind: KindButtonChanged, Button: b, Value: value, Code: code}
}

// AxisChanged reports an axis position in [-1, 1], or [0, 1] for one-sided axes.
func AxisChanged(a Axis, value float32, code Code) Event {
	return Event{Kind: KindAxisChanged, Axis: a, Value: value, Code: code}
}

func Connected() Event { return Event{Kind: KindConnected} }

func Disconnected() Event { return Event{Kind: KindDisconnected} }

// IsStateChange reports whether the event carries an analog value subject
// to the precision filter.
func (e Event) IsStateChange() bool {
	return e.Kind == KindButtonChanged || e.Kind == KindAxisChanged
}

func (e Event) String() string {
	switch e.Kind {
	case KindButtonPressed, KindButtonReleased:
		return fmt.Sprintf("%s(%s)", e.Kind, e.Button)
	case KindButtonChanged:
		return fmt.Sprintf("%s(%s, %.4f)", e.Kind, e.Button, e.Value)
	case KindAxisChanged:
		return fmt.Sprintf("%s(%s, %.4f)", e.Kind, e.Axis, e.Value)
	default:
		return e.Kind.String()
	}
}
