package source

import (
	"encoding/binary"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/coca/internal/events"
)

func TestTranslate_Buttons(t *testing.T) {
	ev, ok := translate(evKey, btnSouth, 1, nil)
	require.True(t, ok)
	assert.Equal(t, events.ButtonPressed(events.ButtonSouth, btnSouth), ev)

	ev, ok = translate(evKey, btnStart, 0, nil)
	require.True(t, ok)
	assert.Equal(t, events.KindButtonReleased, ev.Kind)
	assert.Equal(t, events.ButtonStart, ev.Button)

	// key repeat
	_, ok = translate(evKey, btnSouth, 2, nil)
	assert.False(t, ok)

	// keyboard key outside the joystick ranges
	_, ok = translate(evKey, 30, 1, nil)
	assert.False(t, ok)

	// unmapped joystick button keeps its code
	ev, ok = translate(evKey, 0x12a, 1, nil)
	require.True(t, ok)
	assert.Equal(t, events.ButtonUnknown, ev.Button)
	assert.Equal(t, events.Code(0x12a), ev.Code)
}

func TestTranslate_Axes(t *testing.T) {
	ranges := map[uint16]absRange{
		absX:  {Min: -32768, Max: 32767},
		absY:  {Min: -32768, Max: 32767},
		absRZ: {Min: 0, Max: 1023},
	}

	ev, ok := translate(evAbs, absX, 32767, ranges)
	require.True(t, ok)
	assert.Equal(t, events.KindAxisChanged, ev.Kind)
	assert.Equal(t, events.AxisLeftStickX, ev.Axis)
	assert.InDelta(t, 1.0, ev.Value, 1e-6)

	ev, ok = translate(evAbs, absX, -32768, ranges)
	require.True(t, ok)
	assert.InDelta(t, -1.0, ev.Value, 1e-6)

	// Y is inverted so that up is positive.
	ev, ok = translate(evAbs, absY, -32768, ranges)
	require.True(t, ok)
	assert.Equal(t, events.AxisLeftStickY, ev.Axis)
	assert.InDelta(t, 1.0, ev.Value, 1e-6)

	// Analog triggers are reported as buttons in [0, 1].
	ev, ok = translate(evAbs, absRZ, 1023, ranges)
	require.True(t, ok)
	assert.Equal(t, events.KindButtonChanged, ev.Kind)
	assert.Equal(t, events.ButtonRightTrigger2, ev.Button)
	assert.InDelta(t, 1.0, ev.Value, 1e-6)

	ev, ok = translate(evAbs, absRZ, 0, ranges)
	require.True(t, ok)
	assert.InDelta(t, 0.0, ev.Value, 1e-6)

	// Hat without a reported range.
	ev, ok = translate(evAbs, absHat0X, -1, nil)
	require.True(t, ok)
	assert.Equal(t, events.AxisDPadX, ev.Axis)
	assert.InDelta(t, -1.0, ev.Value, 1e-6)

	_, ok = translate(evAbs, 0x28, 5, ranges)
	assert.False(t, ok)

	_, ok = translate(evSyn, 0, 0, ranges)
	assert.False(t, ok)
}

func TestAbsRange_Normalize(t *testing.T) {
	r := absRange{Min: 0, Max: 255}
	assert.InDelta(t, -1.0, r.normalize(-20, false), 1e-6, "clamped below")
	assert.InDelta(t, 1.0, r.normalize(400, false), 1e-6, "clamped above")
	assert.InDelta(t, 0.2, r.normalize(51, true), 1e-6)

	assert.Equal(t, float32(0), absRange{Min: 5, Max: 5}.normalize(5, false))
}

func TestParseJoysticks(t *testing.T) {
	const devices = `I: Bus=0011 Vendor=0001 Product=0001 Version=ab41
N: Name="AT Translated Set 2 keyboard"
H: Handlers=sysrq kbd event3 leds
B: KEY=402000000 3803078f800d001

I: Bus=0003 Vendor=045e Product=028e Version=0114
N: Name="Microsoft X-Box 360 pad"
H: Handlers=event17 js0
B: KEY=7cdb000000000000 0

I: Bus=0005 Vendor=054c Product=09cc Version=8100
N: Name="Wireless Controller"
H: Handlers=js1 event21`

	got := parseJoysticks(strings.NewReader(devices))
	require.Len(t, got, 2)
	assert.Equal(t, deviceInfo{Name: "Microsoft X-Box 360 pad", Path: "/dev/input/event17"}, got[0])
	assert.Equal(t, deviceInfo{Name: "Wireless Controller", Path: "/dev/input/event21"}, got[1])
}

func TestDecodeRawEvent(t *testing.T) {
	b := make([]byte, 24)
	binary.NativeEndian.PutUint64(b[0:8], 1700000000)
	binary.NativeEndian.PutUint64(b[8:16], 250000)
	binary.NativeEndian.PutUint16(b[16:18], evAbs)
	binary.NativeEndian.PutUint16(b[18:20], absRY)
	binary.NativeEndian.PutUint32(b[20:24], uint32(0xfffffff6)) // -10

	ev := decodeRawEvent(b, 16)
	assert.Equal(t, int64(1700000000), ev.Sec)
	assert.Equal(t, int64(250000), ev.Usec)
	assert.Equal(t, uint16(evAbs), ev.Type)
	assert.Equal(t, uint16(absRY), ev.Code)
	assert.Equal(t, int32(-10), ev.Value)

	small := make([]byte, 16)
	binary.NativeEndian.PutUint32(small[0:4], 42)
	binary.NativeEndian.PutUint16(small[8:10], evKey)
	binary.NativeEndian.PutUint16(small[10:12], btnWest)
	binary.NativeEndian.PutUint32(small[12:16], 1)
	ev = decodeRawEvent(small, 8)
	assert.Equal(t, int64(42), ev.Sec)
	assert.Equal(t, uint16(btnWest), ev.Code)
	assert.Equal(t, int32(1), ev.Value)
}

func TestScripted_ReplaysInOrder(t *testing.T) {
	at := time.Unix(1000, 0)
	src := NewScripted(
		Sample{Device: "pad", Event: events.Connected(), At: at},
		Sample{Device: "pad", Event: events.ButtonPressed(events.ButtonSouth, 1)},
	)

	s, ok, err := src.Next(time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, events.KindConnected, s.Event.Kind)
	assert.Equal(t, at, s.At)

	s, ok, err = src.Next(time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, s.At.IsZero(), "missing timestamps are filled in")

	// Idle: times out without error.
	_, ok, err = src.Next(10 * time.Millisecond)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, src.Remaining())
}

func TestScripted_PushWakesWaiter(t *testing.T) {
	src := NewScripted()

	go func() {
		time.Sleep(20 * time.Millisecond)
		src.Push(Sample{Device: "pad", Event: events.Disconnected()})
	}()

	s, ok, err := src.Next(5 * time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, events.KindDisconnected, s.Event.Kind)
}

func TestScripted_CloseAndDrain(t *testing.T) {
	src := NewScripted(Sample{Device: "pad", Event: events.Connected()})
	src.CloseWhenDrained()

	_, ok, err := src.Next(time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	_, _, err = src.Next(time.Second)
	assert.True(t, errors.Is(err, ErrSourceClosed))

	other := NewScripted(Sample{Device: "pad"})
	require.NoError(t, other.Close())
	_, _, err = other.Next(time.Second)
	assert.ErrorIs(t, err, ErrSourceClosed)
}
