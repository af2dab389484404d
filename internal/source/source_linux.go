//go:build linux

package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unsafe"

	"github.com/pilebones/go-udev/netlink"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/blackwell-systems/coca/internal/events"
)

const (
	devicesFile    = "/proc/bus/input/devices"
	hotplugRetries = 5
	hotplugDelay   = 200 * time.Millisecond
)

// ioctl request encoding (Linux _IOC macro)
const (
	iocNRShift   = 0
	iocTypeShift = 8
	iocSizeShift = 16
	iocDirShift  = 30
	iocRead      = 2
)

type absInfo struct {
	Value      int32
	Min        int32
	Max        int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

func ioc(dir, typ, nr, size uint32) uintptr {
	return uintptr(dir<<iocDirShift | typ<<iocTypeShift | nr<<iocNRShift | size<<iocSizeShift)
}

func deviceName(fd int) (string, error) {
	buf := make([]byte, 256)
	req := ioc(iocRead, 'E', 0x06, uint32(len(buf)))
	n, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(unsafe.Pointer(&buf[0])))
	if errno != 0 {
		return "", errno
	}
	return strings.TrimRight(string(buf[:n]), "\x00"), nil
}

func axisRange(fd int, code uint16) (absRange, error) {
	var info absInfo
	req := ioc(iocRead, 'E', uint32(0x40+code), uint32(unsafe.Sizeof(info)))
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(unsafe.Pointer(&info)))
	if errno != 0 {
		return absRange{}, errno
	}
	return absRange{Min: info.Min, Max: info.Max}, nil
}

type evdevDevice struct {
	info   deviceInfo
	f      *os.File
	ranges map[uint16]absRange
}

// Evdev reads gamepads through the Linux evdev interface and opens devices
// plugged in later via udev netlink events.
type Evdev struct {
	logger  *zap.Logger
	samples chan Sample
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup

	mu      sync.Mutex
	devices map[string]*evdevDevice

	udevQuit chan struct{}
	udevConn *netlink.UEventConn
}

// Open discovers joystick devices and starts reading them. It fails with
// events.ErrDriverUnavailable when no device can be read and hotplug
// monitoring cannot start either.
func Open(logger *zap.Logger) (Source, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Evdev{
		logger:  logger,
		samples: make(chan Sample, 256),
		done:    make(chan struct{}),
		devices: make(map[string]*evdevDevice),
	}

	opened, scanErr := s.rescan()
	hotplugErr := s.startHotplug()

	if opened == 0 && hotplugErr != nil {
		s.Close()
		return nil, fmt.Errorf("%w: no readable joystick (%v) and hotplug unavailable: %v",
			events.ErrDriverUnavailable, scanErr, hotplugErr)
	}
	if hotplugErr != nil {
		logger.Warn("device hotplug unavailable; only devices present at startup are recorded", zap.Error(hotplugErr))
	}
	if opened == 0 {
		logger.Info("no joystick connected; waiting for hotplug")
	}
	return s, nil
}

// rescan opens every listed joystick not already open.
func (s *Evdev) rescan() (int, error) {
	f, err := os.Open(devicesFile)
	if err != nil {
		return 0, err
	}
	infos := parseJoysticks(f)
	f.Close()

	opened := 0
	var lastErr error
	for _, info := range infos {
		if err := s.openDevice(info); err != nil {
			s.logger.Debug("cannot open joystick", zap.String("device", info.Path), zap.Error(err))
			lastErr = err
			continue
		}
		opened++
	}
	if opened == 0 && lastErr == nil && len(infos) == 0 {
		lastErr = errors.New("no joystick listed in " + devicesFile)
	}
	return opened, lastErr
}

func (s *Evdev) openDevice(info deviceInfo) error {
	s.mu.Lock()
	if _, ok := s.devices[info.Path]; ok {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	f, err := os.OpenFile(info.Path, os.O_RDONLY, 0)
	if err != nil {
		return err
	}

	fd := int(f.Fd())
	if name, err := deviceName(fd); err == nil && name != "" {
		info.Name = name
	}
	if info.Name == "" {
		info.Name = filepath.Base(info.Path)
	}

	dev := &evdevDevice{info: info, f: f, ranges: make(map[uint16]absRange)}
	for code := range axisCodes {
		if r, err := axisRange(fd, code); err == nil {
			dev.ranges[code] = r
		}
	}

	s.mu.Lock()
	if _, ok := s.devices[info.Path]; ok {
		s.mu.Unlock()
		f.Close()
		return nil
	}
	select {
	case <-s.done:
		s.mu.Unlock()
		f.Close()
		return ErrSourceClosed
	default:
	}
	s.devices[info.Path] = dev
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.Info("joystick connected", zap.String("device", info.Path), zap.String("name", info.Name))
	s.emit(Sample{Device: info.Path, Label: info.Name, Event: events.Connected(), At: time.Now()})

	go s.readLoop(dev)
	return nil
}

func (s *Evdev) readLoop(dev *evdevDevice) {
	defer s.wg.Done()

	tvSize := int(unsafe.Sizeof(unix.Timeval{}))
	size := tvSize + 8
	buf := make([]byte, size*64)

	for {
		n, err := dev.f.Read(buf)
		if err != nil {
			s.dropDevice(dev, err)
			return
		}
		for off := 0; off+size <= n; off += size {
			raw := decodeRawEvent(buf[off:off+size], tvSize)
			if raw.Type == evSyn && raw.Code == synDropped {
				s.logger.Debug("kernel dropped input events", zap.String("device", dev.info.Path))
				continue
			}
			ev, ok := translate(raw.Type, raw.Code, raw.Value, dev.ranges)
			if !ok {
				continue
			}
			s.emit(Sample{
				Device: dev.info.Path,
				Label:  dev.info.Name,
				Event:  ev,
				At:     time.Unix(raw.Sec, raw.Usec*int64(time.Microsecond)),
			})
		}
	}
}

func (s *Evdev) dropDevice(dev *evdevDevice, cause error) {
	s.mu.Lock()
	delete(s.devices, dev.info.Path)
	s.mu.Unlock()
	dev.f.Close()

	select {
	case <-s.done:
		return
	default:
	}
	s.logger.Info("joystick disconnected", zap.String("device", dev.info.Path), zap.Error(cause))
	s.emit(Sample{Device: dev.info.Path, Label: dev.info.Name, Event: events.Disconnected(), At: time.Now()})
}

func (s *Evdev) emit(sample Sample) {
	select {
	case s.samples <- sample:
	case <-s.done:
	}
}

func (s *Evdev) startHotplug() error {
	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		return err
	}

	queue := make(chan netlink.UEvent)
	errs := make(chan error)
	quit := conn.Monitor(queue, errs, nil)
	s.udevConn = conn
	s.udevQuit = quit

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-s.done:
				return
			case err := <-errs:
				s.logger.Debug("udev monitor error", zap.Error(err))
			case uevent := <-queue:
				if uevent.Action != "add" || uevent.Env["SUBSYSTEM"] != "input" {
					continue
				}
				if !strings.HasPrefix(filepath.Base(uevent.Env["DEVNAME"]), "event") {
					continue
				}
				s.wg.Add(1)
				go s.awaitDevice()
			}
		}
	}()
	return nil
}

// awaitDevice rescans until a new node becomes readable; udev applies
// permissions shortly after the add event.
func (s *Evdev) awaitDevice() {
	defer s.wg.Done()
	for i := 0; i < hotplugRetries; i++ {
		select {
		case <-s.done:
			return
		case <-time.After(hotplugDelay):
		}
		if n, _ := s.rescan(); n > 0 {
			return
		}
	}
}

func (s *Evdev) Next(timeout time.Duration) (Sample, bool, error) {
	select {
	case <-s.done:
		return Sample{}, false, ErrSourceClosed
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case sample := <-s.samples:
		return sample, true, nil
	case <-s.done:
		return Sample{}, false, ErrSourceClosed
	case <-timer.C:
		return Sample{}, false, nil
	}
}

func (s *Evdev) Close() error {
	s.once.Do(func() {
		s.mu.Lock()
		close(s.done)
		s.mu.Unlock()
		if s.udevQuit != nil {
			close(s.udevQuit)
		}
		if s.udevConn != nil {
			s.udevConn.Close()
		}

		s.mu.Lock()
		for _, dev := range s.devices {
			dev.f.Close()
		}
		s.mu.Unlock()

		s.wg.Wait()
	})
	return nil
}
