//go:build !linux

package source

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/blackwell-systems/coca/internal/events"
)

// Open reports that no device driver is available on this platform.
func Open(logger *zap.Logger) (Source, error) {
	return nil, fmt.Errorf("%w: no input driver for %s", events.ErrDriverUnavailable, runtime.GOOS)
}
