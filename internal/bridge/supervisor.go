package bridge

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gattbridge/gattbridge/internal/ble"
)

// ErrDisconnected indicates the supervisor observed the peripheral
// gone. Fatal for the whole process: the operator restarts the service
// to re-run the connect sequence; no in-process reconnection exists.
var ErrDisconnected = errors.New("peripheral disconnected")

// Supervisor polls peripheral connectivity in the background and fails
// fast when the device disappears.
type Supervisor struct {
	peripheral ble.Peripheral
	interval   time.Duration
	logger     *logrus.Logger
}

// NewSupervisor creates a supervisor polling at the given interval.
func NewSupervisor(peripheral ble.Peripheral, interval time.Duration, logger *logrus.Logger) *Supervisor {
	return &Supervisor{
		peripheral: peripheral,
		interval:   interval,
		logger:     logger,
	}
}

// Run loops until the context is canceled or the peripheral drops,
// returning ErrDisconnected in the latter case.
func (s *Supervisor) Run(ctx context.Context) error {
	s.logger.WithField("interval", s.interval).Info("Connection supervisor started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Connection supervisor stopped")
			return ctx.Err()
		case <-ticker.C:
			if !s.peripheral.Connected() {
				s.logger.WithField("address", s.peripheral.Address()).Error("Peripheral connection lost")
				return ErrDisconnected
			}
			s.logger.Debug("Peripheral still connected")
		}
	}
}
