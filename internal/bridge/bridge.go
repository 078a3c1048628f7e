// Package bridge orchestrates attribute requests against the connected
// peripheral: it resolves characteristic short identifiers, performs the
// BLE operation, and maps every failure to one of the four externally
// visible outcomes. It also houses the connection supervisor.
package bridge

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/gattbridge/gattbridge/internal/ble"
)

// ErrTransportFailure indicates a BLE read or write that the device or
// transport refused. Reported per-request; never fatal by itself.
var ErrTransportFailure = errors.New("transport failure")

// Bridge performs raw reads and writes against the target service. The
// peripheral and service handles are shared read-mostly with every
// concurrent request; serialization of device access is delegated to
// the transport.
type Bridge struct {
	peripheral ble.Peripheral
	service    ble.Service
	logger     *logrus.Logger
}

// New creates a Bridge over the service obtained once at startup.
func New(peripheral ble.Peripheral, service ble.Service, logger *logrus.Logger) *Bridge {
	return &Bridge{
		peripheral: peripheral,
		service:    service,
		logger:     logger,
	}
}

// Read resolves the characteristic addressed by shortID and returns its
// raw bytes. Lookup misses propagate as ErrCharacteristicNotFound;
// transport failures are wrapped as ErrTransportFailure.
func (b *Bridge) Read(shortID uint16) ([]byte, error) {
	char, err := b.resolve(shortID)
	if err != nil {
		return nil, err
	}

	data, err := char.Read()
	if err != nil {
		b.logger.WithFields(logrus.Fields{
			"short_id": fmt.Sprintf("0x%04x", shortID),
			"error":    err,
		}).Error("Characteristic read failed")
		return nil, fmt.Errorf("%w: read failed: %v", ErrTransportFailure, err)
	}

	b.logger.WithFields(logrus.Fields{
		"short_id": fmt.Sprintf("0x%04x", shortID),
		"bytes":    len(data),
	}).Debug("Characteristic read")
	return data, nil
}

// Write resolves the characteristic addressed by shortID and writes the
// given bytes. Callers must run codec validation first; no device write
// happens once any upstream check has failed.
func (b *Bridge) Write(shortID uint16, data []byte) error {
	char, err := b.resolve(shortID)
	if err != nil {
		return err
	}

	if err := char.Write(data); err != nil {
		b.logger.WithFields(logrus.Fields{
			"short_id": fmt.Sprintf("0x%04x", shortID),
			"error":    err,
		}).Error("Characteristic write failed")
		return fmt.Errorf("%w: write failed: %v", ErrTransportFailure, err)
	}

	b.logger.WithFields(logrus.Fields{
		"short_id": fmt.Sprintf("0x%04x", shortID),
		"bytes":    len(data),
	}).Debug("Characteristic written")
	return nil
}

// resolve expands the short identifier into the full characteristic
// UUID and looks it up in the target service.
func (b *Bridge) resolve(shortID uint16) (ble.Characteristic, error) {
	char, err := b.service.Characteristic(ble.UUID16(shortID))
	if err != nil {
		b.logger.WithField("short_id", fmt.Sprintf("0x%04x", shortID)).Error("Characteristic not found")
		return nil, err
	}
	return char, nil
}
