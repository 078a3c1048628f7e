package ble

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cornelk/hashmap"
	blelib "github.com/go-ble/ble"
	"github.com/sirupsen/logrus"
)

// DeviceFactory creates the platform BLE adapter handle. It is a
// variable so tests can substitute a fake transport.
var DeviceFactory = func() (blelib.Device, error) {
	dev, err := newPlatformDevice()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoAdapter, err)
	}
	return dev, nil
}

// Connect discovers the peripheral advertising displayName and returns a
// handle with a fully populated characteristic catalog.
//
// The sequence, each step a possible failure point: obtain the adapter
// (ErrNoAdapter), scan up to scanTimeout for a matching advertisement
// stopping early on a hit (ErrDeviceNotFound when the window elapses),
// dial the matched address (ErrConnectFailed), and discover the GATT
// profile (ErrDiscoveryFailed). The transport exposes no catalog of
// already-visible peripherals, so the pre-scan lookup the sequence would
// otherwise start with is folded into the scan window itself.
func Connect(ctx context.Context, displayName string, scanTimeout time.Duration, logger *logrus.Logger) (Peripheral, error) {
	dev, err := DeviceFactory()
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"name":     displayName,
		"duration": scanTimeout,
	}).Info("Scanning for peripheral...")

	addr, err := findPeripheral(ctx, dev, displayName, scanTimeout, logger)
	if err != nil {
		return nil, err
	}

	logger.WithField("address", addr.String()).Info("Connecting to peripheral...")
	client, err := dev.Dial(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrConnectFailed, displayName, err)
	}

	profile, err := client.DiscoverProfile(true)
	if err != nil {
		_ = client.CancelConnection()
		return nil, fmt.Errorf("%w: %v", ErrDiscoveryFailed, err)
	}

	p := newPeripheral(client, profile, displayName, logger)
	logger.WithFields(logrus.Fields{
		"address":  p.Address(),
		"services": len(p.services),
	}).Info("Peripheral connected")
	return p, nil
}

// findPeripheral scans for an advertisement whose local name equals
// displayName. The advertisement handler runs on the transport's
// callback goroutine, so discovered peripherals are tracked in a
// concurrent map.
func findPeripheral(ctx context.Context, dev blelib.Device, displayName string, scanTimeout time.Duration, logger *logrus.Logger) (blelib.Addr, error) {
	scanCtx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	seen := hashmap.New[string, string]()
	matched := make(chan blelib.Addr, 1)

	handler := func(adv blelib.Advertisement) {
		addr := adv.Addr().String()
		if _, ok := seen.Get(addr); !ok {
			seen.Insert(addr, adv.LocalName())
			logger.WithFields(logrus.Fields{
				"address": addr,
				"name":    adv.LocalName(),
				"rssi":    adv.RSSI(),
			}).Debug("Discovered peripheral")
		}
		if adv.LocalName() == displayName {
			select {
			case matched <- adv.Addr():
				cancel()
			default:
			}
		}
	}

	err := dev.Scan(scanCtx, false, handler)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	select {
	case addr := <-matched:
		return addr, nil
	default:
		logger.WithField("seen", seen.Len()).Warn("Peripheral did not appear during scan")
		return nil, fmt.Errorf("%w: %q", ErrDeviceNotFound, displayName)
	}
}
