//go:build darwin

package ble

import (
	"fmt"
	"strings"

	blelib "github.com/go-ble/ble"
	"github.com/go-ble/ble/darwin"
)

// newPlatformDevice opens the CoreBluetooth central manager.
func newPlatformDevice() (blelib.Device, error) {
	dev, err := darwin.NewDevice()
	if err != nil {
		// Wrap Bluetooth state errors with clearer messages
		if strings.Contains(err.Error(), "central manager has invalid state") {
			if strings.Contains(err.Error(), "have=4") { // StatePoweredOff
				return nil, fmt.Errorf("bluetooth is turned off - please enable Bluetooth and retry")
			}
			return nil, fmt.Errorf("bluetooth is not ready - %w", err)
		}
		return nil, err
	}
	return dev, nil
}
