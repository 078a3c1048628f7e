// Package ble connects to the bridged peripheral and exposes its GATT
// service and characteristics behind small interfaces. The go-ble backed
// implementation lives in peripheral.go; everything above this package
// works against the interfaces so tests can substitute fakes.
package ble

import (
	"errors"
	"fmt"
)

// NotFoundError reports a lookup miss for a GATT resource.
type NotFoundError struct {
	Resource string // "service" or "characteristic"
	UUID     string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.UUID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.UUID)
}

// Is allows errors.Is to compare NotFoundError values by Resource
func (e *NotFoundError) Is(target error) bool {
	if e == nil {
		return false
	}
	t, ok := target.(*NotFoundError)
	if !ok {
		return false
	}
	return e.Resource == t.Resource
}

// Predefined sentinel errors for lookup misses
var (
	ErrServiceNotFound        = &NotFoundError{Resource: "service"}
	ErrCharacteristicNotFound = &NotFoundError{Resource: "characteristic"}
)

// Connect-sequence errors
var (
	ErrNoAdapter       = errors.New("no bluetooth adapter available")
	ErrDeviceNotFound  = errors.New("device not found")
	ErrConnectFailed   = errors.New("connect failed")
	ErrDiscoveryFailed = errors.New("service discovery failed")
)

// Peripheral is a handle to the connected device. It is created once by
// Connect and shared read-mostly by every request handler and the
// connection supervisor for the lifetime of the process.
type Peripheral interface {
	// Name returns the advertised name the peripheral was matched on.
	Name() string

	// Address returns the platform-specific peripheral address.
	Address() string

	// Connected reports whether the underlying link is still up.
	Connected() bool

	// Service returns the discovered service with the given 128-bit UUID.
	// Returns ErrServiceNotFound if the peripheral does not expose it.
	Service(uuid string) (Service, error)

	// Services returns every discovered service.
	Services() []Service

	// Disconnect tears down the link.
	Disconnect() error
}

// Service is a discovered GATT service. Immutable after discovery.
type Service interface {
	UUID() string

	// Characteristic resolves a characteristic by UUID (any accepted
	// form, see NormalizeUUID). Returns ErrCharacteristicNotFound on a
	// lookup miss.
	Characteristic(uuid string) (Characteristic, error)

	Characteristics() []Characteristic
}

// Characteristic is a single addressable value slot within a service.
type Characteristic interface {
	UUID() string

	// Read retrieves the current raw value from the device. Blocks until
	// the transport answers.
	Read() ([]byte, error)

	// Write sends raw bytes to the device, using write-without-response
	// when that is the only write mode the characteristic supports.
	Write(data []byte) error
}
