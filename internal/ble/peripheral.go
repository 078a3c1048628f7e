package ble

import (
	"fmt"
	"sort"

	blelib "github.com/go-ble/ble"
	"github.com/sirupsen/logrus"
)

// blePeripheral is the go-ble backed Peripheral. The characteristic
// catalog is populated once from the discovered profile and never
// mutated afterward, so lookups need no locking.
type blePeripheral struct {
	client   blelib.Client
	name     string
	logger   *logrus.Logger
	services map[string]*bleService
}

func newPeripheral(client blelib.Client, profile *blelib.Profile, name string, logger *logrus.Logger) *blePeripheral {
	p := &blePeripheral{
		client:   client,
		name:     name,
		logger:   logger,
		services: make(map[string]*bleService),
	}

	for _, bleSvc := range profile.Services {
		svcUUID := NormalizeUUID(bleSvc.UUID.String())
		logger.WithField("service_uuid", svcUUID).Debug("Found service UUID")

		svc, ok := p.services[svcUUID]
		if !ok {
			svc = &bleService{
				uuid:            svcUUID,
				characteristics: make(map[string]*bleCharacteristic),
			}
			p.services[svcUUID] = svc
		}

		for _, bleChar := range bleSvc.Characteristics {
			charUUID := NormalizeUUID(bleChar.UUID.String())
			logger.WithFields(logrus.Fields{
				"service_uuid": svcUUID,
				"char_uuid":    charUUID,
			}).Debug("Found characteristic UUID")
			svc.characteristics[charUUID] = &bleCharacteristic{
				uuid:   charUUID,
				client: client,
				char:   bleChar,
			}
		}
	}

	return p
}

func (p *blePeripheral) Name() string {
	return p.name
}

func (p *blePeripheral) Address() string {
	return p.client.Addr().String()
}

// Connected reports whether the link is still up. go-ble closes the
// Disconnected channel when the peer drops.
func (p *blePeripheral) Connected() bool {
	select {
	case <-p.client.Disconnected():
		return false
	default:
		return true
	}
}

func (p *blePeripheral) Service(uuid string) (Service, error) {
	svc, ok := p.services[NormalizeUUID(uuid)]
	if !ok {
		return nil, &NotFoundError{Resource: "service", UUID: uuid}
	}
	return svc, nil
}

func (p *blePeripheral) Services() []Service {
	result := make([]Service, 0, len(p.services))
	for _, svc := range p.services {
		result = append(result, svc)
	}
	// Sort by UUID for consistent ordering
	sort.Slice(result, func(i, j int) bool {
		return result[i].UUID() < result[j].UUID()
	})
	return result
}

func (p *blePeripheral) Disconnect() error {
	p.logger.WithField("address", p.Address()).Info("Disconnecting BLE peripheral...")
	if err := p.client.CancelConnection(); err != nil {
		return fmt.Errorf("failed to disconnect: %w", err)
	}
	return nil
}

type bleService struct {
	uuid            string
	characteristics map[string]*bleCharacteristic
}

func (s *bleService) UUID() string {
	return s.uuid
}

func (s *bleService) Characteristic(uuid string) (Characteristic, error) {
	char, ok := s.characteristics[NormalizeUUID(uuid)]
	if !ok {
		return nil, &NotFoundError{Resource: "characteristic", UUID: uuid}
	}
	return char, nil
}

func (s *bleService) Characteristics() []Characteristic {
	result := make([]Characteristic, 0, len(s.characteristics))
	for _, char := range s.characteristics {
		result = append(result, char)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UUID() < result[j].UUID()
	})
	return result
}

type bleCharacteristic struct {
	uuid   string
	client blelib.Client
	char   *blelib.Characteristic
}

func (c *bleCharacteristic) UUID() string {
	return c.uuid
}

func (c *bleCharacteristic) Read() ([]byte, error) {
	data, err := c.client.ReadCharacteristic(c.char)
	if err != nil {
		return nil, fmt.Errorf("failed to read characteristic %s: %w", c.uuid, err)
	}
	return data, nil
}

func (c *bleCharacteristic) Write(data []byte) error {
	// Prefer acknowledged writes; fall back to write-without-response for
	// characteristics that only advertise that mode.
	noRsp := c.char.Property&blelib.CharWrite == 0 && c.char.Property&blelib.CharWriteNR != 0
	if err := c.client.WriteCharacteristic(c.char, data, noRsp); err != nil {
		return fmt.Errorf("failed to write characteristic %s: %w", c.uuid, err)
	}
	return nil
}
