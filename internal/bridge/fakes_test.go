package bridge

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/gattbridge/gattbridge/internal/ble"
)

// In-memory peripheral fakes implementing the ble interfaces.

type fakeCharacteristic struct {
	uuid     string
	data     []byte
	readErr  error
	writeErr error

	mu     sync.Mutex
	writes [][]byte
}

func (c *fakeCharacteristic) UUID() string { return c.uuid }

func (c *fakeCharacteristic) Read() ([]byte, error) {
	if c.readErr != nil {
		return nil, c.readErr
	}
	return c.data, nil
}

func (c *fakeCharacteristic) Write(data []byte) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes = append(c.writes, append([]byte(nil), data...))
	c.data = c.writes[len(c.writes)-1]
	return nil
}

func (c *fakeCharacteristic) writeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.writes)
}

type fakeService struct {
	uuid  string
	chars map[string]*fakeCharacteristic
}

func (s *fakeService) UUID() string { return s.uuid }

func (s *fakeService) Characteristic(uuid string) (ble.Characteristic, error) {
	char, ok := s.chars[ble.NormalizeUUID(uuid)]
	if !ok {
		return nil, &ble.NotFoundError{Resource: "characteristic", UUID: uuid}
	}
	return char, nil
}

func (s *fakeService) Characteristics() []ble.Characteristic {
	result := make([]ble.Characteristic, 0, len(s.chars))
	for _, char := range s.chars {
		result = append(result, char)
	}
	return result
}

type fakePeripheral struct {
	mu        sync.Mutex
	connected bool
	svc       *fakeService
}

func newFakePeripheral(svc *fakeService) *fakePeripheral {
	return &fakePeripheral{connected: true, svc: svc}
}

func (p *fakePeripheral) Name() string    { return "Test Ornament" }
func (p *fakePeripheral) Address() string { return "aa:bb:cc:dd:ee:ff" }

func (p *fakePeripheral) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

func (p *fakePeripheral) setConnected(connected bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connected = connected
}

func (p *fakePeripheral) Service(uuid string) (ble.Service, error) {
	if p.svc == nil || ble.NormalizeUUID(uuid) != p.svc.uuid {
		return nil, &ble.NotFoundError{Resource: "service", UUID: uuid}
	}
	return p.svc, nil
}

func (p *fakePeripheral) Services() []ble.Service {
	if p.svc == nil {
		return nil
	}
	return []ble.Service{p.svc}
}

func (p *fakePeripheral) Disconnect() error {
	p.setConnected(false)
	return nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}
