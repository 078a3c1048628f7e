package attr

import (
	"fmt"
	"os"

	"github.com/mcuadros/go-defaults"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Descriptor is the static metadata for one attribute: which
// characteristic it maps to and how its bytes are interpreted. This is
// configuration, not runtime state; adding an attribute is a table
// edit, not new code.
type Descriptor struct {
	// Name is the attribute's external name, used as its route path.
	Name string `yaml:"name" json:"name"`

	// ShortID is the 16-bit identifier spliced into the Bluetooth base
	// UUID to address the characteristic.
	ShortID uint16 `yaml:"id" json:"id"`

	// Width is the characteristic's byte width, 1 to 8.
	Width int `yaml:"width" json:"width" default:"4"`

	// Unit is optional for plain unsigned attributes and mandatory for
	// scaled ones.
	Unit string `yaml:"unit,omitempty" json:"unit,omitempty"`

	// Scale is the fixed-point scale factor. Zero marks the attribute as
	// a plain unsigned integer.
	Scale float64 `yaml:"scale,omitempty" json:"scale,omitempty"`

	Readable bool `yaml:"readable" json:"readable"`
	Writable bool `yaml:"writable" json:"writable"`
}

// Scaled reports whether the attribute carries a fixed-point scaled
// quantity rather than a plain unsigned integer.
func (d *Descriptor) Scaled() bool {
	return d.Scale != 0
}

// UintCodec returns the codec for a plain unsigned attribute.
func (d *Descriptor) UintCodec() UintCodec {
	return UintCodec{Width: d.Width, Unit: d.Unit}
}

// ScaledCodec returns the codec for a scaled attribute.
func (d *Descriptor) ScaledCodec() ScaledCodec {
	return ScaledCodec{Width: d.Width, Unit: d.Unit, Scale: d.Scale}
}

// Validate checks the descriptor's internal consistency.
func (d *Descriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("attribute name is required")
	}
	if d.Width < MinWidth || d.Width > MaxWidth {
		return fmt.Errorf("attribute %q: width %d out of range [%d,%d]", d.Name, d.Width, MinWidth, MaxWidth)
	}
	if d.Scale < 0 {
		return fmt.Errorf("attribute %q: scale must be positive", d.Name)
	}
	if d.Scaled() && d.Unit == "" {
		return fmt.Errorf("attribute %q: scaled attributes require a unit", d.Name)
	}
	if !d.Readable && !d.Writable {
		return fmt.Errorf("attribute %q: must be readable, writable, or both", d.Name)
	}
	return nil
}

// Registry holds the attribute table in declaration order, so route
// registration and listings are deterministic.
type Registry struct {
	attrs *orderedmap.OrderedMap[string, *Descriptor]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{attrs: orderedmap.New[string, *Descriptor]()}
}

// DefaultRegistry returns the built-in attribute table for the bridged
// device's GATT service.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, d := range []*Descriptor{
		{Name: "heap", ShortID: 0x0002, Width: 4, Unit: "bytes", Readable: true},
		{Name: "battery", ShortID: 0x0003, Width: 2, Unit: "volts", Scale: 1.00709544518e-4, Readable: true},
		{Name: "light", ShortID: 0x0004, Width: 4, Unit: "lux", Scale: 1e-3, Readable: true},
		{Name: "accelerometer", ShortID: 0x0005, Width: 3, Readable: true},
		{Name: "light-threshold", ShortID: 0x0006, Width: 2, Unit: "lux", Scale: 1e-1, Readable: true, Writable: true},
		{Name: "accelerometer-threshold", ShortID: 0x0007, Width: 2, Unit: "g", Scale: 1e-3, Readable: true, Writable: true},
	} {
		if err := r.Add(d); err != nil {
			panic(err) // built-in table must be consistent
		}
	}
	return r
}

// Add validates the descriptor and appends it to the table, rejecting
// duplicate names and duplicate short identifiers.
func (r *Registry) Add(d *Descriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if _, ok := r.attrs.Get(d.Name); ok {
		return fmt.Errorf("duplicate attribute name %q", d.Name)
	}
	for pair := r.attrs.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.ShortID == d.ShortID {
			return fmt.Errorf("attribute %q: short id 0x%04x already used by %q", d.Name, d.ShortID, pair.Value.Name)
		}
	}
	r.attrs.Set(d.Name, d)
	return nil
}

// Get returns the descriptor with the given name.
func (r *Registry) Get(name string) (*Descriptor, bool) {
	return r.attrs.Get(name)
}

// All returns the descriptors in declaration order.
func (r *Registry) All() []*Descriptor {
	result := make([]*Descriptor, 0, r.attrs.Len())
	for pair := r.attrs.Oldest(); pair != nil; pair = pair.Next() {
		result = append(result, pair.Value)
	}
	return result
}

// Len returns the number of declared attributes.
func (r *Registry) Len() int {
	return r.attrs.Len()
}

// attributeFile is the YAML schema for an attribute-table file.
type attributeFile struct {
	Attributes []*Descriptor `yaml:"attributes"`
}

// LoadRegistry reads an attribute table from a YAML file, replacing the
// built-in table entirely. Missing widths default per descriptor tags.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read attribute table: %w", err)
	}

	var file attributeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse attribute table: %w", err)
	}
	if len(file.Attributes) == 0 {
		return nil, fmt.Errorf("attribute table %q declares no attributes", path)
	}

	r := NewRegistry()
	for _, d := range file.Attributes {
		defaults.SetDefaults(d)
		if err := r.Add(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}
