package domain

import (
	"fmt"
	"slices"
)

// CustomData is an origin-tagged bundle of typed string entries.
//
// OrderedTypes fixes the iteration order of both maps and of the types
// exposed to script. Every key in PlatformData and SameOriginCustomData must
// appear in OrderedTypes, and every listed type carries at least one value.
// A bundle read from the medium is shared through a cache and must be
// treated as immutable.
type CustomData struct {
	Origin               string
	OrderedTypes         []string
	PlatformData         map[string]string
	SameOriginCustomData map[string]string
}

// NewCustomData creates an empty bundle scoped to origin
func NewCustomData(origin string) *CustomData {
	return &CustomData{
		Origin:               origin,
		OrderedTypes:         []string{},
		PlatformData:         make(map[string]string),
		SameOriginCustomData: make(map[string]string),
	}
}

// SetPlatformData stores a value meant for native export
func (c *CustomData) SetPlatformData(typ, value string) {
	c.addType(typ)
	c.PlatformData[typ] = value
}

// SetSameOriginData stores a value readable only by the bundle's origin
func (c *CustomData) SetSameOriginData(typ, value string) {
	c.addType(typ)
	c.SameOriginCustomData[typ] = value
}

func (c *CustomData) addType(typ string) {
	if c.PlatformData == nil {
		c.PlatformData = make(map[string]string)
	}
	if c.SameOriginCustomData == nil {
		c.SameOriginCustomData = make(map[string]string)
	}
	if !slices.Contains(c.OrderedTypes, typ) {
		c.OrderedTypes = append(c.OrderedTypes, typ)
	}
}

// HasType reports whether typ is listed in the bundle
func (c *CustomData) HasType(typ string) bool {
	return slices.Contains(c.OrderedTypes, typ)
}

// Validate checks the bundle invariants
func (c *CustomData) Validate() error {
	seen := make(map[string]bool, len(c.OrderedTypes))
	for _, typ := range c.OrderedTypes {
		if seen[typ] {
			return fmt.Errorf("%w: duplicate type %q", ErrInvalidBundle, typ)
		}
		seen[typ] = true

		_, inPlatform := c.PlatformData[typ]
		_, inSameOrigin := c.SameOriginCustomData[typ]
		if !inPlatform && !inSameOrigin {
			return fmt.Errorf("%w: type %q has no value", ErrInvalidBundle, typ)
		}
	}

	for typ := range c.PlatformData {
		if !seen[typ] {
			return fmt.Errorf("%w: platform type %q not listed", ErrInvalidBundle, typ)
		}
	}
	for typ := range c.SameOriginCustomData {
		if !seen[typ] {
			return fmt.Errorf("%w: same-origin type %q not listed", ErrInvalidBundle, typ)
		}
	}

	return nil
}
