package catalog

import "sync"

// Optional-era column names the adaptive executors negotiate over.
const (
	colDefaultUsagePeriod = "default_usage_period"
	colPinUsagePeriod     = "pin_usage_period"
	colReleaseKind        = "release_kind"
)

// SchemaCapabilities records which optional columns the live schema is known
// to carry. It starts optimistic and is downgraded on the first undefined
// column error, then cached for the process lifetime so steady-state requests
// never pay a double-query cost.
type SchemaCapabilities struct {
	mu          sync.RWMutex
	usagePeriod bool
	releaseKind bool
}

// NewSchemaCapabilities assumes the full schema until proven otherwise.
func NewSchemaCapabilities() *SchemaCapabilities {
	return &SchemaCapabilities{usagePeriod: true, releaseKind: true}
}

// HasUsagePeriod reports whether default_usage_period/pin_usage_period are
// believed present.
func (c *SchemaCapabilities) HasUsagePeriod() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.usagePeriod
}

// HasReleaseKind reports whether release_kind is believed present.
func (c *SchemaCapabilities) HasReleaseKind() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.releaseKind
}

// Full reports whether every optional column is believed present.
func (c *SchemaCapabilities) Full() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.usagePeriod && c.releaseKind
}

// Downgrade marks the capability owning the named column as absent. An empty
// column name downgrades every optional capability, for drivers that do not
// say which column was rejected.
func (c *SchemaCapabilities) Downgrade(column string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch column {
	case colDefaultUsagePeriod, colPinUsagePeriod:
		c.usagePeriod = false
	case colReleaseKind:
		c.releaseKind = false
	default:
		c.usagePeriod = false
		c.releaseKind = false
	}
}
