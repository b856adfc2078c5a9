package redis

import "fmt"

// Global prefix separating environments and applications.
const (
	GlobalPrefix = "khawam"
)

// Module prefixes.
const (
	PricingModule = "pricing"
	OrderModule   = "order"
)

// Key templates.
const (
	// Cached price quote, keyed by a hash of the specification bag.
	PriceQuoteKeyTpl = "%s:%s:%s:quote:%s" // {global}:{module}:{version}:quote:{spec_hash}

	// Archive watcher poll lock.
	ArchiveLockKeyTpl = "%s:%s:%s:archive:lock" // {global}:{module}:{version}:archive:lock
)

// Pub/Sub channels.
const (
	// OrderUpdatesChannel carries order status change notifications.
	OrderUpdatesChannel = "khawam:order:updates"
)

// KeyBuilder builds namespaced redis keys.
type KeyBuilder struct {
	globalPrefix string
	version      string
}

// NewKeyBuilder creates a KeyBuilder with the given prefix and version.
func NewKeyBuilder(globalPrefix string, version string) *KeyBuilder {
	if globalPrefix == "" {
		globalPrefix = GlobalPrefix
	}
	if version == "" {
		version = "v1"
	}
	return &KeyBuilder{globalPrefix: globalPrefix, version: version}
}

// PriceQuoteKey builds the cache key for a price quote.
func (kb *KeyBuilder) PriceQuoteKey(specHash string) string {
	return fmt.Sprintf(PriceQuoteKeyTpl, kb.globalPrefix, PricingModule, kb.version, specHash)
}

// ArchiveLockKey builds the archive watcher lock key.
func (kb *KeyBuilder) ArchiveLockKey() string {
	return fmt.Sprintf(ArchiveLockKeyTpl, kb.globalPrefix, OrderModule, kb.version)
}

// PriceQuotePattern matches every cached price quote, for invalidation after
// pricing-rule updates.
func (kb *KeyBuilder) PriceQuotePattern() string {
	return fmt.Sprintf("%s:%s:%s:quote:*", kb.globalPrefix, PricingModule, kb.version)
}
