package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments or tenants
// can share one backend without colliding.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "gallery:42:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// TileKey generates a prefixed key for breakpoint caching.
func (k *ScopedKeyer) TileKey(itemsHash string, opts TileKeyOpts) string {
	return k.prefix + k.inner.TileKey(itemsHash, opts)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(itemsHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(itemsHash, opts)
}
