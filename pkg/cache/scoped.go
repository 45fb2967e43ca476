package cache

// ScopedKeyer wraps a Keyer with a prefix so several tools or versions can
// share one cache directory without colliding.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "shelfconv:v1:")
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

// DesignKey generates a prefixed design key.
func (k *ScopedKeyer) DesignKey(inputHash string, opts DesignKeyOpts) string {
	return k.prefix + k.inner.DesignKey(inputHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(designKey string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(designKey, opts)
}
