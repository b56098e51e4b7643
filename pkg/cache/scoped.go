package cache

// ScopedKeyer prefixes every key of an inner keyer, for example to keep the
// results of several deployments apart in one Redis instance:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "treescape:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner. A nil inner uses [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) PlacementKey(treeHash, profilesHash string) string {
	return k.prefix + k.inner.PlacementKey(treeHash, profilesHash)
}

func (k *ScopedKeyer) WalkthroughKey(treeHash, start, configHash string) string {
	return k.prefix + k.inner.WalkthroughKey(treeHash, start, configHash)
}

func (k *ScopedKeyer) ArtifactKey(sourceHash, format string) string {
	return k.prefix + k.inner.ArtifactKey(sourceHash, format)
}
