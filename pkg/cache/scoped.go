package cache

// ScopedKeyer prefixes every key from the embedded Keyer. The serve command
// scopes its keys by document name so a shared cache directory can be
// pruned per document.
type ScopedKeyer struct {
	Keyer
	Prefix string
}

// NewScopedKeyer returns inner with prefix prepended to its keys. A nil
// inner uses the default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return ScopedKeyer{Keyer: inner, Prefix: prefix}
}

// DocumentScope returns the prefix used for keys of the named document.
func DocumentScope(name string) string {
	return "doc:" + name + ":"
}

func (k ScopedKeyer) ForestKey(inputHash string, opts ForestKeyOpts) string {
	return k.Prefix + k.Keyer.ForestKey(inputHash, opts)
}

func (k ScopedKeyer) ViewKey(forestHash string, opts ViewKeyOpts) string {
	return k.Prefix + k.Keyer.ViewKey(forestHash, opts)
}

func (k ScopedKeyer) ArtifactKey(viewHash string, opts ArtifactKeyOpts) string {
	return k.Prefix + k.Keyer.ArtifactKey(viewHash, opts)
}
