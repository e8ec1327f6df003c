package cache

// Keyer derives cache keys for each pipeline stage.
type Keyer interface {
	// ForestKey identifies a built forest by input hash and build options.
	ForestKey(inputHash string, opts ForestKeyOpts) string
	// ViewKey identifies a reduced, laid out view of a forest.
	ViewKey(forestHash string, opts ViewKeyOpts) string
	// ArtifactKey identifies a rendered artifact of a view.
	ArtifactKey(viewHash string, opts ArtifactKeyOpts) string
}

// ForestKeyOpts holds the options that change a built forest.
type ForestKeyOpts struct {
	Grouping string   `json:"grouping"`
	MaxDepth int      `json:"max_depth"`
	Stages   []string `json:"stages,omitempty"`
}

// ViewKeyOpts holds the options that change a view.
type ViewKeyOpts struct {
	Cap       int      `json:"cap"`
	Collapsed []string `json:"collapsed,omitempty"`
	Expanded  []string `json:"expanded,omitempty"`
	Focus     string   `json:"focus,omitempty"`
	Layout    string   `json:"layout,omitempty"`
}

// ArtifactKeyOpts holds the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Detailed bool    `json:"detailed,omitempty"`
	RankDir  string  `json:"rankdir,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
}

// DefaultKeyer hashes key options with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ForestKey generates a key for forest caching.
func (DefaultKeyer) ForestKey(inputHash string, opts ForestKeyOpts) string {
	return hashKey("forest", inputHash, opts)
}

// ViewKey generates a key for view caching.
func (DefaultKeyer) ViewKey(forestHash string, opts ViewKeyOpts) string {
	return hashKey("view", forestHash, opts)
}

// ArtifactKey generates a key for artifact caching.
func (DefaultKeyer) ArtifactKey(viewHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", viewHash, opts)
}
