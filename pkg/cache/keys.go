package cache

// Keyer generates cache keys.
type Keyer interface {
	// DesignKey identifies a parsed design by the hash of its input files
	// and the settings used to read them.
	DesignKey(inputHash string, opts DesignKeyOpts) string
	// ArtifactKey identifies one rendered output of a design.
	ArtifactKey(designKey string, opts ArtifactKeyOpts) string
}

// DesignKeyOpts holds the settings that change how inputs are parsed.
type DesignKeyOpts struct {
	RowHeight int `json:"row_height"`
	SiteWidth int `json:"site_width"`
}

// ArtifactKeyOpts holds the settings that change a rendered output.
type ArtifactKeyOpts struct {
	Format     string `json:"format"`
	DesignName string `json:"design_name,omitempty"`
	Options    any    `json:"options,omitempty"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DesignKey returns "design:<sha256>".
func (DefaultKeyer) DesignKey(inputHash string, opts DesignKeyOpts) string {
	return hashKey("design", inputHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(designKey string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", designKey, opts)
}
