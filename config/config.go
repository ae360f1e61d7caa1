package config

// Config aggregates the settings of a repack run that can be kept in a
// file instead of being passed flag by flag: where to look for archives,
// which ones to pick, and how hard to compress them.
type Config struct {
	// ArchiveDirectory is the base directory scanned for archives.
	ArchiveDirectory string `hcl:"archive_directory"`

	// OutputDirectory is where compressed files are written; empty means
	// alongside the sources.
	OutputDirectory string `hcl:"output_directory,optional"`

	// Includes are the ant-like glob patterns selecting archives,
	// relative to ArchiveDirectory.
	Includes []string `hcl:"includes,optional"`

	// Excludes reject archives that Includes selected.
	Excludes []string `hcl:"excludes,optional"`

	// Level is the xz preset (0-9). Nil keeps whatever the caller
	// already has.
	Level *int `hcl:"level,optional"`
}
