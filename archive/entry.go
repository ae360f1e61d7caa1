package archive

// Entry describes a single unit of a zip container.
//
// Directory markers and file entries share the same shape: a marker has a
// trailing-slash name, zero sizes and a zero checksum, while a file entry
// carries the exact payload size (stored twice, as the container keeps no
// internal compression) and the CRC-32 of its payload bytes.
type Entry struct {
	Name             string
	Directory        bool
	UncompressedSize uint64
	CompressedSize   uint64
	CRC32            uint32
}
