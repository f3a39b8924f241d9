// File model contains the structs which match the direct on-disk structures
// of a FAT12 filesystem. All of them are decoded little-endian via
// encoding/binary, never by reinterpreting memory.

package fat12

// BootSector is the boot parameter block at offset 0 of the image.
// It spans exactly bootSectorSize bytes on disk. Only the geometry fields
// are used by the data path; the identification tail (OEM name, label,
// serial) is exposed through accessors on Image.
type BootSector struct {
	JumpBoot          [3]byte
	OEMName           [8]byte
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	NumFATs           uint8
	RootEntryCount    uint16
	TotalSectors16    uint16
	Media             uint8
	SectorsPerFAT     uint16
	SectorsPerTrack   uint16
	NumHeads          uint16
	HiddenSectors     uint32
	TotalSectors32    uint32
	DriveNumber       uint8
	Reserved1         uint8
	BootSignature     uint8
	VolumeID          uint32
	VolumeLabel       [11]byte
	FileSystemType    [8]byte
}

// EntryHeader is one 32-byte root directory entry.
// FirstClusterHI is vestigial on FAT12 and kept for layout compatibility
// only; the starting cluster is FirstClusterLO.
type EntryHeader struct {
	Name            [11]byte
	Attribute       byte
	NTReserved      byte
	CreateTimeTenth byte
	CreateTime      uint16
	CreateDate      uint16
	LastAccessDate  uint16
	FirstClusterHI  uint16
	WriteTime       uint16
	WriteDate       uint16
	FirstClusterLO  uint16
	FileSize        uint32
}

const (
	// bootSectorSize is the byte size of BootSector on disk.
	bootSectorSize = 62

	// entrySize is the byte size of EntryHeader on disk.
	entrySize = 32
)

// Directory entry attribute bits.
const (
	AttrReadOnly    = 0x01
	AttrHidden      = 0x02
	AttrSystem      = 0x04
	AttrVolumeLabel = 0x08
	AttrDirectory   = 0x10
	AttrArchive     = 0x20
	AttrLongName    = AttrReadOnly | AttrHidden | AttrSystem | AttrVolumeLabel
)

// Name markers: entryFree marks a deleted entry, entryEndOfDir an entry
// after which no further entries follow.
const (
	entryFree     = 0xE5
	entryEndOfDir = 0x00
)
