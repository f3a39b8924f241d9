package fat12

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/hwessel/fat12/checkpoint"
	"github.com/spf13/afero"
)

// These errors may occur while opening an image or looking up a file.
var (
	ErrReadImage       = errors.New("could not read the image")
	ErrTruncated       = errors.New("image is shorter than the boot sector")
	ErrInvalidGeometry = errors.New("boot sector describes an invalid geometry")
	ErrOutOfBounds     = errors.New("sector range exceeds the image")
	ErrNotFound        = errors.New("file not found in the root directory")
)

// Image is a fully opened FAT12 filesystem: the raw image bytes plus the
// boot sector, root directory and FAT decoded from them. All fields are
// filled once by New and never mutated afterwards, so an Image may be shared
// between goroutines without synchronization.
type Image struct {
	data    []byte
	boot    BootSector
	entries []EntryHeader
	rootEnd uint32 // first LBA after the root directory, anchors the data region
	fat     []byte
}

// Open loads the image at path from the OS filesystem.
func Open(path string) (*Image, error) {
	return OpenFs(afero.NewOsFs(), path)
}

// OpenFs loads the image at path from the given afero filesystem.
// The backing file is closed before OpenFs returns, on every path.
func OpenFs(fsys afero.Fs, path string) (*Image, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrReadImage)
	}
	return New(data)
}

// New decodes a FAT12 filesystem from the given image bytes.
// Decoding happens in a fixed order, each step short-circuiting the rest:
// boot sector, root directory, FAT.
func New(data []byte) (*Image, error) {
	img := &Image{data: data}

	var err error
	img.boot, err = decodeBootSector(data)
	if err != nil {
		return nil, checkpoint.From(err)
	}

	// A zero divisor in the geometry would make the sector math below
	// impossible. Reject it instead of trusting the header blindly.
	if img.boot.BytesPerSector == 0 || img.boot.SectorsPerCluster == 0 {
		return nil, checkpoint.Wrap(
			fmt.Errorf("bytes per sector %d, sectors per cluster %d", img.boot.BytesPerSector, img.boot.SectorsPerCluster),
			ErrInvalidGeometry,
		)
	}

	if err := img.readRootDirectory(); err != nil {
		return nil, checkpoint.From(err)
	}

	if err := img.readFAT(); err != nil {
		return nil, checkpoint.From(err)
	}

	return img, nil
}

// decodeBootSector decodes the fixed 62-byte header at offset 0,
// field by field, little-endian.
func decodeBootSector(data []byte) (BootSector, error) {
	var boot BootSector
	if len(data) < bootSectorSize {
		return boot, checkpoint.Wrap(
			fmt.Errorf("%d bytes, boot sector needs %d", len(data), bootSectorSize),
			ErrTruncated,
		)
	}

	if err := binary.Read(bytes.NewReader(data[:bootSectorSize]), binary.LittleEndian, &boot); err != nil {
		return boot, checkpoint.Wrap(err, ErrTruncated)
	}

	return boot, nil
}

// sectorRange resolves (lba, count) to a read-only view into the image.
func (img *Image) sectorRange(lba, count uint32) ([]byte, error) {
	bps := uint64(img.boot.BytesPerSector)
	start := uint64(lba) * bps
	end := start + uint64(count)*bps

	if end > uint64(len(img.data)) {
		return nil, checkpoint.Wrap(
			fmt.Errorf("sectors [%d, %d) end at byte %d, image has %d", lba, lba+count, end, len(img.data)),
			ErrOutOfBounds,
		)
	}

	return img.data[start:end], nil
}

// decodeEntries splits raw into consecutive 32-byte directory entries.
// A trailing partial record is ignored. That is intentional: the root
// directory region is sector-aligned, anything after the last whole record
// is padding, never data.
func decodeEntries(raw []byte) []EntryHeader {
	entries := make([]EntryHeader, 0, len(raw)/entrySize)
	for len(raw) >= entrySize {
		var entry EntryHeader
		// Cannot fail, the reader holds exactly one record.
		_ = binary.Read(bytes.NewReader(raw[:entrySize]), binary.LittleEndian, &entry)
		entries = append(entries, entry)
		raw = raw[entrySize:]
	}
	return entries
}

// readRootDirectory locates and decodes the flat root directory region.
func (img *Image) readRootDirectory() error {
	lba := uint32(img.boot.ReservedSectors) + uint32(img.boot.SectorsPerFAT)*uint32(img.boot.NumFATs)

	size := uint32(img.boot.RootEntryCount) * entrySize
	bps := uint32(img.boot.BytesPerSector)
	// Round up. Truncating here would drop the final sector whenever the
	// entry count is not an exact multiple of the sector size.
	sectors := (size + bps - 1) / bps

	raw, err := img.sectorRange(lba, sectors)
	if err != nil {
		return checkpoint.From(err)
	}

	img.entries = decodeEntries(raw)
	img.rootEnd = lba + sectors
	return nil
}

// readFAT reads the first FAT copy as an opaque byte table. Only the
// cluster chain walker interprets it.
func (img *Image) readFAT() error {
	raw, err := img.sectorRange(uint32(img.boot.ReservedSectors), uint32(img.boot.SectorsPerFAT))
	if err != nil {
		return checkpoint.From(err)
	}

	img.fat = raw
	return nil
}

// Find returns a copy of the first root directory entry whose name matches
// name exactly. name must be the full space-padded 11-byte 8.3 form, for
// example "TEST    TXT".
func (img *Image) Find(name []byte) (EntryHeader, error) {
	for i := range img.entries {
		if bytes.Equal(img.entries[i].Name[:], name) {
			return img.entries[i], nil
		}
	}
	return EntryHeader{}, checkpoint.Wrap(fmt.Errorf("no entry named %q", name), ErrNotFound)
}

// Parse looks up name (padded 11-byte form) in the root directory and
// returns the file's whole cluster chain in chain order. The result always
// covers full clusters; use Fs.Open for reads bounded by the directory size
// field.
func (img *Image) Parse(name []byte) ([]byte, error) {
	entry, err := img.Find(name)
	if err != nil {
		return nil, checkpoint.From(err)
	}

	content, err := img.readChain(entry.FirstClusterLO)
	if err != nil {
		return nil, checkpoint.From(err)
	}

	return content, nil
}

// readRoot returns the root directory entries that represent real files or
// directories, skipping free and deleted slots, the volume label and VFAT
// long-name entries.
func (img *Image) readRoot() ([]EntryHeader, error) {
	var visible []EntryHeader
	for _, entry := range img.entries {
		switch {
		case entry.Name[0] == entryEndOfDir:
			return visible, nil
		case entry.Name[0] == entryFree:
		case entry.Attribute&AttrLongName == AttrLongName:
		case entry.Attribute&AttrVolumeLabel != 0:
		default:
			visible = append(visible, entry)
		}
	}
	return visible, nil
}

// Entries returns a copy of all decoded root directory entries, including
// free and deleted slots.
func (img *Image) Entries() []EntryHeader {
	return append([]EntryHeader(nil), img.entries...)
}

// Boot returns the decoded boot sector.
func (img *Image) Boot() BootSector {
	return img.boot
}

// OEMName returns the OEM name from the boot sector.
func (img *Image) OEMName() string {
	return strings.TrimRight(string(img.boot.OEMName[:]), " ")
}

// Label returns the volume label from the boot sector.
func (img *Image) Label() string {
	return strings.TrimRight(string(img.boot.VolumeLabel[:]), " ")
}

// Serial returns the volume serial number from the boot sector.
func (img *Image) Serial() uint32 {
	return img.boot.VolumeID
}
