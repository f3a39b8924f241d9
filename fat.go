package fat12

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hwessel/fat12/checkpoint"
)

// ErrBadCluster is returned when a cluster chain runs into a FAT entry that
// is no valid link: a free or reserved cluster, the bad-cluster marker or a
// chain that never terminates.
var ErrBadCluster = errors.New("cluster chain hit a reserved or bad FAT entry")

// fatEntry is one unpacked 12-bit FAT link value.
type fatEntry uint16

func (e fatEntry) Value() uint16 {
	return uint16(e)
}

// IsFree reports an unallocated cluster.
func (e fatEntry) IsFree() bool {
	return e == 0
}

// IsReserved reports the reserved values: cluster 1 and 0xFF0-0xFF6.
func (e fatEntry) IsReserved() bool {
	return e == 1 || (e >= 0xFF0 && e <= 0xFF6)
}

// IsBad reports the bad-cluster marker 0xFF7.
func (e fatEntry) IsBad() bool {
	return e == 0xFF7
}

// IsEndOfChain reports the end-of-chain markers 0xFF8-0xFFF.
func (e fatEntry) IsEndOfChain() bool {
	return e >= 0xFF8 && e <= 0xFFF
}

// IsNextCluster reports whether e links to another data cluster.
func (e fatEntry) IsNextCluster() bool {
	return e >= 2 && e <= 0xFEF
}

// nextCluster unpacks the FAT entry for cluster from the table.
// Entries are packed two per three bytes: the entry starts at byte
// cluster*3/2, read as a little-endian 16-bit word. Even clusters use the
// low 12 bits, odd clusters the high 12 bits.
func nextCluster(fat []byte, cluster uint16) (fatEntry, error) {
	idx := int(cluster) * 3 / 2
	if idx+1 >= len(fat) {
		return 0, checkpoint.Wrap(
			fmt.Errorf("FAT entry for cluster %d at byte %d, table has %d bytes", cluster, idx, len(fat)),
			ErrOutOfBounds,
		)
	}

	word := binary.LittleEndian.Uint16(fat[idx : idx+2])
	if cluster%2 == 0 {
		return fatEntry(word & 0x0FFF), nil
	}
	return fatEntry(word >> 4), nil
}

// readChain follows the cluster chain starting at first and returns the
// concatenated payload, whole clusters each. The chain ends at an
// end-of-chain marker; any other non-link value is a decode failure, not a
// silent termination.
func (img *Image) readChain(first uint16) ([]byte, error) {
	var content []byte
	cluster := first

	// A FAT of n bytes holds at most 2n/3 entries. More steps than that
	// means the chain loops, which a conforming image never has.
	maxSteps := len(img.fat) * 2 / 3

	for steps := 0; ; steps++ {
		if steps > maxSteps {
			return nil, checkpoint.Wrap(
				fmt.Errorf("chain from cluster %d does not terminate", first),
				ErrBadCluster,
			)
		}

		if !fatEntry(cluster).IsNextCluster() {
			return nil, checkpoint.Wrap(
				fmt.Errorf("%#03x is no data cluster", cluster),
				ErrBadCluster,
			)
		}

		lba := img.rootEnd + uint32(cluster-2)*uint32(img.boot.SectorsPerCluster)
		data, err := img.sectorRange(lba, uint32(img.boot.SectorsPerCluster))
		if err != nil {
			return nil, checkpoint.From(err)
		}
		content = append(content, data...)

		next, err := nextCluster(img.fat, cluster)
		if err != nil {
			return nil, checkpoint.From(err)
		}

		if next.IsEndOfChain() {
			return content, nil
		}
		if !next.IsNextCluster() {
			return nil, checkpoint.Wrap(
				fmt.Errorf("cluster %d links to %#03x", cluster, next.Value()),
				ErrBadCluster,
			)
		}

		cluster = next.Value()
	}
}

// readFileAt returns up to readSize bytes of the file starting at cluster
// first, beginning at offset. Reads never extend past fileSize, the size
// recorded in the directory entry.
func (img *Image) readFileAt(first uint16, fileSize, offset, readSize int64) ([]byte, error) {
	chain, err := img.readChain(first)
	if err != nil {
		return nil, checkpoint.From(err)
	}

	if fileSize > int64(len(chain)) {
		fileSize = int64(len(chain))
	}
	if offset >= fileSize {
		return nil, io.EOF
	}

	end := offset + readSize
	if end > fileSize {
		end = fileSize
	}

	return chain[offset:end], nil
}
