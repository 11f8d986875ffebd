// Package fat walks FAT12/16/32/exFAT allocation tables to turn a starting
// cluster into the ordered chain of clusters belonging to a file or
// directory (spec.md section 4.2).
package fat

import (
	"fmt"

	"github.com/lwouis/fatsort-go/device"
	"github.com/lwouis/fatsort-go/ferr"
	"github.com/lwouis/fatsort-go/volume"
)

// Walker produces the cluster chain starting at a given cluster, and can
// look up a single FAT entry. One concrete implementation
// exists per FAT kind, selected by NewWalker (Design Note "Polymorphism by
// FAT kind": a tagged-variant dispatch rather than per-kind code paths
// scattered through callers).
type Walker interface {
	// Chain returns the ordered cluster numbers starting at start, stopping
	// at (and not including) the end-of-chain marker.
	Chain(start uint32) ([]uint32, error)
	// EntryAt reads the raw FAT entry for the given cluster.
	EntryAt(cluster uint32) (uint32, error)
	// IsEndOfChain reports whether a FAT entry value denotes end-of-chain.
	IsEndOfChain(entry uint32) bool
}

// NewWalker returns the Walker appropriate for vol.Kind.
func NewWalker(vol *volume.Volume) Walker {
	base := baseWalker{dev: vol.Device, vol: vol}
	switch vol.Kind {
	case volume.FAT12:
		return &fat12Walker{base}
	case volume.FAT16:
		return &fat16Walker{base}
	case volume.FAT32:
		return &fat32Walker{base}
	default:
		return &exfatWalker{base}
	}
}

type baseWalker struct {
	dev *device.BlockDevice
	vol *volume.Volume
}

func (w *baseWalker) fatByteOffset(fatEntryByteOffset int64) int64 {
	return int64(w.vol.FATStartSector)*int64(w.vol.SectorSize) + fatEntryByteOffset
}

// walkChain implements the cycle/length/range/free-in-chain checks common to
// every FAT kind (spec.md section 4.2), given kind-specific entry lookup and
// end-of-chain detection.
func walkChain(w Walker, vol *volume.Volume, start uint32) ([]uint32, error) {
	if start < 2 || start >= vol.TotalClusters+2 {
		return nil, ferr.ErrOutOfRange.WithMessage(fmt.Sprintf("cluster %d out of range", start))
	}

	seen := make(map[uint32]bool)
	chain := make([]uint32, 0, 16)
	current := start

	for {
		if seen[current] {
			return nil, ferr.ErrCycleDetected.WithMessage(fmt.Sprintf("cluster %d revisited", current))
		}
		seen[current] = true
		chain = append(chain, current)

		if uint32(len(chain)) > vol.MaxChainLength {
			return nil, ferr.ErrChainTooLong
		}

		next, err := w.EntryAt(current)
		if err != nil {
			return nil, err
		}

		if w.IsEndOfChain(next) {
			return chain, nil
		}
		if next == 0 {
			return nil, ferr.ErrFreeInChain.WithMessage(fmt.Sprintf("cluster %d points to free cluster", current))
		}
		if next < 2 || next >= vol.TotalClusters+2 {
			return nil, ferr.ErrOutOfRange.WithMessage(fmt.Sprintf("cluster %d out of range", next))
		}

		current = next
	}
}
