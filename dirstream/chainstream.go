package dirstream

import (
	"fmt"

	"github.com/lwouis/fatsort-go/device"
	"github.com/lwouis/fatsort-go/ferr"
	"github.com/lwouis/fatsort-go/volume"
)

// ChainStream presents the concatenation of the data regions of the
// clusters in a chain as a flat slot stream, with SlotsPerCluster =
// ClusterSize/32 slots contributed by each cluster in chain order
// (spec.md section 4.3).
type ChainStream struct {
	dev             *device.BlockDevice
	vol             *volume.Volume
	chain           []uint32
	slotsPerCluster int
}

// NewChainStream builds a ChainStream over an already-walked cluster chain.
// The chain is not modified by reads or writes through this stream, per
// spec.md section 4.7 ("the chain is not modified").
func NewChainStream(dev *device.BlockDevice, vol *volume.Volume, chain []uint32) *ChainStream {
	return &ChainStream{
		dev:             dev,
		vol:             vol,
		chain:           chain,
		slotsPerCluster: int(vol.ClusterSize) / SlotSize,
	}
}

func (s *ChainStream) SlotCount() int {
	return len(s.chain) * s.slotsPerCluster
}

func (s *ChainStream) slotOffset(index int) (int64, error) {
	clusterIdx := index / s.slotsPerCluster
	if clusterIdx < 0 || clusterIdx >= len(s.chain) {
		return 0, ferr.ErrOutOfRange.WithMessage(fmt.Sprintf("slot index %d out of range", index))
	}
	withinCluster := index % s.slotsPerCluster
	cluster := s.chain[clusterIdx]
	return s.vol.ClusterOffset(cluster) + int64(withinCluster)*SlotSize, nil
}

func (s *ChainStream) ReadSlot(index int) ([]byte, error) {
	offset, err := s.slotOffset(index)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, SlotSize)
	if err := s.dev.ReadAt(offset, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (s *ChainStream) WriteSlot(index int, data []byte) error {
	if len(data) != SlotSize {
		return ferr.ErrDeviceError.WithMessage("slot write must be exactly 32 bytes")
	}
	offset, err := s.slotOffset(index)
	if err != nil {
		return err
	}
	return s.dev.WriteAt(offset, data)
}

// Chain returns the underlying cluster chain, in order.
func (s *ChainStream) Chain() []uint32 {
	return s.chain
}

// SlotsPerCluster reports how many 32-byte slots fit in one cluster.
func (s *ChainStream) SlotsPerCluster() int {
	return s.slotsPerCluster
}

// WriteCluster writes one whole cluster's worth of bytes in a single WriteAt,
// for callers (the rewrite protocol of spec.md section 4.7) that batch
// reordered slots a cluster at a time instead of slot by slot.
func (s *ChainStream) WriteCluster(clusterIndex int, data []byte) error {
	if clusterIndex < 0 || clusterIndex >= len(s.chain) {
		return ferr.ErrOutOfRange.WithMessage(fmt.Sprintf("cluster index %d out of range", clusterIndex))
	}
	if len(data) != s.slotsPerCluster*SlotSize {
		return ferr.ErrDeviceError.WithMessage("cluster write must match the cluster size")
	}
	offset := s.vol.ClusterOffset(s.chain[clusterIndex])
	return s.dev.WriteAt(offset, data)
}
