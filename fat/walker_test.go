package fat_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"

	"github.com/lwouis/fatsort-go/device"
	"github.com/lwouis/fatsort-go/fat"
	"github.com/lwouis/fatsort-go/volume"
)

// newFAT16Volume builds a minimal in-memory FAT16 volume: FAT starts at
// sector 1, one sector long, entries written directly into that sector.
func newFAT16Volume(t *testing.T, entries map[uint32]uint16) (*volume.Volume, *device.BlockDevice) {
	t.Helper()
	image := make([]byte, 4096)
	dev := device.Open(bytesextra.NewReadWriteSeeker(image))

	fatStart := int64(512)
	for cluster, value := range entries {
		binary.LittleEndian.PutUint16(image[fatStart+int64(cluster)*2:], value)
	}

	vol := &volume.Volume{
		Device:         dev,
		Kind:           volume.FAT16,
		SectorSize:     512,
		FATStartSector: 1,
		TotalClusters:  10,
		MaxChainLength: 12,
	}
	return vol, dev
}

func TestWalker__ChainFollowsLinksToEndOfChain(t *testing.T) {
	vol, _ := newFAT16Volume(t, map[uint32]uint16{
		2: 3,
		3: 4,
		4: 0xFFFF,
	})
	w := fat.NewWalker(vol)

	chain, err := w.Chain(2)
	require.NoError(t, err)
	assert.Equal(t, []uint32{2, 3, 4}, chain)
}

func TestWalker__CycleIsDetected(t *testing.T) {
	vol, _ := newFAT16Volume(t, map[uint32]uint16{
		2: 3,
		3: 2,
	})
	w := fat.NewWalker(vol)

	_, err := w.Chain(2)
	assert.Error(t, err)
}

func TestWalker__FreeClusterInChainErrors(t *testing.T) {
	vol, _ := newFAT16Volume(t, map[uint32]uint16{
		2: 0,
	})
	w := fat.NewWalker(vol)

	_, err := w.Chain(2)
	assert.Error(t, err)
}

func TestWalker__StartOutOfRangeErrors(t *testing.T) {
	vol, _ := newFAT16Volume(t, map[uint32]uint16{})
	w := fat.NewWalker(vol)

	_, err := w.Chain(1)
	assert.Error(t, err)

	_, err = w.Chain(vol.TotalClusters + 2)
	assert.Error(t, err)
}

func TestWalker__OutOfRangeNextErrors(t *testing.T) {
	vol, _ := newFAT16Volume(t, map[uint32]uint16{
		2: 9999,
	})
	w := fat.NewWalker(vol)

	_, err := w.Chain(2)
	assert.Error(t, err)
}

func TestContiguousChain__BuildsSequentialRange(t *testing.T) {
	chain := fat.ContiguousChain(5, 3)
	assert.Equal(t, []uint32{5, 6, 7}, chain)
}
