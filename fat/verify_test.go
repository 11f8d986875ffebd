package fat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"

	"github.com/lwouis/fatsort-go/device"
	"github.com/lwouis/fatsort-go/fat"
	"github.com/lwouis/fatsort-go/volume"
)

func TestVerifyCopies__MatchingFATsPass(t *testing.T) {
	image := make([]byte, 4096)
	for i := 0; i < 100; i++ {
		image[512+i] = byte(i)
		image[1024+i] = byte(i)
	}
	dev := device.Open(bytesextra.NewReadWriteSeeker(image))
	vol := &volume.Volume{
		SectorSize:     512,
		FATStartSector: 1,
		FATSizeSectors: 1,
		NumFATs:        2,
	}

	assert.NoError(t, fat.VerifyCopies(dev, vol))
}

func TestVerifyCopies__DivergentCopyErrors(t *testing.T) {
	image := make([]byte, 4096)
	image[512] = 0xAA
	image[1024] = 0xBB
	dev := device.Open(bytesextra.NewReadWriteSeeker(image))
	vol := &volume.Volume{
		SectorSize:     512,
		FATStartSector: 1,
		FATSizeSectors: 1,
		NumFATs:        2,
	}

	assert.Error(t, fat.VerifyCopies(dev, vol))
}

func TestVerifyCopies__ReportsEveryDivergentCopyNotJustFirst(t *testing.T) {
	image := make([]byte, 4096)
	image[512] = 0xAA  // FAT 1
	image[1024] = 0xBB // FAT 2, diverges
	image[1536] = 0xCC // FAT 3, diverges
	dev := device.Open(bytesextra.NewReadWriteSeeker(image))
	vol := &volume.Volume{
		SectorSize:     512,
		FATStartSector: 1,
		FATSizeSectors: 1,
		NumFATs:        3,
	}

	err := fat.VerifyCopies(dev, vol)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FAT copy 2")
	assert.Contains(t, err.Error(), "FAT copy 3")
}

func TestVerifyCopies__SingleFATSkipsCheck(t *testing.T) {
	image := make([]byte, 4096)
	dev := device.Open(bytesextra.NewReadWriteSeeker(image))
	vol := &volume.Volume{SectorSize: 512, FATStartSector: 1, FATSizeSectors: 1, NumFATs: 1}

	assert.NoError(t, fat.VerifyCopies(dev, vol))
}
