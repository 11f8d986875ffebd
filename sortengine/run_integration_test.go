package sortengine_test

import (
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"

	"github.com/lwouis/fatsort-go/compare"
	"github.com/lwouis/fatsort-go/device"
	"github.com/lwouis/fatsort-go/dirent"
	"github.com/lwouis/fatsort-go/sortengine"
	"github.com/lwouis/fatsort-go/volume"
)

// These tests drive the whole pipeline (volume.Open -> sortengine.Run,
// which in turn walks fat.Walker, reads through dirstream.ChainStream, and
// assembles records via dirent.AssembleRecords and compare.New) over a
// synthetic FAT32 volume built byte-for-byte in memory, covering spec.md
// section 8's end-to-end scenarios S3 and S6.

const (
	fixtureSectorSize      = 512
	fixtureReservedSectors = 32
	fixtureFATSizeSectors  = 1
	fixtureSlotsPerCluster = fixtureSectorSize / 32
)

// fat32Fixture is a minimal synthetic FAT32 volume: one FAT, a root
// directory of a chosen number of chained clusters starting at cluster 2,
// and a declared total sector count large enough to classify as FAT32
// (totalClusters >= 65525) without backing that many bytes — only the boot
// sector, the single FAT sector, and the root clusters the test actually
// touches are real, allocated bytes.
type fat32Fixture struct {
	buf []byte
	vol *volume.Volume
}

func newFAT32Fixture(t *testing.T, rootClusters int) *fat32Fixture {
	t.Helper()

	dataEnd := fixtureReservedSectors*fixtureSectorSize + fixtureFATSizeSectors*fixtureSectorSize + rootClusters*fixtureSectorSize
	buf := make([]byte, dataEnd)

	sector := buf[0:512]
	sector[0], sector[1], sector[2] = 0xEB, 0x3C, 0x90
	sector[510], sector[511] = 0x55, 0xAA

	le := binary.LittleEndian
	le.PutUint16(sector[11:], fixtureSectorSize)
	sector[13] = 1 // sectors per cluster
	le.PutUint16(sector[14:], fixtureReservedSectors)
	sector[16] = 1 // NumFATs
	le.PutUint16(sector[17:], 0) // RootEntryCount, zero for FAT32
	le.PutUint16(sector[19:], 0) // TotalSectors16, zero so TotalSectors32 is used
	sector[21] = 0xF8
	le.PutUint16(sector[22:], 0) // FATSz16, zero so the FAT32 extension is used

	totalClusters := uint32(65525 + 40)
	totalSectors32 := uint32(fixtureReservedSectors) + uint32(fixtureFATSizeSectors) + totalClusters
	le.PutUint32(sector[32:], totalSectors32)
	le.PutUint32(sector[36:], fixtureFATSizeSectors) // FATSz32
	le.PutUint32(sector[44:], 2)                     // root cluster

	fatBase := fixtureReservedSectors * fixtureSectorSize
	for i := 0; i < rootClusters; i++ {
		cluster := uint32(2 + i)
		entry := cluster + 1
		if i == rootClusters-1 {
			entry = 0x0FFFFFFF
		}
		binary.LittleEndian.PutUint32(buf[fatBase+int(cluster)*4:], entry)
	}

	dev := device.Open(bytesextra.NewReadWriteSeeker(buf))
	vol, err := volume.Open(dev)
	require.NoError(t, err)
	require.Equal(t, volume.FAT32, vol.Kind)

	return &fat32Fixture{buf: buf, vol: vol}
}

func (f *fat32Fixture) slotOffset(globalSlot int) int64 {
	clusterIdx := globalSlot / fixtureSlotsPerCluster
	within := globalSlot % fixtureSlotsPerCluster
	return f.vol.ClusterOffset(uint32(2+clusterIdx)) + int64(within)*32
}

func (f *fat32Fixture) putSlot(globalSlot int, slot []byte) {
	off := f.slotOffset(globalSlot)
	copy(f.buf[off:off+32], slot)
}

func (f *fat32Fixture) slotAt(globalSlot int) []byte {
	off := f.slotOffset(globalSlot)
	return f.buf[off : off+32]
}

// shortSlot builds a bare short directory entry with an 8-character base
// name and no extension, cluster, size, or timestamp.
func shortSlot(name string, attr byte) []byte {
	slot := make([]byte, 32)
	for i := 0; i < 11; i++ {
		slot[i] = ' '
	}
	copy(slot[0:8], name)
	slot[11] = attr
	return slot
}

func shortDisplayName(slot []byte) string {
	end := 8
	for end > 0 && slot[end-1] == ' ' {
		end--
	}
	return string(slot[0:end])
}

func TestRun__S3FAT32ReverseOrdersFilesDescending(t *testing.T) {
	fx := newFAT32Fixture(t, 1)
	names := []string{"a", "b", "c"}
	for i, name := range names {
		fx.putSlot(i, shortSlot(name, dirent.AttrArchive))
	}

	cfg := &sortengine.Config{Compare: compare.Options{Order: compare.OrderASCII, Reverse: true}}
	_, err := sortengine.Run(cfg, fx.vol)
	require.NoError(t, err)

	got := []string{
		shortDisplayName(fx.slotAt(0)),
		shortDisplayName(fx.slotAt(1)),
		shortDisplayName(fx.slotAt(2)),
	}
	assert.Equal(t, []string{"c", "b", "a"}, got)
	assert.Equal(t, byte(0), fx.slotAt(3)[0])
}

func TestRun__S6FAT32ListOnlyReportsStreamOrderWithoutWriting(t *testing.T) {
	const recordCount = 18
	clusters := (recordCount+1+fixtureSlotsPerCluster-1) / fixtureSlotsPerCluster
	fx := newFAT32Fixture(t, clusters)

	var inserted []string
	for i := 0; i < recordCount; i++ {
		name := fmt.Sprintf("F%02d", recordCount-1-i)
		fx.putSlot(i, shortSlot(name, dirent.AttrArchive))
		inserted = append(inserted, name)
	}

	before := append([]byte(nil), fx.buf...)

	cfg := &sortengine.Config{
		Compare:  compare.Options{Order: compare.OrderASCII, ListingOnly: true},
		ListOnly: true,
	}
	report, err := sortengine.Run(cfg, fx.vol)
	require.NoError(t, err)

	require.Len(t, report.Rows, recordCount)
	for i, row := range report.Rows {
		assert.Equal(t, inserted[i], row.DisplayName)
	}

	assert.Equal(t, before, fx.buf)
}
