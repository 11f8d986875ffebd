// Package volume parses and validates the boot sector of a FAT-family volume
// and derives the sector/cluster geometry the rest of the engine needs
// (spec.md section 4.1).
package volume

import (
	"fmt"

	"github.com/boljen/go-bitmap"
	"github.com/dustin/go-humanize"

	"github.com/lwouis/fatsort-go/device"
	"github.com/lwouis/fatsort-go/ferr"
)

// Kind identifies which of the four FAT-family layouts a volume uses.
type Kind int

const (
	FAT12 Kind = iota
	FAT16
	FAT32
	EXFAT
)

func (k Kind) String() string {
	switch k {
	case FAT12:
		return "FAT12"
	case FAT16:
		return "FAT16"
	case FAT32:
		return "FAT32"
	case EXFAT:
		return "exFAT"
	default:
		return "unknown"
	}
}

// RootLocation describes where a volume's root directory lives: either a
// cluster chain (FAT32, exFAT) or a fixed byte range outside cluster space
// (FAT12/16, spec.md section 4.8).
type RootLocation struct {
	// IsStatic is true for the FAT1x fixed-size root region.
	IsStatic bool
	// FirstCluster is valid when !IsStatic.
	FirstCluster uint32
	// StaticOffset/StaticLength (bytes) are valid when IsStatic.
	StaticOffset int64
	StaticLength int64
}

// Volume is the opened, validated geometry of a FAT-family volume, per
// spec.md section 3 ("Volume").
type Volume struct {
	Device *device.BlockDevice
	Kind   Kind

	SectorSize        uint32
	SectorsPerCluster uint32
	ClusterSize       uint32
	NumFATs           uint32
	FATSizeSectors    uint32
	TotalClusters     uint32
	FirstDataSector   uint32
	MaxChainLength    uint32

	// FAT1x/32 only.
	ReservedSectors uint32
	RootEntryCount  uint32
	RootDirSectors  uint32
	FATStartSector  uint32

	// exFAT only.
	ClusterHeapOffsetSectors uint32
	AllocationBitmap         bitmap.Bitmap
	AllocationBitmapLength   int

	Root RootLocation
}

// maxClusterCount is the spec.md section 4.1 cap on FAT12/16/32 cluster
// counts.
const maxClusterCount = 268435445

// Open reads, validates, and derives geometry for the volume backing dev,
// per spec.md section 4.1.
func Open(dev *device.BlockDevice) (*Volume, error) {
	sector0 := make([]byte, 512)
	if err := dev.ReadAt(0, sector0); err != nil {
		return nil, err
	}

	if !looksLikeBootSector(sector0) {
		return nil, ferr.ErrBadBootSector.WithMessage("missing jump instruction or 0x55AA signature")
	}

	if string(sector0[3:11]) == "EXFAT   " {
		return openExFAT(dev, sector0)
	}
	return openFAT1x32(dev, sector0)
}

func looksLikeBootSector(sector0 []byte) bool {
	jumpOK := (sector0[0] == 0xEB && sector0[2] == 0x90) || sector0[0] == 0xE9
	sigOK := sector0[510] == 0x55 && sector0[511] == 0xAA
	return jumpOK && sigOK
}

func openFAT1x32(dev *device.BlockDevice, sector0 []byte) (*Volume, error) {
	bpb, ext, err := decodeFAT1x32BootSector(sector0)
	if err != nil {
		return nil, err
	}

	if bpb.BytesPerSector == 0 || bpb.BytesPerSector%512 != 0 {
		return nil, ferr.ErrBadBootSector.WithMessage("BytesPerSector must be a nonzero multiple of 512")
	}
	if bpb.SectorsPerCluster == 0 {
		return nil, ferr.ErrBadBootSector.WithMessage("SectorsPerCluster must be nonzero")
	}
	clusterSize := uint32(bpb.BytesPerSector) * uint32(bpb.SectorsPerCluster)
	if clusterSize > 65536 {
		return nil, ferr.ErrBadBootSector.WithMessage("cluster size exceeds 64 KiB")
	}
	if bpb.ReservedSectors == 0 {
		return nil, ferr.ErrBadBootSector.WithMessage("ReservedSectors must be nonzero")
	}
	if bpb.NumFATs == 0 {
		return nil, ferr.ErrBadBootSector.WithMessage("NumFATs must be nonzero")
	}

	rootDirSectors := (uint32(bpb.RootEntryCount)*32 + uint32(bpb.BytesPerSector) - 1) / uint32(bpb.BytesPerSector)

	fatSize := uint32(bpb.FATSize16)
	if fatSize == 0 {
		if ext == nil {
			return nil, ferr.ErrBadBootSector.WithMessage("FATSz16 and FATSz32 both zero")
		}
		fatSize = ext.FATSize32
	}

	totalSectors := uint32(bpb.TotalSectors16)
	if totalSectors == 0 {
		totalSectors = bpb.TotalSectors32
	}

	dataSectors := totalSectors - uint32(bpb.ReservedSectors) - uint32(bpb.NumFATs)*fatSize - rootDirSectors
	totalClusters := dataSectors / uint32(bpb.SectorsPerCluster)

	var kind Kind
	switch {
	case totalClusters < 4096:
		kind = FAT12
	case totalClusters < 65525:
		kind = FAT16
	default:
		kind = FAT32
	}

	if kind == FAT32 {
		if bpb.RootEntryCount != 0 {
			return nil, ferr.ErrBadBootSector.WithMessage("FAT32 volume has nonzero RootEntryCount")
		}
		if ext == nil || ext.FATSize32 == 0 {
			return nil, ferr.ErrBadBootSector.WithMessage("FAT32 volume missing FATSz32")
		}
	} else if bpb.RootEntryCount == 0 {
		return nil, ferr.ErrBadBootSector.WithMessage("FAT12/16 volume has zero RootEntryCount")
	}

	if totalClusters > maxClusterCount {
		return nil, ferr.ErrBadBootSector.WithMessage(
			fmt.Sprintf("cluster count %d exceeds maximum of %d", totalClusters, maxClusterCount))
	}

	firstDataSector := uint32(bpb.ReservedSectors) + uint32(bpb.NumFATs)*fatSize + rootDirSectors

	v := &Volume{
		Device:            dev,
		Kind:              kind,
		SectorSize:        uint32(bpb.BytesPerSector),
		SectorsPerCluster: uint32(bpb.SectorsPerCluster),
		ClusterSize:       clusterSize,
		NumFATs:           uint32(bpb.NumFATs),
		FATSizeSectors:    fatSize,
		TotalClusters:     totalClusters,
		FirstDataSector:   firstDataSector,
		MaxChainLength:    totalClusters + 2,
		ReservedSectors:   uint32(bpb.ReservedSectors),
		RootEntryCount:    uint32(bpb.RootEntryCount),
		RootDirSectors:    rootDirSectors,
		FATStartSector:    uint32(bpb.ReservedSectors),
	}

	if kind == FAT32 {
		v.Root = RootLocation{FirstCluster: ext.RootCluster}
	} else {
		v.Root = RootLocation{
			IsStatic:     true,
			StaticOffset: int64(v.ReservedSectors+v.NumFATs*fatSize) * int64(v.SectorSize),
			StaticLength: int64(rootDirSectors) * int64(v.SectorSize),
		}
	}

	return v, nil
}

func openExFAT(dev *device.BlockDevice, sector0 []byte) (*Volume, error) {
	raw, err := decodeExFATBootSector(sector0)
	if err != nil {
		return nil, err
	}

	for _, b := range raw.MustBeZero {
		if b != 0 {
			return nil, ferr.ErrBadBootSector.WithMessage("reserved MustBeZero region is nonzero")
		}
	}
	if raw.BytesPerSectorShift < 9 || raw.BytesPerSectorShift > 12 {
		return nil, ferr.ErrBadBootSector.WithMessage("BytesPerSectorShift out of range [9,12]")
	}
	if uint16(raw.BytesPerSectorShift)+uint16(raw.SectorsPerClusterShift) > 25 {
		return nil, ferr.ErrBadBootSector.WithMessage("BytesPerSectorShift + SectorsPerClusterShift exceeds 25")
	}
	if raw.NumberOfFats != 1 {
		return nil, ferr.ErrBadBootSector.WithMessage("only single-FAT exFAT volumes are supported")
	}
	if raw.FileSystemRevision[1] != 1 || raw.FileSystemRevision[0] != 0 {
		return nil, ferr.ErrBadBootSector.WithMessage("unsupported exFAT revision")
	}
	if uint64(raw.FatOffset) >= raw.VolumeLength {
		return nil, ferr.ErrBadBootSector.WithMessage("FatOffset >= VolumeLength")
	}
	if raw.ClusterCount >= 0xFFFFFFF6 {
		return nil, ferr.ErrBadBootSector.WithMessage("ClusterCount too large")
	}
	if raw.FirstClusterOfRootDirectory > raw.ClusterCount+1 {
		return nil, ferr.ErrBadBootSector.WithMessage("root directory cluster out of range")
	}
	if uint64(raw.ClusterHeapOffset) >= raw.VolumeLength {
		return nil, ferr.ErrBadBootSector.WithMessage("ClusterHeapOffset >= VolumeLength")
	}
	if raw.isDirty() {
		return nil, ferr.ErrVolumeDirty
	}

	sectorSize := uint32(1) << raw.BytesPerSectorShift

	sectors := make([][]byte, 11)
	sectors[0] = sector0
	for i := 1; i < 11; i++ {
		s := make([]byte, 512)
		if err := dev.ReadAt(int64(i)*512, s); err != nil {
			return nil, err
		}
		sectors[i] = s
	}
	checksumSector := make([]byte, 512)
	if err := dev.ReadAt(12*512, checksumSector); err != nil {
		return nil, err
	}
	want := vbrChecksum(sectors)
	for i := 0; i < 512; i += 4 {
		got := leOrder.Uint32(checksumSector[i : i+4])
		if got != want {
			return nil, ferr.ErrChecksumMismatch.WithMessage("exFAT VBR checksum mismatch")
		}
	}

	v := &Volume{
		Device:                   dev,
		Kind:                     EXFAT,
		SectorSize:               sectorSize,
		SectorsPerCluster:        1 << raw.SectorsPerClusterShift,
		NumFATs:                  uint32(raw.NumberOfFats),
		FATSizeSectors:           raw.FatLength,
		TotalClusters:            raw.ClusterCount,
		FirstDataSector:          raw.ClusterHeapOffset,
		MaxChainLength:           raw.ClusterCount + 2,
		FATStartSector:           raw.FatOffset,
		ClusterHeapOffsetSectors: raw.ClusterHeapOffset,
		Root: RootLocation{
			FirstCluster: raw.FirstClusterOfRootDirectory,
		},
	}
	v.ClusterSize = v.SectorSize * v.SectorsPerCluster

	return v, nil
}

// ClusterOffset returns the byte offset of the first byte of the given
// cluster's data region.
func (v *Volume) ClusterOffset(cluster uint32) int64 {
	return int64(v.FirstDataSector)*int64(v.SectorSize) + int64(cluster-2)*int64(v.ClusterSize)
}

// SetAllocationBitmap records the decoded exFAT allocation bitmap bytes.
// Open does not locate or load the bitmap, so until this is called
// AllocatedClusters counts zero and FreeClusters returns -1.
func (v *Volume) SetAllocationBitmap(data []byte) {
	v.AllocationBitmap = bitmap.Bitmap(data)
	v.AllocationBitmapLength = len(data) * 8
}

// AllocatedClusters returns the number of set bits in the exFAT allocation
// bitmap, via github.com/boljen/go-bitmap.
func (v *Volume) AllocatedClusters() int {
	count := 0
	for i := 0; i < v.AllocationBitmapLength; i++ {
		if v.AllocationBitmap.Get(i) {
			count++
		}
	}
	return count
}

// FreeClusters reports the number of unallocated clusters, derived from the
// exFAT allocation bitmap. It returns -1 for FAT1x/32 volumes and for an
// exFAT volume whose bitmap has not been set; no FAT scan is performed.
func (v *Volume) FreeClusters() int {
	if v.Kind == EXFAT && v.AllocationBitmapLength > 0 {
		return int(v.TotalClusters) - v.AllocatedClusters()
	}
	return -1
}

// DescribeGeometry renders a human-readable summary of the volume's
// geometry for diagnostic logging, using github.com/dustin/go-humanize.
func (v *Volume) DescribeGeometry() string {
	return fmt.Sprintf(
		"%s volume: %s/cluster, %d clusters (%s total)",
		v.Kind,
		humanize.IBytes(uint64(v.ClusterSize)),
		v.TotalClusters,
		humanize.IBytes(uint64(v.TotalClusters)*uint64(v.ClusterSize)),
	)
}
