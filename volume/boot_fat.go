package volume

import (
	"github.com/go-restruct/restruct"

	"github.com/lwouis/fatsort-go/ferr"
)

// rawBPB is the 36-byte BIOS Parameter Block common to FAT12, FAT16 and
// FAT32, decoded with github.com/go-restruct/restruct instead of manual
// binary.Read field plumbing.
type rawBPB struct {
	JmpBoot           [3]byte
	OEMName           [8]byte
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	NumFATs           uint8
	RootEntryCount    uint16
	TotalSectors16    uint16
	Media             uint8
	FATSize16         uint16
	SectorsPerTrack   uint16
	NumHeads          uint16
	HiddenSectors     uint32
	TotalSectors32    uint32
}

// rawFAT32Extension is the portion of the FAT32 boot sector that follows the
// common BPB.
type rawFAT32Extension struct {
	FATSize32      uint32
	ExtFlags       uint16
	FSVersion      uint16
	RootCluster    uint32
	FSInfoSector   uint16
	BackupBootSect uint16
	Reserved       [12]byte
}

func decodeFAT1x32BootSector(sector []byte) (*rawBPB, *rawFAT32Extension, error) {
	if len(sector) < 512 {
		return nil, nil, ferr.ErrBadBootSector.WithMessage("boot sector shorter than 512 bytes")
	}

	bpb := &rawBPB{}
	if err := restruct.Unpack(sector[:36], leOrder, bpb); err != nil {
		return nil, nil, ferr.ErrBadBootSector.WrapError(err)
	}

	var ext *rawFAT32Extension
	if bpb.RootEntryCount == 0 && bpb.FATSize16 == 0 {
		ext = &rawFAT32Extension{}
		if err := restruct.Unpack(sector[36:36+28], leOrder, ext); err != nil {
			return nil, nil, ferr.ErrBadBootSector.WrapError(err)
		}
	}

	return bpb, ext, nil
}
