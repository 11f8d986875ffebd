package volume

import (
	"github.com/go-restruct/restruct"

	"github.com/lwouis/fatsort-go/ferr"
)

// rawExFATBootSector is the exFAT main boot sector, decoded with
// github.com/go-restruct/restruct (spec.md section 4.1, "exFAT validation").
type rawExFATBootSector struct {
	JumpBoot                    [3]byte
	FileSystemName              [8]byte
	MustBeZero                  [53]byte
	PartitionOffset             uint64
	VolumeLength                uint64
	FatOffset                   uint32
	FatLength                   uint32
	ClusterHeapOffset           uint32
	ClusterCount                uint32
	FirstClusterOfRootDirectory uint32
	VolumeSerialNumber          uint32
	FileSystemRevision          [2]uint8
	VolumeFlags                 uint16
	BytesPerSectorShift         uint8
	SectorsPerClusterShift      uint8
	NumberOfFats                uint8
	DriveSelect                 uint8
	PercentInUse                uint8
	Reserved                    [7]byte
}

const (
	exfatVolumeFlagDirty = 1 << 1
)

func decodeExFATBootSector(sector []byte) (*rawExFATBootSector, error) {
	if len(sector) < 512 {
		return nil, ferr.ErrBadBootSector.WithMessage("boot sector shorter than 512 bytes")
	}

	raw := &rawExFATBootSector{}
	if err := restruct.Unpack(sector[:120], leOrder, raw); err != nil {
		return nil, ferr.ErrBadBootSector.WrapError(err)
	}
	return raw, nil
}

func (r *rawExFATBootSector) isDirty() bool {
	return r.VolumeFlags&exfatVolumeFlagDirty != 0
}

// vbrChecksum computes the exFAT VBR checksum over the first eleven 512-byte
// sectors, excluding bytes 106, 107 and 112 of sector 0 (the VolumeFlags and
// PercentInUse fields), per spec.md section 4.1.
func vbrChecksum(sectors [][]byte) uint32 {
	var ck uint32
	for sectorIdx, sector := range sectors {
		for i, b := range sector {
			if sectorIdx == 0 && (i == 106 || i == 107 || i == 112) {
				continue
			}
			ck = (ck>>1 | ck<<31) + uint32(b)
		}
	}
	return ck
}
