package exfat

import (
	"encoding/binary"

	"github.com/go-restruct/restruct"
)

var leOrder = binary.LittleEndian

// FilePrimary is the 32-byte File primary entry, decoded with
// github.com/go-restruct/restruct.
type FilePrimary struct {
	EntryType          uint8
	SecondaryCount     uint8
	SetChecksum        uint16
	FileAttributes     uint16
	Reserved1          uint16
	CreateTimestamp    uint32
	LastModified       uint32
	LastAccessed       uint32
	Create10ms         uint8
	LastModified10ms   uint8
	CreateUtcOffset    uint8
	LastModifiedOffset uint8
	LastAccessedOffset uint8
	Reserved2          [7]byte
}

// StreamExtension is the secondary entry declaring a file's data stream
// location and name length.
type StreamExtension struct {
	EntryType      uint8
	SecondaryFlags uint8
	Reserved1      uint8
	NameLength     uint8
	NameHash       uint16
	Reserved2      uint16
	ValidDataLen   uint64
	Reserved3      uint32
	FirstCluster   uint32
	DataLength     uint64
}

// NoFatChain reports whether this stream is declared contiguous, bypassing
// the FAT entirely (spec.md section 3).
func (s StreamExtension) NoFatChain() bool {
	return s.SecondaryFlags&0x02 != 0
}

// FileNameExtension is one secondary carrying up to 15 UTF-16LE characters
// of the file name.
type FileNameExtension struct {
	EntryType      uint8
	SecondaryFlags uint8
	FileName       [30]byte // 15 UTF-16LE code units
}

func parseFilePrimary(slot []byte) (FilePrimary, error) {
	var p FilePrimary
	err := restruct.Unpack(slot, leOrder, &p)
	return p, err
}

func parseStreamExtension(slot []byte) (StreamExtension, error) {
	var s StreamExtension
	err := restruct.Unpack(slot, leOrder, &s)
	return s, err
}

func parseFileNameExtension(slot []byte) (FileNameExtension, error) {
	var f FileNameExtension
	err := restruct.Unpack(slot, leOrder, &f)
	return f, err
}
