package exfat_test

import (
	"encoding/binary"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwouis/fatsort-go/exfat"
)

type fakeStream struct {
	slots [][]byte
}

func (s *fakeStream) SlotCount() int { return len(s.slots) }
func (s *fakeStream) ReadSlot(i int) ([]byte, error) {
	return s.slots[i], nil
}
func (s *fakeStream) WriteSlot(i int, data []byte) error {
	s.slots[i] = append([]byte(nil), data...)
	return nil
}

// checksum replicates the exFAT entry-set checksum (spec.md section 3): a
// 16-bit rotate-and-add over every byte of the set, skipping bytes 2-3 of
// the primary (the checksum field itself).
func checksum(slots [][]byte) uint16 {
	var sum uint16
	for slotIdx, slot := range slots {
		for i, b := range slot {
			if slotIdx == 0 && (i == 2 || i == 3) {
				continue
			}
			sum = (sum>>1 | sum<<15) + uint16(b)
		}
	}
	return sum
}

func fileNameExtSlot(name string, inUse bool) []byte {
	slot := make([]byte, 32)
	if inUse {
		slot[0] = exfat.TypeFileNameExtension
	} else {
		slot[0] = exfat.TypeFileNameExtDeleted
	}
	units := utf16.Encode([]rune(name))
	for i, u := range units {
		binary.LittleEndian.PutUint16(slot[2+i*2:], u)
	}
	return slot
}

func streamExtSlot(nameLength int, inUse bool) []byte {
	slot := make([]byte, 32)
	if inUse {
		slot[0] = exfat.TypeStreamExtension
	} else {
		slot[0] = exfat.TypeStreamExtDeleted
	}
	slot[3] = byte(nameLength)
	return slot
}

func filePrimarySlot(secondaryCount int, inUse bool) []byte {
	slot := make([]byte, 32)
	if inUse {
		slot[0] = exfat.TypeFile
	} else {
		slot[0] = exfat.TypeFileDeleted
	}
	slot[1] = byte(secondaryCount)
	return slot
}

func buildFileSet(name string, inUse bool) [][]byte {
	primary := filePrimarySlot(2, inUse)
	stream := streamExtSlot(len(name), inUse)
	nameExt := fileNameExtSlot(name, inUse)
	slots := [][]byte{primary, stream, nameExt}
	binary.LittleEndian.PutUint16(primary[2:], checksum(slots))
	return slots
}

func TestAssembleEntrySets__SingleFileEntrySet(t *testing.T) {
	slots := buildFileSet("hi.txt", true)
	slots = append(slots, make([]byte, 32)) // end of directory
	stream := &fakeStream{slots: slots}

	sets, err := exfat.AssembleEntrySets(stream)
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, "hi.txt", sets[0].DisplayName())
	assert.True(t, sets[0].InUse)
	assert.False(t, sets[0].IsDeleted())
}

func TestAssembleEntrySets__DeletedFileEntrySet(t *testing.T) {
	slots := buildFileSet("gone.txt", false)
	slots = append(slots, make([]byte, 32))
	stream := &fakeStream{slots: slots}

	sets, err := exfat.AssembleEntrySets(stream)
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.True(t, sets[0].IsDeleted())
}

func TestAssembleEntrySets__ChecksumMismatchErrors(t *testing.T) {
	slots := buildFileSet("hi.txt", true)
	slots[0][2] ^= 0xFF // corrupt the checksum field
	slots = append(slots, make([]byte, 32))
	stream := &fakeStream{slots: slots}

	_, err := exfat.AssembleEntrySets(stream)
	assert.Error(t, err)
}

func TestAssembleEntrySets__IncompleteSetErrors(t *testing.T) {
	primary := filePrimarySlot(2, true)
	stream := &fakeStream{slots: [][]byte{primary}} // missing its secondaries

	_, err := exfat.AssembleEntrySets(stream)
	assert.Error(t, err)
}

func TestAssembleEntrySets__SecondaryCountOutOfRangeErrors(t *testing.T) {
	primary := filePrimarySlot(99, true)
	stream := &fakeStream{slots: [][]byte{primary, make([]byte, 32)}}

	_, err := exfat.AssembleEntrySets(stream)
	assert.Error(t, err)
}

func TestAssembleEntrySets__SecondaryWithoutPrimaryErrors(t *testing.T) {
	orphan := streamExtSlot(3, true)
	stream := &fakeStream{slots: [][]byte{orphan, make([]byte, 32)}}

	_, err := exfat.AssembleEntrySets(stream)
	assert.Error(t, err)
}
