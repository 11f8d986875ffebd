package exfat

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"

	"github.com/lwouis/fatsort-go/dirstream"
	"github.com/lwouis/fatsort-go/ferr"
)

var utf16leDecoder = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()

// EntrySet is a primary entry plus its ordered secondaries, per spec.md
// section 3 ("Entry set (exFAT)").
type EntrySet struct {
	PrimaryType PrimaryType
	RawSlots    [][]byte // every slot belonging to this set, in stream order
	FirstSlot   int
	InUse       bool

	// Populated only when PrimaryType == PrimaryFile.
	File       FilePrimary
	Stream     StreamExtension
	Name       string
	NameLength int
}

func (s *EntrySet) SlotCount() int { return len(s.RawSlots) }

// Slots returns the set's raw 32-byte slots in write order: primary
// followed by its secondaries, exactly as assembled.
func (s *EntrySet) Slots() [][]byte { return s.RawSlots }

func (s *EntrySet) IsDeleted() bool { return !s.InUse }

// IsDirectory reports whether this File entry set's attributes mark it as a
// subdirectory. Non-File primaries are never directories.
func (s *EntrySet) IsDirectory() bool {
	const attrDirectory = 0x10
	return s.PrimaryType == PrimaryFile && s.File.FileAttributes&attrDirectory != 0
}

func (s *EntrySet) IsVolumeLabel() bool {
	return s.PrimaryType == PrimaryVolumeLabel
}

func (s *EntrySet) DisplayName() string { return s.Name }

// ShortName always returns the empty string: exFAT has no short-name
// concept and no "." / ".." entries, so the positional overrides in spec.md
// section 4.6 that key on a literal short name never fire for exFAT
// records.
func (s *EntrySet) ShortName() string { return "" }

// ModTimeKey packs the exFAT modification timestamp for the
// modification-time sort option, per spec.md section 4.6:
// "(last-modified-time << 8) | last-modified-ms".
func (s *EntrySet) ModTimeKey() uint64 {
	if s.PrimaryType != PrimaryFile {
		return 0
	}
	return uint64(s.File.LastModified)<<8 | uint64(s.File.LastModified10ms)
}

const (
	minSecondaryCount = 2
	maxSecondaryCount = 18
	maxNameCharsPerExt = 15
)

// AssembleEntrySets implements the idle/collecting state machine of spec.md
// section 4.5.
func AssembleEntrySets(s dirstream.SlotStream) ([]*EntrySet, error) {
	var sets []*EntrySet
	count := s.SlotCount()

	i := 0
	for i < count {
		slot, err := s.ReadSlot(i)
		if err != nil {
			return nil, err
		}
		typeByte := slot[0]

		if isEndOfDirectory(typeByte) {
			return sets, nil
		}

		if isSecondary(typeByte) {
			return nil, ferr.ErrIncompleteSet.WithMessage("secondary entry without a preceding primary")
		}

		if classifyPrimary(typeByte) == PrimaryFile {
			set, consumed, err := assembleFileSet(s, i, count)
			if err != nil {
				return nil, err
			}
			sets = append(sets, set)
			i += consumed
			continue
		}

		// Singleton primary: Volume Label, Allocation Bitmap, Upcase Table,
		// Volume GUID, TexFAT Padding, WinCE Access Control.
		sets = append(sets, &EntrySet{
			PrimaryType: classifyPrimary(typeByte),
			RawSlots:    [][]byte{slot},
			FirstSlot:   i,
			InUse:       isInUse(typeByte),
		})
		i++
	}

	return sets, nil
}

func assembleFileSet(s dirstream.SlotStream, start, count int) (*EntrySet, int, error) {
	primarySlot, err := s.ReadSlot(start)
	if err != nil {
		return nil, 0, err
	}
	inUse := isInUse(primarySlot[0])

	primary, err := parseFilePrimary(primarySlot)
	if err != nil {
		return nil, 0, err
	}

	secondaryCount := int(primary.SecondaryCount)
	if secondaryCount < minSecondaryCount || secondaryCount > maxSecondaryCount {
		return nil, 0, ferr.ErrBadSecondaryCount.WithMessage(
			fmt.Sprintf("secondary count %d out of range [2,18]", secondaryCount))
	}

	expected := secondaryCount + 1
	if start+expected > count {
		return nil, 0, ferr.ErrIncompleteSet
	}

	rawSlots := make([][]byte, 0, expected)
	rawSlots = append(rawSlots, primarySlot)

	streamSlot, err := s.ReadSlot(start + 1)
	if err != nil {
		return nil, 0, err
	}
	if !isSecondary(streamSlot[0]) || isInUse(streamSlot[0]) != inUse {
		return nil, 0, ferr.ErrIncompleteSet.WithMessage("first secondary is not a matching Stream Extension")
	}
	stream, err := parseStreamExtension(streamSlot)
	if err != nil {
		return nil, 0, err
	}
	rawSlots = append(rawSlots, streamSlot)

	nameExtCount := secondaryCount - 1
	var nameBytes []byte
	for k := 0; k < nameExtCount; k++ {
		slot, err := s.ReadSlot(start + 2 + k)
		if err != nil {
			return nil, 0, err
		}
		if !isSecondary(slot[0]) || isInUse(slot[0]) != inUse {
			return nil, 0, ferr.ErrIncompleteSet.WithMessage("expected File Name Extension secondary")
		}
		fnExt, err := parseFileNameExtension(slot)
		if err != nil {
			return nil, 0, err
		}
		rawSlots = append(rawSlots, slot)
		nameBytes = append(nameBytes, fnExt.FileName[:]...)
	}

	nameLength := int(stream.NameLength)
	if nameLength > maxNameCharsPerExt*nameExtCount {
		return nil, 0, ferr.ErrBadSecondaryCount.WithMessage("name-length exceeds available name extensions")
	}

	wantChecksum := computeSetChecksum(rawSlots)
	if inUse && wantChecksum != primary.SetChecksum {
		return nil, 0, ferr.ErrChecksumMismatch.WithMessage("exFAT entry-set checksum mismatch")
	}

	name := decodeName(nameBytes, nameLength)

	set := &EntrySet{
		PrimaryType: PrimaryFile,
		RawSlots:    rawSlots,
		FirstSlot:   start,
		InUse:       inUse,
		File:        primary,
		Stream:      stream,
		Name:        name,
		NameLength:  nameLength,
	}
	return set, expected, nil
}

// computeSetChecksum implements the 16-bit rotate-and-add checksum over all
// bytes of the set, skipping bytes 2-3 of the File entry (the checksum field
// itself), per spec.md section 3.
func computeSetChecksum(slots [][]byte) uint16 {
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

// decodeName transcodes the UTF-16LE name extensions, truncated to
// nameLength code units, to the platform-local encoding, replacing
// unencodable code points with '?' per spec.md section 4.5.
func decodeName(nameBytes []byte, nameLength int) string {
	wantBytes := nameLength * 2
	if wantBytes > len(nameBytes) {
		wantBytes = len(nameBytes)
	}
	truncated := nameBytes[:wantBytes]

	// The decoder substitutes U+FFFD for an unpaired surrogate instead of
	// failing, so unpaired surrogates are turned into '?' before decoding.
	for i := 0; i+1 < len(truncated); i += 2 {
		unit := uint16(truncated[i]) | uint16(truncated[i+1])<<8
		if unit >= 0xD800 && unit <= 0xDBFF && i+3 < len(truncated) {
			next := uint16(truncated[i+2]) | uint16(truncated[i+3])<<8
			if next >= 0xDC00 && next <= 0xDFFF {
				i += 2
				continue
			}
		}
		if unit >= 0xD800 && unit <= 0xDFFF {
			truncated[i], truncated[i+1] = '?', 0
		}
	}

	decoded, err := utf16leDecoder.Bytes(truncated)
	if err != nil {
		return replaceUnencodable(truncated)
	}
	return string(decoded)
}

// replaceUnencodable is the fallback path for when the decoder returns an
// error: decode manually, substituting '?' for every surrogate code unit,
// paired or not, per spec.md section 4.5.
func replaceUnencodable(raw []byte) string {
	var out []rune
	for i := 0; i+1 < len(raw); i += 2 {
		unit := uint16(raw[i]) | uint16(raw[i+1])<<8
		if unit >= 0xD800 && unit <= 0xDFFF {
			out = append(out, '?')
			continue
		}
		out = append(out, rune(unit))
	}
	return string(out)
}
