package dirent

import (
	"github.com/lwouis/fatsort-go/dirstream"
	"github.com/lwouis/fatsort-go/ferr"
)

// Record is a short entry plus any preceding long-filename entries, per
// spec.md section 3 ("Record (FAT1x/32)").
type Record struct {
	Short        ShortEntry
	LongEntries  []LongEntry // stream order: entries[0] carries the LAST flag
	ShortNameStr string
	LongName     string
	SlotCount    int
	FirstSlot    int
}

// DisplayName returns the decoded long name if non-empty, else the short
// name, per spec.md section 4.6.
func (r *Record) DisplayName() string {
	if r.LongName != "" {
		return r.LongName
	}
	return r.ShortNameStr
}

// ShortName returns the decoded 8.3 short name, used by the comparator's
// positional overrides for "." and "..".
func (r *Record) ShortName() string { return r.ShortNameStr }

// Slots returns this record's raw 32-byte slots in write order: long
// entries first (stream order), then the short entry, per spec.md
// section 4.7.
func (r *Record) Slots() [][]byte {
	slots := make([][]byte, 0, len(r.LongEntries)+1)
	for _, e := range r.LongEntries {
		slots = append(slots, e.Raw)
	}
	return append(slots, r.Short.Raw)
}

func (r *Record) IsDeleted() bool      { return r.Short.IsDeleted() }
func (r *Record) IsDirectory() bool    { return r.Short.IsDirectory() }
func (r *Record) IsVolumeLabel() bool  { return r.Short.IsVolumeLabel() }

// ModTimeKey packs the write date/time for the modification-time sort
// option, per spec.md section 4.6: "(write-date << 16) | write-time".
func (r *Record) ModTimeKey() uint64 {
	return uint64(r.Short.WriteDate)<<16 | uint64(r.Short.WriteTime)
}

// AssembleRecords folds the raw 32-byte slot stream into Records, per the
// state machine table of spec.md section 4.4.
func AssembleRecords(s dirstream.SlotStream) ([]*Record, error) {
	var records []*Record
	var pending []LongEntry
	pendingFirstSlot := -1

	count := s.SlotCount()
	for i := 0; i < count; i++ {
		slot, err := s.ReadSlot(i)
		if err != nil {
			return nil, err
		}

		firstByte := slot[0]
		attr := slot[11]

		if firstByte == slotFreeRest {
			if len(pending) > 0 {
				return nil, ferr.ErrOrphanLongEntries
			}
			return records, nil
		}

		if isLongNameSlot(firstByte, attr) {
			if len(pending) == 0 {
				pendingFirstSlot = i
			}
			pending = append(pending, parseLongEntry(slot, i))
			continue
		}

		short := parseShortEntry(slot, i)

		if short.IsDeleted() {
			rec, err := finishRecord(short, pending, pendingFirstSlot, true)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
			pending = nil
			pendingFirstSlot = -1
			continue
		}

		rec, err := finishRecord(short, pending, pendingFirstSlot, false)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
		pending = nil
		pendingFirstSlot = -1
	}

	if len(pending) > 0 {
		return nil, ferr.ErrOrphanLongEntries
	}
	return records, nil
}

// finishRecord validates and emits a record for the short entry plus the
// currently accumulated long-entry list, per spec.md section 4.4's
// post-emission invariants. When the short entry is a deleted placeholder,
// the invariant check is skipped per spec.md section 3: "the long-entry
// list allowed to be empty or to contain deleted long entries, both of
// which are skipped in the invariant check".
func finishRecord(short ShortEntry, pending []LongEntry, firstSlot int, deleted bool) (*Record, error) {
	rec := &Record{
		Short:        short,
		LongEntries:  append([]LongEntry(nil), pending...),
		ShortNameStr: short.DecodeShortName(),
		SlotCount:    1 + len(pending),
	}
	if firstSlot >= 0 {
		rec.FirstSlot = firstSlot
	} else {
		rec.FirstSlot = short.SlotIndex
	}

	if !deleted && len(pending) > 0 {
		if err := verifyLongEntries(short, pending); err != nil {
			return nil, err
		}
		rec.LongName = assembleLongName(pending)
	}

	return rec, nil
}

// verifyLongEntries checks the invariants of spec.md section 3: the
// earliest (stream-order first) long entry carries the LAST flag, each
// entry's ordinal matches its reverse position, and each entry's checksum
// matches the short entry's name.
func verifyLongEntries(short ShortEntry, pending []LongEntry) error {
	n := len(pending)
	if !pending[0].IsLast() {
		return ferr.ErrBadOrdinal.WithMessage("first long entry missing LAST flag")
	}

	wantChecksum := longNameChecksum(short.NameRaw)
	for i, e := range pending {
		// pending[0] is sequence number n, pending[n-1] is sequence number 1.
		wantSeq := uint8(n - i)
		if e.SequenceNumber() != wantSeq {
			return ferr.ErrBadOrdinal.WithMessage("long entry ordinal out of sequence")
		}
		if e.Checksum != wantChecksum {
			return ferr.ErrChecksumMismatch.WithMessage("long entry checksum does not match short name")
		}
	}
	return nil
}
