package sortengine

import (
	"github.com/lwouis/fatsort-go/compare"
	"github.com/lwouis/fatsort-go/dirent"
	"github.com/lwouis/fatsort-go/dirstream"
	"github.com/lwouis/fatsort-go/exfat"
	"github.com/lwouis/fatsort-go/volume"
)

// record is the common shape of dirent.Record and exfat.EntrySet: a
// comparable directory entry that knows its own raw on-disk slots.
type record interface {
	compare.Record
	Slots() [][]byte
}

// assemble reads every record out of stream, dispatching to the FAT1x/32 or
// exFAT assembler per vol.Kind, per spec.md sections 4.4 and 4.5.
func assemble(stream dirstream.SlotStream, kind volume.Kind) ([]record, error) {
	if kind == volume.EXFAT {
		sets, err := exfat.AssembleEntrySets(stream)
		if err != nil {
			return nil, err
		}
		out := make([]record, len(sets))
		for i, s := range sets {
			out[i] = s
		}
		return out, nil
	}

	recs, err := dirent.AssembleRecords(stream)
	if err != nil {
		return nil, err
	}
	out := make([]record, len(recs))
	for i, r := range recs {
		out[i] = r
	}
	return out, nil
}
