// Package dirstream exposes a directory's on-disk storage — a cluster chain
// or, for FAT1x, a fixed byte range — as a flat sequence of 32-byte slots
// with seek-to-slot semantics (spec.md sections 4.3 and 4.8).
package dirstream

import "github.com/lwouis/fatsort-go/device"

// SlotSize is the fixed size of one directory-entry slot.
const SlotSize = device.SlotSize

// SlotStream is the common interface the record assemblers and the writer
// use, so the rewrite logic in spec.md section 4.7 is written once for both
// cluster chains and the FAT1x static root region (spec.md section 4.8).
type SlotStream interface {
	// SlotCount returns the total number of 32-byte slots in the stream.
	SlotCount() int
	// ReadSlot reads the slot at the given index.
	ReadSlot(index int) ([]byte, error)
	// WriteSlot writes the slot at the given index.
	WriteSlot(index int, data []byte) error
}
