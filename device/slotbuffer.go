package device

import "github.com/noxer/bytewriter"

// SlotSize is the fixed size of one directory-entry slot on every FAT-family
// variant (spec.md section 3, "Raw entry").
const SlotSize = 32

// SlotBuffer accumulates whole clusters worth of re-ordered 32-byte slots in
// memory before they are committed to the device with a single WriteAt per
// cluster, matching the rewrite protocol of spec.md section 4.7 ("When a
// write crosses a cluster boundary, continue at the next cluster").
type SlotBuffer struct {
	data   []byte
	writer interface {
		Write(p []byte) (int, error)
	}
	offset int
}

// NewSlotBuffer allocates a buffer sized to hold exactly clusterBytes bytes.
func NewSlotBuffer(clusterBytes int) *SlotBuffer {
	data := make([]byte, clusterBytes)
	return &SlotBuffer{
		data:   data,
		writer: bytewriter.New(data),
	}
}

// PutSlot appends one 32-byte slot to the buffer. It panics if the slot isn't
// exactly SlotSize bytes or the buffer is already full; callers always know
// the cluster size up front so neither condition should occur.
func (b *SlotBuffer) PutSlot(slot []byte) {
	if len(slot) != SlotSize {
		panic("device: slot must be exactly SlotSize bytes")
	}
	n, err := b.writer.Write(slot)
	if err != nil {
		panic(err)
	}
	b.offset += n
}

// Remaining reports how many more bytes of slot data the buffer can accept.
func (b *SlotBuffer) Remaining() int {
	return len(b.data) - b.offset
}

// Bytes returns the buffer's full backing array, including any still-zeroed
// trailing bytes.
func (b *SlotBuffer) Bytes() []byte {
	return b.data
}

// Reset clears the buffer for reuse with the next cluster.
func (b *SlotBuffer) Reset() {
	for i := range b.data {
		b.data[i] = 0
	}
	b.writer = bytewriter.New(b.data)
	b.offset = 0
}
