package dirstream

import (
	"fmt"

	"github.com/lwouis/fatsort-go/device"
	"github.com/lwouis/fatsort-go/ferr"
)

// StaticStream implements SlotStream over a fixed contiguous byte range,
// used for the FAT12/16 root directory which sits outside cluster space
// (spec.md section 4.8). Rewriting a StaticStream writes back to the same
// range; its size never changes.
type StaticStream struct {
	dev    *device.BlockDevice
	offset int64
	count  int
}

// NewStaticStream builds a StaticStream over [offset, offset+length).
func NewStaticStream(dev *device.BlockDevice, offset, length int64) *StaticStream {
	return &StaticStream{
		dev:    dev,
		offset: offset,
		count:  int(length) / SlotSize,
	}
}

func (s *StaticStream) SlotCount() int {
	return s.count
}

func (s *StaticStream) slotOffset(index int) (int64, error) {
	if index < 0 || index >= s.count {
		return 0, ferr.ErrOutOfRange.WithMessage(fmt.Sprintf("slot index %d out of range", index))
	}
	return s.offset + int64(index)*SlotSize, nil
}

func (s *StaticStream) ReadSlot(index int) ([]byte, error) {
	offset, err := s.slotOffset(index)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, SlotSize)
	if err := s.dev.ReadAt(offset, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (s *StaticStream) WriteSlot(index int, data []byte) error {
	if len(data) != SlotSize {
		return ferr.ErrDeviceError.WithMessage("slot write must be exactly 32 bytes")
	}
	offset, err := s.slotOffset(index)
	if err != nil {
		return err
	}
	return s.dev.WriteAt(offset, data)
}
