package sortengine

import (
	"github.com/lwouis/fatsort-go/device"
	"github.com/lwouis/fatsort-go/dirstream"
	"github.com/lwouis/fatsort-go/ferr"
	"github.com/lwouis/fatsort-go/signalguard"
)

// clusterWriter is implemented by dirstream.ChainStream: a stream that can
// commit a whole cluster with one device write.
type clusterWriter interface {
	SlotsPerCluster() int
	WriteCluster(index int, data []byte) error
}

// rewrite implements the rewrite protocol of spec.md section 4.7, wrapped
// in the signal-guarded critical section of section 5.
func rewrite(dev *device.BlockDevice, stream dirstream.SlotStream, ordered []record) error {
	leave, err := signalguard.Enter()
	if err != nil {
		return err
	}
	defer leave()

	var slots [][]byte
	for _, r := range ordered {
		slots = append(slots, r.Slots()...)
	}

	capacity := stream.SlotCount()
	if len(slots) > capacity {
		return ferr.ErrDeviceError.WithMessage("sorted records exceed directory capacity")
	}

	if cw, ok := stream.(clusterWriter); ok {
		if err := rewriteBuffered(cw, stream, slots, capacity); err != nil {
			return err
		}
	} else if err := rewriteDirect(stream, slots, capacity); err != nil {
		return err
	}

	return dev.Sync()
}

// rewriteDirect writes each slot individually, used for dirstream.StaticStream
// (the FAT1x root region has no cluster structure to batch).
func rewriteDirect(stream dirstream.SlotStream, slots [][]byte, capacity int) error {
	for i, slot := range slots {
		if err := stream.WriteSlot(i, slot); err != nil {
			return err
		}
	}
	if len(slots) < capacity {
		if err := stream.WriteSlot(len(slots), make([]byte, dirstream.SlotSize)); err != nil {
			return err
		}
	}
	return nil
}

// rewriteBuffered accumulates one cluster's worth of reordered slots in a
// device.SlotBuffer and commits it with a single WriteCluster call, per
// spec.md section 4.7 ("When a write crosses a cluster boundary, continue
// at the next cluster"). The trailing partial cluster holding the
// terminator is written slot by slot instead, since a bulk cluster write
// would zero bytes beyond the terminator that section 4.7 requires be left
// untouched.
func rewriteBuffered(cw clusterWriter, stream dirstream.SlotStream, slots [][]byte, capacity int) error {
	spc := cw.SlotsPerCluster()
	fullClusters := len(slots) / spc

	buf := device.NewSlotBuffer(spc * dirstream.SlotSize)
	for c := 0; c < fullClusters; c++ {
		buf.Reset()
		for _, slot := range slots[c*spc : (c+1)*spc] {
			buf.PutSlot(slot)
		}
		if err := cw.WriteCluster(c, buf.Bytes()); err != nil {
			return err
		}
	}

	for i := fullClusters * spc; i < len(slots); i++ {
		if err := stream.WriteSlot(i, slots[i]); err != nil {
			return err
		}
	}
	if len(slots) < capacity {
		if err := stream.WriteSlot(len(slots), make([]byte, dirstream.SlotSize)); err != nil {
			return err
		}
	}
	return nil
}
