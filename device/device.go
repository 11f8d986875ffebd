// Package device provides a byte-addressable view of the block device backing a
// FAT-family volume, with optional sector-aligned buffering for platforms that
// require it (spec.md section 6, "Device I/O").
package device

import (
	"io"

	"github.com/lwouis/fatsort-go/ferr"
)

// AlignmentHint is implemented by backing stores that require sector-aligned
// I/O. When a stream reports a nonzero alignment, BlockDevice routes reads and
// writes through a one-sector write-through cache.
type AlignmentHint interface {
	AlignmentBytes() int
}

// Syncer is implemented by backing stores that can flush buffered writes to
// stable storage.
type Syncer interface {
	Sync() error
}

// Closer is implemented by backing stores that own an OS resource.
type Closer interface {
	Close() error
}

// BlockDevice exposes byte-absolute, 64-bit-offset read/write/sync/close
// over an underlying io.ReadWriteSeeker, per spec.md section 6. It is the sole
// I/O surface every other package in this module goes through.
type BlockDevice struct {
	stream io.ReadWriteSeeker
	cache  *sectorCache
}

// Open wraps an already-opened stream (a real file, or, in tests, an
// in-memory buffer from github.com/xaionaro-go/bytesextra) as a BlockDevice.
// If the stream implements AlignmentHint with a nonzero value, all I/O is
// routed through an internal sector cache.
func Open(stream io.ReadWriteSeeker) *BlockDevice {
	dev := &BlockDevice{stream: stream}
	if hinter, ok := stream.(AlignmentHint); ok {
		if n := hinter.AlignmentBytes(); n > 0 {
			dev.cache = newSectorCache(stream, n)
		}
	}
	return dev
}

// ReadAt reads len(buf) bytes starting at the given byte offset.
func (d *BlockDevice) ReadAt(offset int64, buf []byte) error {
	if d.cache != nil {
		return d.cache.readAt(offset, buf)
	}
	if _, err := d.stream.Seek(offset, io.SeekStart); err != nil {
		return ferr.ErrDeviceError.WrapError(err)
	}
	if _, err := io.ReadFull(d.stream, buf); err != nil {
		return ferr.ErrDeviceError.WrapError(err)
	}
	return nil
}

// WriteAt writes buf starting at the given byte offset.
func (d *BlockDevice) WriteAt(offset int64, buf []byte) error {
	if d.cache != nil {
		return d.cache.writeAt(offset, buf)
	}
	if _, err := d.stream.Seek(offset, io.SeekStart); err != nil {
		return ferr.ErrDeviceError.WrapError(err)
	}
	if _, err := d.stream.Write(buf); err != nil {
		return ferr.ErrDeviceError.WrapError(err)
	}
	return nil
}

// Sync flushes any buffered writes (the sector cache, if present, then the
// backing stream if it supports syncing).
func (d *BlockDevice) Sync() error {
	if d.cache != nil {
		if err := d.cache.flush(); err != nil {
			return ferr.ErrDeviceError.WrapError(err)
		}
	}
	if syncer, ok := d.stream.(Syncer); ok {
		if err := syncer.Sync(); err != nil {
			return ferr.ErrDeviceError.WrapError(err)
		}
	}
	return nil
}

// Close releases the backing stream, if it owns an OS resource.
func (d *BlockDevice) Close() error {
	if closer, ok := d.stream.(Closer); ok {
		return closer.Close()
	}
	return nil
}
