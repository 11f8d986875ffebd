package fat

import (
	"bytes"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/lwouis/fatsort-go/device"
	"github.com/lwouis/fatsort-go/ferr"
	"github.com/lwouis/fatsort-go/volume"
)

// VerifyCopies compares every one of the volume's N FATs against FAT 1,
// catching a volume whose mirrored tables have diverged before any rewrite
// touches it. Every divergent copy is reported, not just the first, so a
// caller can see the full extent of the corruption in one pass.
func VerifyCopies(dev *device.BlockDevice, vol *volume.Volume) error {
	if vol.NumFATs < 2 {
		return nil
	}

	fatBytes := int64(vol.FATSizeSectors) * int64(vol.SectorSize)
	fat1Offset := int64(vol.FATStartSector) * int64(vol.SectorSize)

	fat1 := make([]byte, fatBytes)
	if err := dev.ReadAt(fat1Offset, fat1); err != nil {
		return err
	}

	var result *multierror.Error
	for n := uint32(1); n < vol.NumFATs; n++ {
		copyOffset := fat1Offset + int64(n)*fatBytes
		buf := make([]byte, fatBytes)
		if err := dev.ReadAt(copyOffset, buf); err != nil {
			return err
		}
		if !bytes.Equal(fat1, buf) {
			result = multierror.Append(result, ferr.ErrChecksumMismatch.WithMessage(
				fmt.Sprintf("FAT copy %d does not match FAT 1", n+1)))
		}
	}
	return result.ErrorOrNil()
}
