package sortengine

import (
	"github.com/lwouis/fatsort-go/dirent"
	"github.com/lwouis/fatsort-go/exfat"
	"github.com/lwouis/fatsort-go/fat"
	"github.com/lwouis/fatsort-go/volume"
)

// firstClusterInfo extracts the subdirectory location fields spec.md
// section 4.7 names for recursion: FAT1x/32's high<<16|low short-entry
// cluster, or exFAT's Stream Extension first-cluster plus its NoFatChain
// flag and valid-data-length for the contiguous shortcut.
func firstClusterInfo(r record) (cluster uint32, contiguous bool, validDataLen uint64, ok bool) {
	switch v := r.(type) {
	case *dirent.Record:
		return v.Short.FirstCluster(), false, 0, true
	case *exfat.EntrySet:
		if v.PrimaryType != exfat.PrimaryFile {
			return 0, false, 0, false
		}
		return v.Stream.FirstCluster, v.Stream.NoFatChain(), v.Stream.ValidDataLen, true
	}
	return 0, false, 0, false
}

// directoryChain resolves a subdirectory's cluster chain, taking the exFAT
// contiguous shortcut (spec.md section 4.7) when the caller reports the
// stream as NoFatChain instead of walking the FAT.
func directoryChain(walker fat.Walker, vol *volume.Volume, firstCluster uint32, contiguous bool, validDataLen uint64) ([]uint32, error) {
	if contiguous {
		clusterCount := (validDataLen + uint64(vol.ClusterSize) - 1) / uint64(vol.ClusterSize)
		if clusterCount == 0 {
			clusterCount = 1
		}
		chain := make([]uint32, clusterCount)
		for i := range chain {
			chain[i] = firstCluster + uint32(i)
		}
		return chain, nil
	}
	return walker.Chain(firstCluster)
}
