package sortengine

import (
	"github.com/lwouis/fatsort-go/compare"
	"github.com/lwouis/fatsort-go/dirstream"
	"github.com/lwouis/fatsort-go/fat"
	"github.com/lwouis/fatsort-go/pathfilter"
	"github.com/lwouis/fatsort-go/volume"
)

// Run is the top-level entry point: it opens the root directory (a cluster
// chain for FAT32/exFAT, a dirstream.StaticStream for FAT1x per spec.md
// section 4.8), then sorts it and every selected subdirectory per section
// 4.7's recursion rule.
func Run(cfg *Config, vol *volume.Volume) (*Report, error) {
	cmp, err := cfg.BuildComparator()
	if err != nil {
		return nil, err
	}
	filter, err := pathfilter.New(cfg.Selection)
	if err != nil {
		return nil, err
	}
	walker := fat.NewWalker(vol)

	var root dirstream.SlotStream
	if vol.Root.IsStatic {
		root = dirstream.NewStaticStream(vol.Device, vol.Root.StaticOffset, vol.Root.StaticLength)
	} else {
		chain, err := walker.Chain(vol.Root.FirstCluster)
		if err != nil {
			return nil, err
		}
		root = dirstream.NewChainStream(vol.Device, vol, chain)
	}

	report := &Report{}
	if err := sortRecurse(cfg, vol, walker, cmp, filter, root, "/", report); err != nil {
		return nil, err
	}
	return report, nil
}

func sortRecurse(cfg *Config, vol *volume.Volume, walker fat.Walker, cmp compare.Func, filter *pathfilter.Filter, stream dirstream.SlotStream, path string, report *Report) error {
	normPath := pathfilter.Normalize(path)

	records, err := assemble(stream, vol.Kind)
	if err != nil {
		return err
	}

	ordered := records
	if filter.Allow(normPath) {
		var reordered bool
		ordered, reordered = buildOrderedList(records, cmp)
		if cfg.Compare.Randomize {
			randomizeRange(ordered, cfg.RandomSeed)
		}

		switch {
		case cfg.ListOnly:
			report.addRows(normPath, ordered)
		case reordered || cfg.Compare.Randomize:
			if err := rewrite(vol.Device, stream, ordered); err != nil {
				return err
			}
		}
	}

	for _, r := range ordered {
		if r.IsDeleted() || !r.IsDirectory() || r.ShortName() == "." || r.ShortName() == ".." {
			continue
		}
		cluster, contiguous, validDataLen, ok := firstClusterInfo(r)
		if !ok {
			continue
		}
		chain, err := directoryChain(walker, vol, cluster, contiguous, validDataLen)
		if err != nil {
			return err
		}
		childStream := dirstream.NewChainStream(vol.Device, vol, chain)
		if err := sortRecurse(cfg, vol, walker, cmp, filter, childStream, normPath+r.DisplayName()+"/", report); err != nil {
			return err
		}
	}
	return nil
}
