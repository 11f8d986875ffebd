package main

import (
	"os"
	"strings"

	"github.com/dsoprea/go-logging"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"

	"github.com/lwouis/fatsort-go/compare"
	"github.com/lwouis/fatsort-go/device"
	"github.com/lwouis/fatsort-go/ferr"
	"github.com/lwouis/fatsort-go/mountcheck"
	"github.com/lwouis/fatsort-go/pathfilter"
	"github.com/lwouis/fatsort-go/sortengine"
	"github.com/lwouis/fatsort-go/volume"
)

func main() {
	app := &cli.App{
		Name:      "fatsort",
		Usage:     "sort the directory entries of a FAT12/16/32 or exFAT volume",
		ArgsUsage: "DEVICE",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "ascii", Usage: "byte-wise compare instead of locale collation"},
			&cli.BoolFlag{Name: "ignore-case", Usage: "fold to lowercase before compare"},
			&cli.BoolFlag{Name: "natural", Usage: "natural-order compare (implies not locale-collated)"},
			&cli.StringFlag{Name: "order", Value: "mixed", Usage: "dirs-first, files-first, or mixed"},
			&cli.BoolFlag{Name: "reverse", Usage: "negate comparator result"},
			&cli.BoolFlag{Name: "random", Usage: "ignore comparator, permute non-anchored sub-range"},
			&cli.Int64Flag{Name: "random-seed", Usage: "seed for --random, for reproducible runs"},
			&cli.BoolFlag{Name: "modification-time", Usage: "compare by last-modified timestamp"},
			&cli.StringSliceFlag{Name: "ignore-prefixes", Usage: "ordered list of prefixes to strip before compare"},
			&cli.StringSliceFlag{Name: "include-dir", Usage: "literal directory path to include"},
			&cli.StringSliceFlag{Name: "include-dir-recursive", Usage: "directory path to include, recursively"},
			&cli.StringSliceFlag{Name: "exclude-dir", Usage: "literal directory path to exclude"},
			&cli.StringSliceFlag{Name: "exclude-dir-recursive", Usage: "directory path to exclude, recursively"},
			&cli.StringFlag{Name: "include-regex", Usage: "regex of directory paths to include"},
			&cli.StringFlag{Name: "exclude-regex", Usage: "regex of directory paths to exclude"},
			&cli.StringFlag{Name: "locale", Usage: "locale name (BCP 47 tag) for collation"},
			&cli.BoolFlag{Name: "list-only", Usage: "read and report, do not write"},
			&cli.BoolFlag{Name: "force", Usage: "open even if the mount check reports mounted"},
		},
		Action: newRunner(afero.NewOsFs()),
	}

	if err := app.Run(os.Args); err != nil {
		log.PrintError(err)
		os.Exit(exitCodeFor(err))
	}
}

func exitCodeFor(err error) int {
	if ferr.ErrMountedRefused.Is(err) {
		return 2
	}
	return 1
}

// newRunner binds the cli.ActionFunc to fs, so tests can substitute
// afero.NewMemMapFs() for the real filesystem instead of touching a block
// device on disk.
func newRunner(fs afero.Fs) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.NArg() != 1 {
			return cli.Exit("expected exactly one DEVICE argument", 1)
		}
		devicePath := c.Args().Get(0)

		if !c.Bool("force") && mountcheck.IsMounted(devicePath) {
			return ferr.ErrMountedRefused.WithMessage(devicePath + " appears to be mounted; pass --force to override")
		}

		flags := os.O_RDWR
		if c.Bool("list-only") {
			flags = os.O_RDONLY
		}
		f, err := fs.OpenFile(devicePath, flags, 0)
		if err != nil {
			return ferr.ErrDeviceError.WrapError(err)
		}
		defer f.Close()

		dev := device.Open(f)
		vol, err := volume.Open(dev)
		if err != nil {
			return err
		}
		cfg, err := configFromFlags(c)
		if err != nil {
			return err
		}

		report, err := sortengine.Run(cfg, vol)
		if err != nil {
			return err
		}

		if cfg.ListOnly {
			return report.WriteCSV(c.App.Writer)
		}
		return nil
	}
}

func configFromFlags(c *cli.Context) (*sortengine.Config, error) {
	dirPolicy := compare.DirsMixed
	switch strings.ToLower(c.String("order")) {
	case "dirs-first":
		dirPolicy = compare.DirsFirst
	case "files-first":
		dirPolicy = compare.FilesFirst
	case "mixed", "":
	default:
		return nil, ferr.ErrUnsupported.WithMessage("order must be dirs-first, files-first, or mixed")
	}

	orderFunc := compare.OrderLocale
	switch {
	case c.Bool("ascii"):
		orderFunc = compare.OrderASCII
	case c.Bool("natural"):
		orderFunc = compare.OrderNatural
	}

	opts := compare.Options{
		DirPolicy:      dirPolicy,
		ByModTime:      c.Bool("modification-time"),
		IgnorePrefixes: c.StringSlice("ignore-prefixes"),
		IgnoreCase:     c.Bool("ignore-case"),
		Order:          orderFunc,
		Reverse:        c.Bool("reverse"),
		ListingOnly:    c.Bool("list-only"),
		Randomize:      c.Bool("random"),
	}

	selection := pathfilter.Options{
		Includes:     pathEntries(c.StringSlice("include-dir"), false),
		ExcludeRegex: c.String("exclude-regex"),
		IncludeRegex: c.String("include-regex"),
	}
	selection.Includes = append(selection.Includes, pathEntries(c.StringSlice("include-dir-recursive"), true)...)
	selection.Excludes = append(pathEntries(c.StringSlice("exclude-dir"), false), pathEntries(c.StringSlice("exclude-dir-recursive"), true)...)

	return &sortengine.Config{
		Compare:    opts,
		LocaleTag:  c.String("locale"),
		Selection:  selection,
		RandomSeed: c.Int64("random-seed"),
		ListOnly:   c.Bool("list-only"),
		Force:      c.Bool("force"),
	}, nil
}

func pathEntries(paths []string, recursive bool) []pathfilter.Entry {
	entries := make([]pathfilter.Entry, len(paths))
	for i, p := range paths {
		entries[i] = pathfilter.Entry{Path: p, Recursive: recursive}
	}
	return entries
}
