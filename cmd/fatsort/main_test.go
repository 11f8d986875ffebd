package main

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// minimalFAT12Image builds the smallest valid FAT12 boot sector plus its
// (empty) static root directory region, matching the geometry volume.Open
// expects: one reserved sector, one 512-byte FAT, and a 512-byte, 16-entry
// root directory immediately after.
func minimalFAT12Image() []byte {
	image := make([]byte, 1536)
	sector := image[0:512]
	sector[0], sector[1], sector[2] = 0xEB, 0x3C, 0x90
	sector[510], sector[511] = 0x55, 0xAA

	le := binary.LittleEndian
	le.PutUint16(sector[11:], 512) // bytes per sector
	sector[13] = 1                 // sectors per cluster
	le.PutUint16(sector[14:], 1)   // reserved sectors
	sector[16] = 1                 // NumFATs
	le.PutUint16(sector[17:], 16)  // root entry count
	le.PutUint16(sector[19:], 20)  // total sectors 16
	sector[21] = 0xF8
	le.PutUint16(sector[22:], 1) // FAT size 16

	return image
}

func newTestApp(fs afero.Fs, out *bytes.Buffer) *cli.App {
	app := &cli.App{
		Name: "fatsort",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "ascii"},
			&cli.BoolFlag{Name: "ignore-case"},
			&cli.BoolFlag{Name: "natural"},
			&cli.StringFlag{Name: "order", Value: "mixed"},
			&cli.BoolFlag{Name: "reverse"},
			&cli.BoolFlag{Name: "random"},
			&cli.Int64Flag{Name: "random-seed"},
			&cli.BoolFlag{Name: "modification-time"},
			&cli.StringSliceFlag{Name: "ignore-prefixes"},
			&cli.StringSliceFlag{Name: "include-dir"},
			&cli.StringSliceFlag{Name: "include-dir-recursive"},
			&cli.StringSliceFlag{Name: "exclude-dir"},
			&cli.StringSliceFlag{Name: "exclude-dir-recursive"},
			&cli.StringFlag{Name: "include-regex"},
			&cli.StringFlag{Name: "exclude-regex"},
			&cli.StringFlag{Name: "locale"},
			&cli.BoolFlag{Name: "list-only"},
			&cli.BoolFlag{Name: "force"},
		},
		Writer: out,
		Action: newRunner(fs),
		// Default urfave/cli error handling calls os.Exit on an ExitCoder
		// error (e.g. the wrong-argument-count case), which would kill the
		// test binary. Returning the error undisturbed lets tests assert on
		// it directly.
		ExitErrHandler: func(*cli.Context, error) {},
	}
	return app
}

func TestRun__ListOnlyReadsThroughMemMapFsWithoutError(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/dev/mock0", minimalFAT12Image(), 0644))

	out := &bytes.Buffer{}
	app := newTestApp(fs, out)

	err := app.Run([]string{"fatsort", "--list-only", "--ascii", "/dev/mock0"})
	require.NoError(t, err)
}

func TestRun__MissingDeviceReturnsDeviceError(t *testing.T) {
	fs := afero.NewMemMapFs()
	out := &bytes.Buffer{}
	app := newTestApp(fs, out)

	err := app.Run([]string{"fatsort", "--list-only", "/dev/does-not-exist"})
	assert.Error(t, err)
}

func TestRun__RejectsWrongArgumentCount(t *testing.T) {
	fs := afero.NewMemMapFs()
	out := &bytes.Buffer{}
	app := newTestApp(fs, out)

	err := app.Run([]string{"fatsort"})
	assert.Error(t, err)
}
