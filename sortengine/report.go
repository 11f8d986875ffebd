package sortengine

import (
	"io"

	"github.com/gocarina/gocsv"

	"github.com/lwouis/fatsort-go/dirent"
	"github.com/lwouis/fatsort-go/exfat"
)

// Row is one record of the --list-only CSV report, matching spec.md
// section 8 scenario S6 (display names produced on an output stream
// without writing to disk).
type Row struct {
	DirectoryPath string `csv:"directory_path"`
	SlotIndex     int    `csv:"slot_index"`
	DisplayName   string `csv:"display_name"`
	Attributes    string `csv:"attributes"`
	Deleted       bool   `csv:"deleted"`
}

// Report accumulates rows across the whole recursive sort pass.
type Report struct {
	Rows []Row
}

func (rep *Report) addRows(dirPath string, ordered []record) {
	for _, r := range ordered {
		rep.Rows = append(rep.Rows, Row{
			DirectoryPath: dirPath,
			SlotIndex:     slotIndexOf(r),
			DisplayName:   r.DisplayName(),
			Attributes:    attributesOf(r),
			Deleted:       r.IsDeleted(),
		})
	}
}

// WriteCSV renders the report via github.com/gocarina/gocsv.
func (rep *Report) WriteCSV(w io.Writer) error {
	return gocsv.Marshal(rep.Rows, w)
}

func slotIndexOf(r record) int {
	switch v := r.(type) {
	case *dirent.Record:
		return v.FirstSlot
	case *exfat.EntrySet:
		return v.FirstSlot
	default:
		return -1
	}
}

func attributesOf(r record) string {
	switch v := r.(type) {
	case *dirent.Record:
		return attrString(v.Short.Attributes)
	case *exfat.EntrySet:
		if v.PrimaryType == exfat.PrimaryFile {
			return attrString(uint8(v.File.FileAttributes))
		}
		return ""
	default:
		return ""
	}
}

func attrString(attr uint8) string {
	flags := ""
	add := func(set bool, c string) {
		if set {
			flags += c
		}
	}
	add(attr&dirent.AttrReadOnly != 0, "R")
	add(attr&dirent.AttrHidden != 0, "H")
	add(attr&dirent.AttrSystem != 0, "S")
	add(attr&dirent.AttrVolumeLabel != 0, "V")
	add(attr&dirent.AttrDirectory != 0, "D")
	add(attr&dirent.AttrArchive != 0, "A")
	return flags
}
