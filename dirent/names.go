package dirent

import (
	"golang.org/x/text/encoding/unicode"
)

var utf16leDecoder = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()

// decodeLongNameFragment decodes one long entry's 13 UTF-16LE code units
// (already reassembled from their three discontiguous regions by
// parseLongEntry), stopping at the first 0x0000 code unit, per spec.md
// section 4.4.
func decodeLongNameFragment(nameRaw [26]byte) string {
	truncated := nameRaw[:]
	for i := 0; i+1 < len(truncated); i += 2 {
		if truncated[i] == 0 && truncated[i+1] == 0 {
			truncated = truncated[:i]
			break
		}
	}
	if len(truncated) == 0 {
		return ""
	}
	decoded, err := utf16leDecoder.Bytes(truncated)
	if err != nil {
		// golang.org/x/text/encoding/unicode never returns an error for
		// WINDOWS/IgnoreBOM UTF-16 decode of arbitrary bytes; this is
		// defensive for malformed lone surrogates on a corrupted volume.
		return string(decoded)
	}
	return string(decoded)
}

// assembleLongName concatenates long-entry fragments in stream order. Per
// spec.md section 4.4, earlier slots (lower stream address, emitted last in
// display order) contribute higher-index name fragments, so the full name
// is built by prepending each successive slot's fragment to the
// accumulator.
func assembleLongName(entries []LongEntry) string {
	name := ""
	for _, e := range entries {
		name = decodeLongNameFragment(e.NameRaw) + name
	}
	return name
}
