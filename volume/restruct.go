package volume

import "encoding/binary"

// leOrder is the byte order of every multi-byte scalar in a FAT-family
// on-disk structure (spec.md section 6: "All multi-byte scalars are
// little-endian").
var leOrder = binary.LittleEndian
