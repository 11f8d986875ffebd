// Package exfat assembles the raw 32-byte entry stream of an exFAT
// directory into logical entry sets — a primary entry plus its secondaries —
// per spec.md section 4.5.
package exfat

// Entry type byte bit layout (spec.md section 4.5): IN-USE (bit 7),
// SECONDARY (bit 6), BENIGN (bit 5), TYPE (bits 0-4).
const (
	typeBitInUse    = 0x80
	typeBitSecondary = 0x40
	typeBitBenign   = 0x20
	typeCodeMask    = 0x1F
)

// Known type-byte values, per spec.md section 6.
const (
	TypeFile              = 0x85 // primary: IN-USE File
	TypeFileDeleted       = 0x05 // primary: deleted File
	TypeStreamExtension   = 0xC0 // secondary: IN-USE Stream Extension
	TypeStreamExtDeleted  = 0x40 // secondary: deleted Stream Extension
	TypeFileNameExtension = 0xC1 // secondary: IN-USE File Name Extension
	TypeFileNameExtDeleted = 0x41
	TypeAllocationBitmap  = 0x81
	TypeUpcaseTable       = 0x82
	TypeVolumeLabel       = 0x83
	TypeVolumeGUID        = 0xA0
	TexFATPadding         = 0xA1
	WinCEAccessControl    = 0xE2
	typeEndOfDirectory    = 0x00
)

// PrimaryType classifies a primary entry, per spec.md section 3's closed
// list: "Volume Label, Allocation Bitmap, Upcase Table, Volume GUID, File,
// …".
type PrimaryType int

const (
	PrimaryUnknown PrimaryType = iota
	PrimaryVolumeLabel
	PrimaryAllocationBitmap
	PrimaryUpcaseTable
	PrimaryVolumeGUID
	PrimaryFile
	PrimaryTexFATPadding
	PrimaryWinCEAccessControl
)

func classifyPrimary(typeByte byte) PrimaryType {
	switch typeByte &^ typeBitInUse {
	case TypeFile &^ typeBitInUse:
		return PrimaryFile
	case TypeVolumeLabel &^ typeBitInUse:
		return PrimaryVolumeLabel
	case TypeAllocationBitmap &^ typeBitInUse:
		return PrimaryAllocationBitmap
	case TypeUpcaseTable &^ typeBitInUse:
		return PrimaryUpcaseTable
	case TypeVolumeGUID &^ typeBitInUse:
		return PrimaryVolumeGUID
	case TexFATPadding &^ typeBitInUse:
		return PrimaryTexFATPadding
	case WinCEAccessControl &^ typeBitInUse:
		return PrimaryWinCEAccessControl
	default:
		return PrimaryUnknown
	}
}

func isInUse(typeByte byte) bool {
	return typeByte&typeBitInUse != 0
}

func isSecondary(typeByte byte) bool {
	return typeByte&typeBitSecondary != 0
}

func isEndOfDirectory(typeByte byte) bool {
	return typeByte == typeEndOfDirectory
}
