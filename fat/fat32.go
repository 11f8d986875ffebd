package fat

import "encoding/binary"

type fat32Walker struct{ baseWalker }

func (w *fat32Walker) Chain(start uint32) ([]uint32, error) {
	return walkChain(w, w.vol, start)
}

func (w *fat32Walker) IsEndOfChain(entry uint32) bool {
	return entry&0x0FFFFFFF >= 0x0FFFFFF8
}

// EntryAt masks off the top four reserved bits of each 32-bit entry, per
// spec.md section 4.2.
func (w *fat32Walker) EntryAt(cluster uint32) (uint32, error) {
	buf := make([]byte, 4)
	if err := w.dev.ReadAt(w.fatByteOffset(int64(cluster)*4), buf); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf) & 0x0FFFFFFF, nil
}

type exfatWalker struct{ baseWalker }

func (w *exfatWalker) Chain(start uint32) ([]uint32, error) {
	return walkChain(w, w.vol, start)
}

func (w *exfatWalker) IsEndOfChain(entry uint32) bool {
	return entry >= 0xFFFFFFF8
}

func (w *exfatWalker) EntryAt(cluster uint32) (uint32, error) {
	buf := make([]byte, 4)
	if err := w.dev.ReadAt(w.fatByteOffset(int64(cluster)*4), buf); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

// ContiguousChain builds the implicit chain for an exFAT stream declared
// contiguous by its Stream Extension's NoFatChain flag: the chain is simply
// start, start+1, ..., start+clusterCount-1 and the FAT is never consulted
// (spec.md section 3).
func ContiguousChain(start uint32, clusterCount uint32) []uint32 {
	chain := make([]uint32, clusterCount)
	for i := range chain {
		chain[i] = start + uint32(i)
	}
	return chain
}
