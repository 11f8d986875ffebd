package fat

type fat12Walker struct{ baseWalker }

func (w *fat12Walker) Chain(start uint32) ([]uint32, error) {
	return walkChain(w, w.vol, start)
}

func (w *fat12Walker) IsEndOfChain(entry uint32) bool {
	return entry >= 0x0FF8
}

// EntryAt reads the 12-bit FAT entry for cluster c. Two adjacent entries
// share three bytes: the low three nibbles of the 16-bit word at that offset
// belong to an even cluster, the high three nibbles to an odd one
// (spec.md section 4.2).
func (w *fat12Walker) EntryAt(cluster uint32) (uint32, error) {
	byteOffset := cluster + cluster/2
	buf := make([]byte, 2)
	if err := w.dev.ReadAt(w.fatByteOffset(int64(byteOffset)), buf); err != nil {
		return 0, err
	}
	word := uint32(buf[0]) | uint32(buf[1])<<8

	if cluster%2 == 0 {
		return word & 0x0FFF, nil
	}
	return word >> 4, nil
}
