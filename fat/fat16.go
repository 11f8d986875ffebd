package fat

import "encoding/binary"

type fat16Walker struct{ baseWalker }

func (w *fat16Walker) Chain(start uint32) ([]uint32, error) {
	return walkChain(w, w.vol, start)
}

func (w *fat16Walker) IsEndOfChain(entry uint32) bool {
	return entry >= 0xFFF8
}

func (w *fat16Walker) EntryAt(cluster uint32) (uint32, error) {
	buf := make([]byte, 2)
	if err := w.dev.ReadAt(w.fatByteOffset(int64(cluster)*2), buf); err != nil {
		return 0, err
	}
	return uint32(binary.LittleEndian.Uint16(buf)), nil
}
