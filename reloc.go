package pe

import "encoding/binary"

type ImageBaseRelocation struct {
	VirtualAddress uint32
	SizeOfBlock    uint32
}

// RelocEntry is one decoded 16-bit relocation: the high 4 bits are the
// type, the low 12 bits the page offset. A HIGHADJ relocation occupies a
// second slot holding the low half of the 32-bit value; that slot is
// emitted as an extra entry with the same type and the raw word in
// Value.
type RelocEntry struct {
	Offset uint32
	Type   uint16
	Value  uint16
}

type Relocation struct {
	Offset  uint32
	Header  ImageBaseRelocation
	Entries []RelocEntry
}

func (f *File) parseRelocations() bool {
	dir := f.directoryEntry(ImageDirectoryEntryBaseReloc)
	offset, ok := f.rvaToOffset(uint64(dir.VirtualAddress))
	if !ok {
		return false
	}

	blockSize := uint32(binary.Size(ImageBaseRelocation{}))

	for {
		var hdr ImageBaseRelocation
		if err := f.readStruct(&hdr, offset, blockSize); err != nil {
			break
		}

		if hdr.SizeOfBlock == 0 || hdr.VirtualAddress == 0 {
			// A terminating (or broken) block is still recorded once.
			f.Relocations = append(f.Relocations, &Relocation{Offset: offset, Header: hdr})
			break
		}
		if hdr.SizeOfBlock < blockSize {
			f.Relocations = append(f.Relocations, &Relocation{Offset: offset, Header: hdr})
			break
		}

		count := (hdr.SizeOfBlock - blockSize) / 2
		entryOffset := offset + blockSize
		var entries []RelocEntry
		for i := uint32(0); i < count; i++ {
			word, err := f.readUint16(entryOffset)
			if err != nil {
				break
			}
			relocType := (word & 0xF000) >> 12
			entries = append(entries, RelocEntry{Offset: entryOffset, Type: relocType, Value: word & 0x0FFF})
			entryOffset += 2

			if relocType == ImageRelBasedHighAdj {
				// HIGHADJ takes the following slot as the low 16 bits.
				low, err := f.readUint16(entryOffset)
				if err != nil {
					break
				}
				entries = append(entries, RelocEntry{Offset: entryOffset, Type: relocType, Value: low})
				entryOffset += 2
				i++
			}
		}

		f.Relocations = append(f.Relocations, &Relocation{Offset: offset, Header: hdr, Entries: entries})

		next := uint64(offset) + uint64(hdr.SizeOfBlock)
		if next < uint64(offset) || !f.inBounds(next, 0, false) {
			break
		}
		offset = uint32(next)
	}

	return true
}
