package pe

import "encoding/binary"

type ImageDebugDirectory struct {
	Characteristics  uint32
	TimeDateStamp    uint32
	MajorVersion     uint16
	MinorVersion     uint16
	Type             uint32
	SizeOfData       uint32
	AddressOfRawData uint32
	PointerToRawData uint32
}

// DebugInfo holds the first six DWORDs of the raw debug data. Their
// meaning depends on Header[0]: "RSDS" makes it a PDB 7.0 record
// (Header[1..4] the GUID, Header[5] the age), "NB10" a PDB 2.0 record
// (Header[1] offset, Header[2] signature, Header[3] age).
type DebugInfo struct {
	Header  [6]uint32
	PDBName string
}

type DebugEntry struct {
	Offset uint32
	Header ImageDebugDirectory
	Info   DebugInfo
}

func (f *File) parseDebug() bool {
	dir := f.directoryEntry(ImageDirectoryEntryDebug)
	offset, ok := f.rvaToOffset(uint64(dir.VirtualAddress))
	if !ok {
		return false
	}

	entrySize := uint32(binary.Size(ImageDebugDirectory{}))
	count := dir.Size / entrySize
	if count == 0 || !f.inBounds(uint64(offset), uint64(dir.Size), true) {
		return false
	}

	for i := uint32(0); i < count; i++ {
		var hdr ImageDebugDirectory
		if err := f.readStruct(&hdr, offset, entrySize); err != nil {
			break
		}

		entry := &DebugEntry{Offset: offset, Header: hdr}
		for j := uint32(0); j < 6; j++ {
			v, err := f.readUint32(hdr.PointerToRawData + j*4)
			if err != nil {
				break
			}
			entry.Info.Header[j] = v
		}

		if hdr.Type == ImageDebugTypeCodeView {
			var nameOffset uint32
			switch entry.Info.Header[0] {
			case cvSignatureRSDS:
				nameOffset = 24
			case cvSignatureNB10:
				nameOffset = 16
			}
			if nameOffset > 0 {
				entry.Info.PDBName = f.stringAt(hdr.PointerToRawData+nameOffset, maxPath)
			}
		}

		f.Debug = append(f.Debug, entry)
		offset += entrySize
	}

	return true
}
