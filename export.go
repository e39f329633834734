package pe

import "encoding/binary"

type ImageExportDirectory struct {
	Characteristics       uint32
	TimeDateStamp         uint32
	MajorVersion          uint16
	MinorVersion          uint16
	Name                  uint32
	Base                  uint32
	NumberOfFunctions     uint32
	NumberOfNames         uint32
	AddressOfFunctions    uint32
	AddressOfNames        uint32
	AddressOfNameOrdinals uint32
}

// ExportFunction is one exported entry. Ordinal is the function-table
// index; the biased ordinal is Ordinal + Header.Base. A function whose
// RVA lands inside the export directory itself is a forwarder, and
// Forwarder carries the "OtherDll.OtherSymbol" string instead of code.
type ExportFunction struct {
	RVA       uint32
	Ordinal   uint32
	NameRVA   uint32
	Name      string
	Forwarder string
}

type Export struct {
	Offset    uint32
	Header    ImageExportDirectory
	Name      string // exporting module's own name
	Functions []ExportFunction
}

func (f *File) parseExport() bool {
	dir := f.directoryEntry(ImageDirectoryEntryExport)
	startRVA := uint64(dir.VirtualAddress)
	endRVA := startRVA + uint64(dir.Size)

	offset, ok := f.rvaToOffset(startRVA)
	if !ok {
		return false
	}

	var hdr ImageExportDirectory
	if err := f.readStruct(&hdr, offset, uint32(binary.Size(hdr))); err != nil {
		return false
	}

	funcsOffset, ok := f.rvaToOffset(uint64(hdr.AddressOfFunctions))
	if !ok {
		return false
	}
	ordinalsOffset, haveOrdinals := f.rvaToOffset(uint64(hdr.AddressOfNameOrdinals))
	namesOffset, haveNames := f.rvaToOffset(uint64(hdr.AddressOfNames))

	export := &Export{
		Offset: offset,
		Header: hdr,
		Name:   f.stringAtRVA(uint64(hdr.Name), maxPath),
	}

	// Clamp the claimed counts to what the file can physically hold, so
	// bogus headers cannot drive the walks past the arrays.
	numFuncs := clampCount(hdr.NumberOfFunctions, funcsOffset, 4, uint32(len(f.data)))
	numNames := uint32(0)
	if haveOrdinals && haveNames {
		numNames = clampCount(hdr.NumberOfNames, ordinalsOffset, 2, uint32(len(f.data)))
	}

	for i := uint32(0); i < numFuncs; i++ {
		funcRVA, err := f.readUint32(funcsOffset + i*4)
		if err != nil {
			break
		}
		if funcRVA == 0 {
			continue
		}

		fn := ExportFunction{RVA: funcRVA, Ordinal: i}

		if haveOrdinals && haveNames {
			for j := uint32(0); j < numNames; j++ {
				ordinal, err := f.readUint16(ordinalsOffset + j*2)
				if err != nil {
					break
				}
				if uint32(ordinal) != i {
					continue
				}
				if nameRVA, err := f.readUint32(namesOffset + j*4); err == nil {
					fn.NameRVA = nameRVA
					fn.Name = f.stringAtRVA(uint64(nameRVA), maxPath)
				}
				break
			}
		}

		if uint64(funcRVA) >= startRVA && uint64(funcRVA) < endRVA {
			fn.Forwarder = f.stringAtRVA(uint64(funcRVA), maxPath)
		}

		export.Functions = append(export.Functions, fn)
	}

	f.Export = export
	return true
}

// clampCount limits an element count so that count*stride entries at
// offset stay inside size bytes.
func clampCount(count, offset, stride, size uint32) uint32 {
	if offset >= size {
		return 0
	}
	if max := (size - offset) / stride; count > max {
		return max
	}
	return count
}
