package pe

import "encoding/binary"

const COFFSymbolSize = 18

// COFFSymbol represents a single COFF symbol table record.
type COFFSymbol struct {
	Name               [8]uint8
	Value              uint32
	SectionNumber      int16
	Type               uint16
	StorageClass       uint8
	NumberOfAuxSymbols uint8
}

func (f *File) readCOFFSymbols() {
	if f.FileHeader.PointerToSymbolTable == 0 || f.FileHeader.NumberOfSymbols == 0 {
		return
	}
	offset := uint64(f.FileHeader.PointerToSymbolTable)
	if !f.inBounds(offset, COFFSymbolSize*uint64(f.FileHeader.NumberOfSymbols), true) {
		return
	}

	symbols := make([]COFFSymbol, f.FileHeader.NumberOfSymbols)
	for i := range symbols {
		if err := f.readStruct(&symbols[i], uint32(offset), COFFSymbolSize); err != nil {
			return
		}
		offset += COFFSymbolSize
	}
	f.COFFSymbols = symbols
}

// isSymNameOffset checks whether a symbol name is encoded as an offset
// into the string table.
func isSymNameOffset(name [8]byte) (bool, uint32) {
	if name[0] == 0 && name[1] == 0 && name[2] == 0 && name[3] == 0 {
		return true, binary.LittleEndian.Uint32(name[4:])
	}
	return false, 0
}

// FullName finds the real name of the symbol. Names longer than 8
// characters live in the COFF string table st.
func (sym *COFFSymbol) FullName(st StringTable) (string, error) {
	if ok, offset := isSymNameOffset(sym.Name); ok {
		return st.String(offset)
	}
	return cString(sym.Name[:]), nil
}

// Symbol is COFFSymbol with the name resolved and auxiliary records
// dropped.
type Symbol struct {
	Name          string
	Value         uint32
	SectionNumber int16
	Type          uint16
	StorageClass  uint8
}

func (f *File) removeAuxSymbols() {
	if len(f.COFFSymbols) == 0 {
		return
	}
	aux := uint8(0)
	for i := range f.COFFSymbols {
		sym := &f.COFFSymbols[i]
		if aux > 0 {
			aux--
			continue
		}
		name, err := sym.FullName(f.StringTable)
		if err != nil {
			continue
		}
		aux = sym.NumberOfAuxSymbols
		f.Symbols = append(f.Symbols, &Symbol{
			Name:          name,
			Value:         sym.Value,
			SectionNumber: sym.SectionNumber,
			Type:          sym.Type,
			StorageClass:  sym.StorageClass,
		})
	}
}
