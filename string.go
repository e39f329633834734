package pe

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

// cString converts an ASCII byte sequence b to a string, stopping at the
// first NUL or the end of b.
func cString(b []byte) string {
	i := bytes.IndexByte(b, 0)
	if i == -1 {
		i = len(b)
	}
	return string(b[:i])
}

// StringTable is the COFF string table that follows the symbol table.
// Long section names and long symbol names index into it.
type StringTable []byte

func (f *File) readStringTable() {
	if f.FileHeader.PointerToSymbolTable == 0 {
		return
	}
	offset := uint64(f.FileHeader.PointerToSymbolTable) + COFFSymbolSize*uint64(f.FileHeader.NumberOfSymbols)
	if !f.inBounds(offset, 4, true) {
		return
	}
	// The table length includes its own 4 length bytes.
	l := binary.LittleEndian.Uint32(f.data[offset:])
	if l <= 4 || !f.inBounds(offset+4, uint64(l)-4, true) {
		return
	}
	f.StringTable = StringTable(f.data[offset+4 : offset+uint64(l)])
}

// String extracts the string at offset start of the table. Offsets count
// from the length field, so the first string lives at offset 4.
func (st StringTable) String(start uint32) (string, error) {
	if start < 4 {
		return "", errors.Errorf("offset %d is before the start of string table", start)
	}
	start -= 4
	if int64(start) >= int64(len(st)) {
		return "", errors.Errorf("offset %d is beyond the end of string table", start)
	}
	return cString(st[start:]), nil
}
