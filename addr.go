package pe

import (
	"bytes"
	"encoding/binary"
	"unicode/utf16"
)

// The translator below is the only place allowed to turn an RVA, VA or
// raw offset into an index of f.data. In PE headers there are plenty of
// places where bogus values for offsets and sizes may reside; every
// other parser goes through these helpers and never does its own
// arithmetic on the input region.

// inBounds reports whether length bytes starting at offset lie inside the
// data region. With boundary set, a range ending exactly at the end of
// data is accepted, which is valid for some PE structures (raw resource
// payloads). Arithmetic saturates: an overflowing sum is out of bounds.
func (f *File) inBounds(offset, length uint64, boundary bool) bool {
	end := offset + length
	if end < offset {
		return false
	}
	if boundary {
		return end <= uint64(len(f.data))
	}
	return end < uint64(len(f.data))
}

// readStruct decodes a little-endian fixed-shape structure of the given
// size at a file offset.
func (f *File) readStruct(iface interface{}, offset, size uint32) error {
	if !f.inBounds(uint64(offset), uint64(size), true) {
		return ErrOutsideBoundary
	}
	return binary.Read(bytes.NewReader(f.data[offset:uint64(offset)+uint64(size)]), binary.LittleEndian, iface)
}

func (f *File) readUint16(offset uint32) (uint16, error) {
	if !f.inBounds(uint64(offset), 2, true) {
		return 0, ErrOutsideBoundary
	}
	return binary.LittleEndian.Uint16(f.data[offset:]), nil
}

func (f *File) readUint32(offset uint32) (uint32, error) {
	if !f.inBounds(uint64(offset), 4, true) {
		return 0, ErrOutsideBoundary
	}
	return binary.LittleEndian.Uint32(f.data[offset:]), nil
}

func (f *File) readUint64(offset uint32) (uint64, error) {
	if !f.inBounds(uint64(offset), 8, true) {
		return 0, ErrOutsideBoundary
	}
	return binary.LittleEndian.Uint64(f.data[offset:]), nil
}

// rvaToOffset translates an RVA to a file offset through the section
// table. The RVA must fall into a section, and the computed offset must
// stay inside the data region, otherwise ok is false.
func (f *File) rvaToOffset(rva uint64) (uint32, bool) {
	for _, s := range f.Sections {
		h := &s.Header
		if rva >= uint64(h.VirtualAddress) && rva < uint64(h.VirtualAddress)+uint64(h.VirtualSize) {
			offset := rva - uint64(h.VirtualAddress) + uint64(h.PointerToRawData)
			if offset >= uint64(len(f.data)) {
				return 0, false
			}
			return uint32(offset), true
		}
	}
	return 0, false
}

// vaToOffset translates an absolute virtual address to a file offset.
func (f *File) vaToOffset(va uint64) (uint32, bool) {
	base := f.ImageBase()
	if va < base {
		return 0, false
	}
	return f.rvaToOffset(va - base)
}

// stringAt reads a NUL-terminated ASCII string at a file offset, bounded
// to maxLen bytes. A string with no terminator inside the bound (or
// inside the file) is treated as malformed and comes back empty.
func (f *File) stringAt(offset uint32, maxLen uint32) string {
	if !f.inBounds(uint64(offset), 0, false) {
		return ""
	}
	end := uint64(offset) + uint64(maxLen)
	if end > uint64(len(f.data)) {
		end = uint64(len(f.data))
	}
	i := bytes.IndexByte(f.data[offset:end], 0)
	if i < 0 {
		return ""
	}
	return string(f.data[offset : uint64(offset)+uint64(i)])
}

// stringAtRVA is stringAt after RVA translation.
func (f *File) stringAtRVA(rva uint64, maxLen uint32) string {
	offset, ok := f.rvaToOffset(rva)
	if !ok {
		return ""
	}
	return f.stringAt(offset, maxLen)
}

// utf16StringAt reads a counted UTF-16LE string (IMAGE_RESOURCE_DIR_STRING_U)
// at a file offset. The character count is clamped to maxChars.
func (f *File) utf16StringAt(offset uint32, maxChars uint32) string {
	length, err := f.readUint16(offset)
	if err != nil {
		return ""
	}
	n := uint32(length)
	if n > maxChars {
		n = maxChars
	}
	if !f.inBounds(uint64(offset)+2, uint64(n)*2, true) {
		return ""
	}
	u := make([]uint16, n)
	for i := uint32(0); i < n; i++ {
		u[i] = binary.LittleEndian.Uint16(f.data[offset+2+i*2:])
	}
	return string(utf16.Decode(u))
}

// GetOffsetFromRVA converts an RVA to a file offset, or 0 when the RVA
// does not resolve to a section.
func (f *File) GetOffsetFromRVA(rva uint64) uint32 {
	offset, _ := f.rvaToOffset(rva)
	return offset
}

// GetOffsetFromVA converts an absolute virtual address to a file offset,
// or 0 when it does not resolve.
func (f *File) GetOffsetFromVA(va uint64) uint32 {
	offset, _ := f.vaToOffset(va)
	return offset
}
