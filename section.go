package pe

import (
	"bytes"
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ImageSectionHeader is the raw 40-byte on-disk section header.
type ImageSectionHeader struct {
	Name                 [8]uint8
	VirtualSize          uint32
	VirtualAddress       uint32
	SizeOfRawData        uint32
	PointerToRawData     uint32
	PointerToRelocations uint32
	PointerToLineNumbers uint32
	NumberOfRelocations  uint16
	NumberOfLineNumbers  uint16
	Characteristics      uint32
}

// Section pairs a raw section header with the file offset it was read
// from and its resolved name. Names starting with "/" are an ASCII
// decimal offset into the COFF string table; when that indirection
// cannot be resolved, Name stays empty.
type Section struct {
	Offset uint32
	Header ImageSectionHeader
	Name   string

	raw []byte
}

func (f *File) parseSections() {
	count := int(f.FileHeader.NumberOfSections)
	if count == 0 {
		return
	}

	offset := f.NtHeader.Offset + 4 + FileHeaderSize + uint32(f.FileHeader.SizeOfOptionalHeader)
	sectionHeaderSize := uint32(binary.Size(ImageSectionHeader{}))

	for i := 0; i < count; i++ {
		var sh ImageSectionHeader
		if err := f.readStruct(&sh, offset, sectionHeaderSize); err != nil {
			break
		}

		s := &Section{
			Offset: offset,
			Header: sh,
			Name:   f.sectionFullName(sh.Name),
			raw:    f.sectionRawData(&sh),
		}
		f.Sections = append(f.Sections, s)
		offset += sectionHeaderSize
	}

	f.FileInfo.HasSections = len(f.Sections) > 0
}

// sectionFullName resolves the 8-byte short name, following the "/NNN"
// string-table indirection for long names.
func (f *File) sectionFullName(name [8]uint8) string {
	if name[0] != '/' {
		return cString(name[:])
	}

	n, err := strconv.Atoi(strings.TrimRight(string(name[1:]), "\x00"))
	if err != nil || n < 0 {
		return ""
	}
	full, err := f.StringTable.String(uint32(n))
	if err != nil {
		return ""
	}
	return full
}

// sectionRawData clamps the section's raw range to the file and returns
// the aliased slice, or nil for sections with no raw data (.bss).
func (f *File) sectionRawData(sh *ImageSectionHeader) []byte {
	if sh.PointerToRawData == 0 || sh.SizeOfRawData == 0 {
		return nil
	}
	start := uint64(sh.PointerToRawData)
	if start >= uint64(len(f.data)) {
		return nil
	}
	end := start + uint64(sh.SizeOfRawData)
	if end > uint64(len(f.data)) {
		end = uint64(len(f.data))
	}
	return f.data[start:end]
}

// Data returns the section's raw contents as present in the file.
func (s *Section) Data() []byte {
	return s.raw
}

// Flags renders the section's memory permissions as an "rwx" style string.
func (s *Section) Flags() (flags string) {
	if s.Header.Characteristics&ImageScnMemRead != 0 {
		flags += "r"
	}
	if s.Header.Characteristics&ImageScnMemWrite != 0 {
		flags += "w"
	}
	if s.Header.Characteristics&ImageScnMemExecute != 0 {
		flags += "x"
	}
	return flags
}

func (s *Section) MD5() string {
	return fmt.Sprintf("%x", md5.Sum(s.raw))
}

func (s *Section) Entropy() float64 {
	var e EntropyCalculator
	_, _ = e.Write(s.raw)
	return e.Sum()
}

// Open returns a reader over the section's raw contents.
func (s *Section) Open() io.Reader {
	return bytes.NewReader(s.raw)
}
