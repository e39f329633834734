package pe

import "encoding/binary"

// NtHeader holds the PE signature, the COFF file header and one of the
// two optional header variants, plus the file offset it was read from.
type NtHeader struct {
	Offset         uint32
	Signature      uint32
	FileHeader     FileHeader
	OptionalHeader interface{} // *OptionalHeader32 or *OptionalHeader64
}

type FileHeader struct {
	Machine              uint16
	NumberOfSections     uint16
	TimeDateStamp        uint32
	PointerToSymbolTable uint32
	NumberOfSymbols      uint32
	SizeOfOptionalHeader uint16
	Characteristics      uint16
}

type ImageDataDirectory struct {
	VirtualAddress uint32
	Size           uint32
}

// DataDirectory is one optional-header directory entry together with the
// name of the section it points into. The security directory carries no
// section name: its VirtualAddress is already a file offset.
type DataDirectory struct {
	ImageDataDirectory
	Section string
}

type OptionalHeader32 struct {
	Magic                       uint16
	MajorLinkerVersion          uint8
	MinorLinkerVersion          uint8
	SizeOfCode                  uint32
	SizeOfInitializedData       uint32
	SizeOfUninitializedData     uint32
	AddressOfEntryPoint         uint32
	BaseOfCode                  uint32
	BaseOfData                  uint32
	ImageBase                   uint32
	SectionAlignment            uint32
	FileAlignment               uint32
	MajorOperatingSystemVersion uint16
	MinorOperatingSystemVersion uint16
	MajorImageVersion           uint16
	MinorImageVersion           uint16
	MajorSubsystemVersion       uint16
	MinorSubsystemVersion       uint16
	Win32VersionValue           uint32
	SizeOfImage                 uint32
	SizeOfHeaders               uint32
	CheckSum                    uint32
	Subsystem                   uint16
	DllCharacteristics          uint16
	SizeOfStackReserve          uint32
	SizeOfStackCommit           uint32
	SizeOfHeapReserve           uint32
	SizeOfHeapCommit            uint32
	LoaderFlags                 uint32
	NumberOfRvaAndSizes         uint32
	DataDirectory               [NumberOfDirectoryEntries]ImageDataDirectory
}

type OptionalHeader64 struct {
	Magic                       uint16
	MajorLinkerVersion          uint8
	MinorLinkerVersion          uint8
	SizeOfCode                  uint32
	SizeOfInitializedData       uint32
	SizeOfUninitializedData     uint32
	AddressOfEntryPoint         uint32
	BaseOfCode                  uint32
	ImageBase                   uint64
	SectionAlignment            uint32
	FileAlignment               uint32
	MajorOperatingSystemVersion uint16
	MinorOperatingSystemVersion uint16
	MajorImageVersion           uint16
	MinorImageVersion           uint16
	MajorSubsystemVersion       uint16
	MinorSubsystemVersion       uint16
	Win32VersionValue           uint32
	SizeOfImage                 uint32
	SizeOfHeaders               uint32
	CheckSum                    uint32
	Subsystem                   uint16
	DllCharacteristics          uint16
	SizeOfStackReserve          uint64
	SizeOfStackCommit           uint64
	SizeOfHeapReserve           uint64
	SizeOfHeapCommit            uint64
	LoaderFlags                 uint32
	NumberOfRvaAndSizes         uint32
	DataDirectory               [NumberOfDirectoryEntries]ImageDataDirectory
}

func (f *File) parseNTHeader() error {
	ntOffset := f.DOSHeader.AddressOfNewEXEHeader

	signature, err := f.readUint32(ntOffset)
	if err != nil || signature != ImageNTHeaderSignature {
		return ErrNoNTHeader
	}

	var fileHeader FileHeader
	if err := f.readStruct(&fileHeader, ntOffset+4, FileHeaderSize); err != nil {
		return ErrNoNTHeader
	}

	optOffset := ntOffset + 4 + FileHeaderSize
	magic, err := f.readUint16(optOffset)
	if err != nil {
		return ErrNoNTHeader
	}

	switch magic {
	case ImageNTOptionalHeader32Magic:
		oh32 := new(OptionalHeader32)
		if err := f.readStruct(oh32, optOffset, uint32(binary.Size(*oh32))); err != nil {
			return ErrNoNTHeader
		}
		f.OptionalHeader = oh32
		f.FileInfo.IsPE32 = true
	case ImageNTOptionalHeader64Magic:
		oh64 := new(OptionalHeader64)
		if err := f.readStruct(oh64, optOffset, uint32(binary.Size(*oh64))); err != nil {
			return ErrNoNTHeader
		}
		f.OptionalHeader = oh64
		f.FileInfo.IsPE64 = true
	default:
		return ErrNoNTHeader
	}

	f.NtHeader.Offset = ntOffset
	f.NtHeader.Signature = signature
	f.NtHeader.FileHeader = fileHeader
	f.FileInfo.HasNTHdr = true
	return nil
}

func (f *File) parseDataDirectories() {
	var count uint32
	switch oh := f.OptionalHeader.(type) {
	case *OptionalHeader32:
		count = oh.NumberOfRvaAndSizes
	case *OptionalHeader64:
		count = oh.NumberOfRvaAndSizes
	default:
		return
	}
	if count > NumberOfDirectoryEntries {
		count = NumberOfDirectoryEntries
	}

	for i := 0; i < int(count); i++ {
		dir := f.directoryEntry(i)
		entry := DataDirectory{ImageDataDirectory: dir}
		// The security directory holds a raw file offset, so a section
		// lookup on it would be meaningless.
		if i != ImageDirectoryEntrySecurity {
			if s := f.SectionByRVA(uint64(dir.VirtualAddress)); s != nil {
				entry.Section = s.Name
			}
		}
		f.DataDirs = append(f.DataDirs, entry)
	}

	f.FileInfo.HasDataDirs = len(f.DataDirs) > 0
}
