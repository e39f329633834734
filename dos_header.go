package pe

// DOSHeader is the 64-byte MS-DOS header at the very start of the image.
type DOSHeader struct {
	Magic                    uint16
	BytesOnLastPageOfFile    uint16
	PagesInFile              uint16
	Relocations              uint16
	SizeOfHeader             uint16
	MinExtraParagraphsNeeded uint16
	MaxExtraParagraphsNeeded uint16
	InitialSS                uint16
	InitialSP                uint16
	Checksum                 uint16
	InitialIP                uint16
	InitialCS                uint16
	AddressOfRelocationTable uint16
	OverlayNumber            uint16
	ReservedWords1           [4]uint16
	OEMIdentifier            uint16
	OEMInformation           uint16
	ReservedWords2           [10]uint16
	AddressOfNewEXEHeader    uint32
}

func (f *File) parseDOSHeader() error {
	if err := f.readStruct(&f.DOSHeader, 0, DOSHeaderSize); err != nil {
		return ErrFileSizeTooSmall
	}

	// A file with at least the MZ signature is treated as a minimally
	// correct PE file and parsed further.
	if f.DOSHeader.Magic != ImageDOSSignature {
		return ErrNoDOSHeader
	}

	f.FileInfo.HasDOSHdr = true
	return nil
}
