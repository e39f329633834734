package pe

import "encoding/binary"

// ImageCor20Header is the CLR header pointed at by the COM descriptor
// directory. It is carried verbatim; metadata decoding is out of scope.
type ImageCor20Header struct {
	Cb                      uint32
	MajorRuntimeVersion     uint16
	MinorRuntimeVersion     uint16
	MetaData                ImageDataDirectory
	Flags                   uint32
	EntryPointToken         uint32
	Resources               ImageDataDirectory
	StrongNameSignature     ImageDataDirectory
	CodeManagerTable        ImageDataDirectory
	VTableFixups            ImageDataDirectory
	ExportAddressTableJumps ImageDataDirectory
	ManagedNativeHeader     ImageDataDirectory
}

type ComDescriptor struct {
	Offset uint32
	Header ImageCor20Header
}

func (f *File) parseCOMDescriptor() bool {
	dir := f.directoryEntry(ImageDirectoryEntryComDescriptor)
	offset, ok := f.rvaToOffset(uint64(dir.VirtualAddress))
	if !ok {
		return false
	}

	var hdr ImageCor20Header
	if err := f.readStruct(&hdr, offset, uint32(binary.Size(hdr))); err != nil {
		return false
	}

	f.ComDescriptor = &ComDescriptor{Offset: offset, Header: hdr}
	return true
}
