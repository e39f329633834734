package pe

type ImageBoundImportDescriptor struct {
	TimeDateStamp               uint32
	OffsetModuleName            uint16
	NumberOfModuleForwarderRefs uint16
}

type ImageBoundForwarderRef struct {
	TimeDateStamp    uint32
	OffsetModuleName uint16
	Reserved         uint16
}

type BoundForwarder struct {
	Offset uint32
	Header ImageBoundForwarderRef
	Name   string
}

// BoundImport is one bound-import descriptor with its inline forwarder
// records. The next descriptor starts right after the last forwarder;
// module name offsets count from the start of the bound import table.
type BoundImport struct {
	Offset     uint32
	Header     ImageBoundImportDescriptor
	Name       string
	Forwarders []BoundForwarder
}

const boundImportDescriptorSize = 8

func (f *File) parseBoundImport() bool {
	dir := f.directoryEntry(ImageDirectoryEntryBoundImport)
	tableOffset, ok := f.rvaToOffset(uint64(dir.VirtualAddress))
	if !ok {
		return false
	}

	offset := tableOffset
	for modules := 0; modules < maxImportModules; modules++ {
		var desc ImageBoundImportDescriptor
		if err := f.readStruct(&desc, offset, boundImportDescriptorSize); err != nil {
			break
		}
		if desc.TimeDateStamp == 0 {
			break
		}

		bound := &BoundImport{
			Offset: offset,
			Header: desc,
			Name:   f.stringAt(tableOffset+uint32(desc.OffsetModuleName), maxPath),
		}

		fwdOffset := offset + boundImportDescriptorSize
		for i := uint16(0); i < desc.NumberOfModuleForwarderRefs; i++ {
			var fwd ImageBoundForwarderRef
			if err := f.readStruct(&fwd, fwdOffset, boundImportDescriptorSize); err != nil {
				break
			}
			bound.Forwarders = append(bound.Forwarders, BoundForwarder{
				Offset: fwdOffset,
				Header: fwd,
				Name:   f.stringAt(tableOffset+uint32(fwd.OffsetModuleName), maxPath),
			})
			fwdOffset += boundImportDescriptorSize
		}

		f.BoundImports = append(f.BoundImports, bound)
		offset = fwdOffset
	}

	return true
}
