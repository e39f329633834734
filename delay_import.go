package pe

import "encoding/binary"

type ImageDelayImportDescriptor struct {
	Attributes                 uint32
	Name                       uint32
	ModuleHandleRVA            uint32
	ImportAddressTableRVA      uint32
	ImportNameTableRVA         uint32
	BoundImportAddressTableRVA uint32
	UnloadInformationTableRVA  uint32
	TimeDateStamp              uint32
}

// DelayImportFunction carries the matching slots of the four parallel
// delay-load thunk tables. The name table drives the walk; the other
// three are optional and advance in lockstep when present.
type DelayImportFunction struct {
	NameTableValue    uint64
	AddressTableValue uint64
	BoundTableValue   uint64
	UnloadTableValue  uint64
	ByOrdinal         bool
	Ordinal           uint16
	Hint              uint16
	Name              string
}

type DelayImport struct {
	Offset     uint32
	Descriptor ImageDelayImportDescriptor
	Name       string
	Functions  []*DelayImportFunction
}

func (f *File) parseDelayImport() bool {
	dir := f.directoryEntry(ImageDirectoryEntryDelayImport)
	descOffset, ok := f.rvaToOffset(uint64(dir.VirtualAddress))
	if !ok {
		return false
	}

	descSize := uint32(binary.Size(ImageDelayImportDescriptor{}))
	width, ordinalFlag := f.thunkWidth()

	for modules := 0; modules < maxImportModules; modules++ {
		var desc ImageDelayImportDescriptor
		if err := f.readStruct(&desc, descOffset, descSize); err != nil {
			break
		}
		if desc.Name == 0 {
			break
		}
		if desc.ImportNameTableRVA == 0 {
			descOffset += descSize
			continue
		}

		nameOffset, ok := f.rvaToOffset(uint64(desc.ImportNameTableRVA))
		if !ok {
			break
		}
		iatOffset, haveIAT := f.rvaToOffset(uint64(desc.ImportAddressTableRVA))
		boundOffset, haveBound := f.rvaToOffset(uint64(desc.BoundImportAddressTableRVA))
		unloadOffset, haveUnload := f.rvaToOffset(uint64(desc.UnloadInformationTableRVA))

		var funcs []*DelayImportFunction
		for len(funcs) < maxImportFuncs {
			thunk, err := f.readThunk(nameOffset, width)
			if err != nil || thunk == 0 {
				break
			}

			imp := &DelayImportFunction{NameTableValue: thunk}
			if haveIAT {
				imp.AddressTableValue, _ = f.readThunk(iatOffset, width)
			}
			if haveBound {
				imp.BoundTableValue, _ = f.readThunk(boundOffset, width)
			}
			if haveUnload {
				imp.UnloadTableValue, _ = f.readThunk(unloadOffset, width)
			}

			if thunk&ordinalFlag != 0 {
				imp.ByOrdinal = true
				imp.Ordinal = uint16(thunk)
			} else if hintOffset, ok := f.rvaToOffset(thunk &^ ordinalFlag); ok {
				if hint, err := f.readUint16(hintOffset); err == nil {
					imp.Hint = hint
				}
				imp.Name = f.stringAt(hintOffset+2, maxPath)
			}
			funcs = append(funcs, imp)

			nameOffset += width
			iatOffset += width
			boundOffset += width
			unloadOffset += width
		}

		f.DelayImports = append(f.DelayImports, &DelayImport{
			Offset:     descOffset,
			Descriptor: desc,
			Name:       f.stringAtRVA(uint64(desc.Name), maxPath),
			Functions:  funcs,
		})
		descOffset += descSize
	}

	return true
}
