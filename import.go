package pe

import "encoding/binary"

type ImageImportDescriptor struct {
	OriginalFirstThunk uint32
	TimeDateStamp      uint32
	ForwarderChain     uint32
	Name               uint32
	FirstThunk         uint32
}

// ImportFunction is one resolved thunk. When the thunk's high bit is set
// the import is by ordinal only; otherwise Hint and Name come from the
// IMAGE_IMPORT_BY_NAME record the thunk points at.
type ImportFunction struct {
	ThunkValue uint64
	ThunkRVA   uint32
	ByOrdinal  bool
	Ordinal    uint16
	Hint       uint16
	Name       string
}

type Import struct {
	Offset     uint32
	Descriptor ImageImportDescriptor
	Name       string
	Functions  []*ImportFunction
}

// thunkWidth returns the thunk slot size and ordinal flag for the
// current PE variant. The 32- and 64-bit walks differ only in these two
// values.
func (f *File) thunkWidth() (uint32, uint64) {
	if f.FileInfo.IsPE64 {
		return 8, imageOrdinalFlag64
	}
	return 4, imageOrdinalFlag32
}

func (f *File) readThunk(offset, width uint32) (uint64, error) {
	if width == 8 {
		return f.readUint64(offset)
	}
	v, err := f.readUint32(offset)
	return uint64(v), err
}

func (f *File) parseImport() bool {
	dir := f.directoryEntry(ImageDirectoryEntryImport)
	descOffset, ok := f.rvaToOffset(uint64(dir.VirtualAddress))
	if !ok {
		return false
	}

	descSize := uint32(binary.Size(ImageImportDescriptor{}))
	width, ordinalFlag := f.thunkWidth()

	for modules := 0; modules < maxImportModules; modules++ {
		var desc ImageImportDescriptor
		if err := f.readStruct(&desc, descOffset, descSize); err != nil {
			break
		}
		if desc.Name == 0 {
			break
		}

		thunkRVA := desc.OriginalFirstThunk
		if thunkRVA == 0 {
			thunkRVA = desc.FirstThunk
		}
		if thunkRVA == 0 {
			descOffset += descSize
			continue
		}

		thunkOffset, ok := f.rvaToOffset(uint64(thunkRVA))
		if !ok {
			break
		}

		var funcs []*ImportFunction
		rva := thunkRVA
		for len(funcs) < maxImportFuncs {
			thunk, err := f.readThunk(thunkOffset, width)
			if err != nil || thunk == 0 {
				break
			}

			imp := &ImportFunction{ThunkValue: thunk, ThunkRVA: rva}
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

			thunkOffset += width
			rva += width
		}

		f.Imports = append(f.Imports, &Import{
			Offset:     descOffset,
			Descriptor: desc,
			Name:       f.stringAtRVA(uint64(desc.Name), maxPath),
			Functions:  funcs,
		})
		descOffset += descSize
	}

	return true
}
