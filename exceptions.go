package pe

import "encoding/binary"

// RuntimeFunctionEntry is one IMAGE_RUNTIME_FUNCTION_ENTRY of the
// exception directory.
type RuntimeFunctionEntry struct {
	BeginAddress      uint32
	EndAddress        uint32
	UnwindInfoAddress uint32
}

type Exception struct {
	Offset uint32
	Header RuntimeFunctionEntry
}

func (f *File) parseExceptions() bool {
	dir := f.directoryEntry(ImageDirectoryEntryException)
	offset, ok := f.rvaToOffset(uint64(dir.VirtualAddress))
	if !ok {
		return false
	}

	entrySize := uint32(binary.Size(RuntimeFunctionEntry{}))
	count := dir.Size / entrySize
	if count == 0 || !f.inBounds(uint64(offset), uint64(count)*uint64(entrySize), true) {
		return false
	}

	for i := uint32(0); i < count; i++ {
		var entry RuntimeFunctionEntry
		if err := f.readStruct(&entry, offset, entrySize); err != nil {
			break
		}
		f.Exceptions = append(f.Exceptions, Exception{Offset: offset, Header: entry})
		offset += entrySize
	}

	return true
}
