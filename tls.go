package pe

import "encoding/binary"

type ImageTLSDirectory32 struct {
	StartAddressOfRawData uint32
	EndAddressOfRawData   uint32
	AddressOfIndex        uint32
	AddressOfCallBacks    uint32
	SizeOfZeroFill        uint32
	Characteristics       uint32
}

type ImageTLSDirectory64 struct {
	StartAddressOfRawData uint64
	EndAddressOfRawData   uint64
	AddressOfIndex        uint64
	AddressOfCallBacks    uint64
	SizeOfZeroFill        uint32
	Characteristics       uint32
}

// TLS is the thread-local-storage directory. Directory is either an
// *ImageTLSDirectory32 or an *ImageTLSDirectory64; Callbacks holds the
// callback addresses walked from AddressOfCallBacks, which is an
// absolute VA.
type TLS struct {
	Offset    uint32
	Directory interface{}
	Callbacks []uint64
}

func (f *File) parseTLS() bool {
	dir := f.directoryEntry(ImageDirectoryEntryTLS)
	offset, ok := f.rvaToOffset(uint64(dir.VirtualAddress))
	if !ok {
		return false
	}

	var callbacksVA uint64
	tls := &TLS{Offset: offset}

	switch {
	case f.FileInfo.IsPE32:
		tls32 := new(ImageTLSDirectory32)
		if err := f.readStruct(tls32, offset, uint32(binary.Size(*tls32))); err != nil {
			return false
		}
		tls.Directory = tls32
		callbacksVA = uint64(tls32.AddressOfCallBacks)
	case f.FileInfo.IsPE64:
		tls64 := new(ImageTLSDirectory64)
		if err := f.readStruct(tls64, offset, uint32(binary.Size(*tls64))); err != nil {
			return false
		}
		tls.Directory = tls64
		callbacksVA = tls64.AddressOfCallBacks
	default:
		return false
	}

	width, _ := f.thunkWidth()
	if cbOffset, ok := f.vaToOffset(callbacksVA); ok {
		for {
			cb, err := f.readThunk(cbOffset, width)
			if err != nil || cb == 0 {
				break
			}
			tls.Callbacks = append(tls.Callbacks, cb)
			cbOffset += width
		}
	}

	f.TLS = tls
	return true
}
