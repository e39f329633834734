package pe

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// The tests build small synthetic images instead of shipping binary
// fixtures. Every image has a DOS header, NT headers at testLfanew and a
// single ".rdata" section mapping RVA testSectionRVA to file offset
// testSectionRaw, so directory content placed into the payload is
// reachable through the translator.
const (
	testLfanew     = 0x100
	testSectionRVA = 0x1000
	testSectionRaw = 0x400

	testImageBase32 = 0x400000
	testImageBase64 = 0x140000000
)

type imageSpec struct {
	is64       bool
	numDirs    uint32
	dirs       [NumberOfDirectoryEntries]ImageDataDirectory
	noSections bool
	payload    []byte // section raw data, placed at testSectionRaw
	richWords  []uint32
	symTable   []byte // COFF string table bytes, placed after the payload
	secName    string
}

func buildImage(t *testing.T, spec imageSpec) []byte {
	t.Helper()

	rawSize := uint32(0x400)
	if uint32(len(spec.payload)) > rawSize {
		rawSize = uint32(len(spec.payload))
	}

	symOffset := testSectionRaw + rawSize
	total := symOffset + uint32(len(spec.symTable))
	data := make([]byte, total)

	binary.LittleEndian.PutUint16(data, ImageDOSSignature)
	binary.LittleEndian.PutUint32(data[0x3C:], testLfanew)
	for i, w := range spec.richWords {
		binary.LittleEndian.PutUint32(data[richBase+i*4:], w)
	}
	binary.LittleEndian.PutUint32(data[testLfanew:], ImageNTHeaderSignature)

	fileHeader := FileHeader{
		Machine:          0x14C,
		NumberOfSections: 1,
	}
	if spec.noSections {
		fileHeader.NumberOfSections = 0
	}
	if spec.is64 {
		fileHeader.Machine = 0x8664
	}
	if len(spec.symTable) > 0 {
		// The string table begins right at PointerToSymbolTable when
		// the symbol count is zero.
		fileHeader.PointerToSymbolTable = symOffset
	}

	var opt bytes.Buffer
	if spec.is64 {
		oh := OptionalHeader64{
			Magic:               ImageNTOptionalHeader64Magic,
			ImageBase:           testImageBase64,
			SectionAlignment:    0x1000,
			FileAlignment:       0x200,
			SizeOfImage:         0x2000,
			SizeOfHeaders:       testSectionRaw,
			NumberOfRvaAndSizes: spec.numDirs,
			DataDirectory:       spec.dirs,
		}
		if err := binary.Write(&opt, binary.LittleEndian, oh); err != nil {
			t.Fatal(err)
		}
	} else {
		oh := OptionalHeader32{
			Magic:               ImageNTOptionalHeader32Magic,
			ImageBase:           testImageBase32,
			SectionAlignment:    0x1000,
			FileAlignment:       0x200,
			SizeOfImage:         0x2000,
			SizeOfHeaders:       testSectionRaw,
			NumberOfRvaAndSizes: spec.numDirs,
			DataDirectory:       spec.dirs,
		}
		if err := binary.Write(&opt, binary.LittleEndian, oh); err != nil {
			t.Fatal(err)
		}
	}
	fileHeader.SizeOfOptionalHeader = uint16(opt.Len())

	var hdr bytes.Buffer
	if err := binary.Write(&hdr, binary.LittleEndian, fileHeader); err != nil {
		t.Fatal(err)
	}
	hdr.Write(opt.Bytes())

	if !spec.noSections {
		name := spec.secName
		if name == "" {
			name = ".rdata"
		}
		sh := ImageSectionHeader{
			VirtualSize:      rawSize,
			VirtualAddress:   testSectionRVA,
			SizeOfRawData:    rawSize,
			PointerToRawData: testSectionRaw,
			Characteristics:  ImageScnMemRead,
		}
		copy(sh.Name[:], name)
		if err := binary.Write(&hdr, binary.LittleEndian, sh); err != nil {
			t.Fatal(err)
		}
	}

	copy(data[testLfanew+4:], hdr.Bytes())
	copy(data[testSectionRaw:], spec.payload)
	copy(data[symOffset:], spec.symTable)
	return data
}

// rva returns the section RVA for a payload offset.
func rva(payloadOffset uint32) uint32 {
	return testSectionRVA + payloadOffset
}

func put16(b []byte, off uint32, v uint16) { binary.LittleEndian.PutUint16(b[off:], v) }
func put32(b []byte, off uint32, v uint32) { binary.LittleEndian.PutUint32(b[off:], v) }
func put64(b []byte, off uint32, v uint64) { binary.LittleEndian.PutUint64(b[off:], v) }

func mustLoad(t *testing.T, data []byte) *File {
	t.Helper()
	f, err := NewBytes(data)
	if err != nil {
		t.Fatalf("NewBytes() error = %v", err)
	}
	return f
}
