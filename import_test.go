package pe

import "testing"

func TestImport32(t *testing.T) {
	payload := make([]byte, 0x200)

	// Descriptor at rva(0), followed by the all-zero terminator.
	put32(payload, 0, rva(0x80)) // OriginalFirstThunk
	put32(payload, 12, rva(0xC0)) // Name
	put32(payload, 16, rva(0xA0)) // FirstThunk

	// ILT: one hint/name import, one by ordinal, terminator.
	put32(payload, 0x80, rva(0xD0))
	put32(payload, 0x84, 0x80000005)
	put32(payload, 0x88, 0)

	copy(payload[0xC0:], "FOO.DLL\x00")
	put16(payload, 0xD0, 42) // hint
	copy(payload[0xD2:], "Beta\x00")

	var dirs [NumberOfDirectoryEntries]ImageDataDirectory
	dirs[ImageDirectoryEntryImport] = ImageDataDirectory{VirtualAddress: rva(0), Size: 40}

	f := mustLoad(t, buildImage(t, imageSpec{numDirs: 16, dirs: dirs, payload: payload}))
	if !f.FileInfo.HasImport {
		t.Fatal("import directory not parsed")
	}
	if len(f.Imports) != 1 {
		t.Fatalf("len(Imports) = %d, want 1", len(f.Imports))
	}

	imp := f.Imports[0]
	if imp.Name != "FOO.DLL" {
		t.Errorf("module = %q, want FOO.DLL", imp.Name)
	}
	if imp.Offset != testSectionRaw {
		t.Errorf("descriptor offset = %#x, want %#x", imp.Offset, testSectionRaw)
	}
	if len(imp.Functions) != 2 {
		t.Fatalf("len(Functions) = %d, want 2", len(imp.Functions))
	}

	byName := imp.Functions[0]
	if byName.ByOrdinal || byName.Name != "Beta" || byName.Hint != 42 {
		t.Errorf("functions[0] = %+v, want hint 42 name Beta", byName)
	}
	if byName.ThunkRVA != rva(0x80) {
		t.Errorf("functions[0].ThunkRVA = %#x, want %#x", byName.ThunkRVA, rva(0x80))
	}

	byOrdinal := imp.Functions[1]
	if !byOrdinal.ByOrdinal || byOrdinal.Ordinal != 5 {
		t.Errorf("functions[1] = %+v, want ordinal 5", byOrdinal)
	}
}

func TestImport64Ordinal(t *testing.T) {
	payload := make([]byte, 0x200)

	put32(payload, 0, rva(0x80))
	put32(payload, 12, rva(0xC0))
	put32(payload, 16, rva(0x80))

	put64(payload, 0x80, 0x8000000000000007)
	put64(payload, 0x88, 0)
	copy(payload[0xC0:], "BAR.DLL\x00")

	var dirs [NumberOfDirectoryEntries]ImageDataDirectory
	dirs[ImageDirectoryEntryImport] = ImageDataDirectory{VirtualAddress: rva(0), Size: 40}

	f := mustLoad(t, buildImage(t, imageSpec{is64: true, numDirs: 16, dirs: dirs, payload: payload}))
	if len(f.Imports) != 1 || len(f.Imports[0].Functions) != 1 {
		t.Fatalf("imports = %+v, want one module with one function", f.Imports)
	}
	fn := f.Imports[0].Functions[0]
	if !fn.ByOrdinal || fn.Ordinal != 7 {
		t.Errorf("function = %+v, want ordinal 7", fn)
	}
}

// A thunk table with far more entries than any real module must be cut
// off at the cap without failing the parse.
func TestImportFunctionCap(t *testing.T) {
	const bogus = 10000
	payload := make([]byte, 0x100+4*(bogus+1))

	put32(payload, 0, rva(0x100)) // OriginalFirstThunk
	put32(payload, 12, rva(0x40)) // Name
	copy(payload[0x40:], "HUGE.DLL\x00")
	for i := uint32(0); i < bogus; i++ {
		put32(payload, 0x100+i*4, 0x80000000|(i+1))
	}

	var dirs [NumberOfDirectoryEntries]ImageDataDirectory
	dirs[ImageDirectoryEntryImport] = ImageDataDirectory{VirtualAddress: rva(0), Size: 40}

	f := mustLoad(t, buildImage(t, imageSpec{numDirs: 16, dirs: dirs, payload: payload}))
	if !f.FileInfo.HasImport || len(f.Imports) != 1 {
		t.Fatal("import directory not parsed")
	}
	if got := len(f.Imports[0].Functions); got != maxImportFuncs {
		t.Errorf("len(Functions) = %d, want capped at %d", got, maxImportFuncs)
	}
}

func TestDelayImport(t *testing.T) {
	payload := make([]byte, 0x200)

	// IMAGE_DELAYLOAD_DESCRIPTOR at rva(0).
	put32(payload, 0, 1)          // Attributes
	put32(payload, 4, rva(0xC0))  // Name
	put32(payload, 12, rva(0xA0)) // ImportAddressTableRVA
	put32(payload, 16, rva(0x80)) // ImportNameTableRVA

	put32(payload, 0x80, rva(0xD0)) // hint/name thunk
	put32(payload, 0x84, 0)
	put32(payload, 0xA0, 0xCAFE) // IAT slot advanced in lockstep
	copy(payload[0xC0:], "LAZY.DLL\x00")
	put16(payload, 0xD0, 9)
	copy(payload[0xD2:], "Gamma\x00")

	var dirs [NumberOfDirectoryEntries]ImageDataDirectory
	dirs[ImageDirectoryEntryDelayImport] = ImageDataDirectory{VirtualAddress: rva(0), Size: 32}

	f := mustLoad(t, buildImage(t, imageSpec{numDirs: 16, dirs: dirs, payload: payload}))
	if !f.FileInfo.HasDelayImp || len(f.DelayImports) != 1 {
		t.Fatal("delay import directory not parsed")
	}

	di := f.DelayImports[0]
	if di.Name != "LAZY.DLL" {
		t.Errorf("module = %q, want LAZY.DLL", di.Name)
	}
	if len(di.Functions) != 1 {
		t.Fatalf("len(Functions) = %d, want 1", len(di.Functions))
	}
	fn := di.Functions[0]
	if fn.Name != "Gamma" || fn.Hint != 9 {
		t.Errorf("function = %+v, want hint 9 name Gamma", fn)
	}
	if fn.AddressTableValue != 0xCAFE {
		t.Errorf("AddressTableValue = %#x, want 0xCAFE", fn.AddressTableValue)
	}
}
