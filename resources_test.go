package pe

import (
	"bytes"
	"testing"
)

// putResDir writes an IMAGE_RESOURCE_DIRECTORY with the given named and
// ID entry counts.
func putResDir(b []byte, off uint32, named, id uint16) {
	put16(b, off+12, named)
	put16(b, off+14, id)
}

// putResEntry writes one IMAGE_RESOURCE_DIRECTORY_ENTRY.
func putResEntry(b []byte, off, name, offsetToData uint32) {
	put32(b, off, name)
	put32(b, off+4, offsetToData)
}

func TestResourceTree(t *testing.T) {
	payload := make([]byte, 0x200)

	// Root: one ID entry (type 3, RT_ICON) pointing at a name-level
	// directory with a named entry, which points at a language-level
	// directory with a single leaf.
	putResDir(payload, 0, 0, 1)
	putResEntry(payload, 16, 3, 0x80000000|0x20)

	putResDir(payload, 0x20, 1, 0)
	putResEntry(payload, 0x30, 0x80000000|0x90, 0x80000000|0x40)

	putResDir(payload, 0x40, 0, 1)
	putResEntry(payload, 0x50, 0x409, 0x60) // leaf, lang 0x409

	// Leaf data entry: OffsetToData is an RVA.
	put32(payload, 0x60, rva(0xA0)) // OffsetToData
	put32(payload, 0x64, 8)         // Size

	// Counted UTF-16 name "ICO" at base+0x90.
	put16(payload, 0x90, 3)
	put16(payload, 0x92, 'I')
	put16(payload, 0x94, 'C')
	put16(payload, 0x96, 'O')

	copy(payload[0xA0:], "resource")

	var dirs [NumberOfDirectoryEntries]ImageDataDirectory
	dirs[ImageDirectoryEntryResource] = ImageDataDirectory{VirtualAddress: rva(0), Size: 0x200}

	f := mustLoad(t, buildImage(t, imageSpec{numDirs: 16, dirs: dirs, payload: payload}))
	if !f.FileInfo.HasResource || f.Resources == nil {
		t.Fatal("resource directory not parsed")
	}

	root := f.Resources
	if len(root.Entries) != 1 || root.Entries[0].ID != 3 || !root.Entries[0].IsDirectory {
		t.Fatalf("root entries = %+v, want one ID-3 directory entry", root.Entries)
	}

	nameLevel := root.Entries[0].Directory
	if len(nameLevel.Entries) != 1 || nameLevel.Entries[0].Name != "ICO" {
		t.Fatalf("name level = %+v, want one entry named ICO", nameLevel.Entries)
	}

	langLevel := nameLevel.Entries[0].Directory
	if len(langLevel.Entries) != 1 {
		t.Fatalf("lang level = %+v, want one leaf", langLevel.Entries)
	}
	leaf := langLevel.Entries[0]
	if leaf.IsDirectory || leaf.Data == nil {
		t.Fatal("leaf entry is not a data entry")
	}
	if leaf.Data.Lang != 0x009 || leaf.Data.SubLang != 0x001 {
		t.Errorf("lang/sublang = %#x/%#x, want 0x9/0x1", leaf.Data.Lang, leaf.Data.SubLang)
	}
	if !bytes.Equal(leaf.Data.Data, []byte("resource")) {
		t.Errorf("leaf data = %q, want %q", leaf.Data.Data, "resource")
	}

	flat := FlatResources(root)
	if len(flat) != 1 {
		t.Fatalf("len(FlatResources) = %d, want 1", len(flat))
	}
	if flat[0].TypeID != 3 || flat[0].NameStr != "ICO" || flat[0].LangID != 0x409 {
		t.Errorf("flat[0] = %+v, want type 3, name ICO, lang 0x409", flat[0])
	}
	if GetResourceTypeName(root.Entries[0]) != "RT_ICON" {
		t.Errorf("type name = %q, want RT_ICON", GetResourceTypeName(root.Entries[0]))
	}
}

// A level-2 entry pointing back at the root must not recurse forever;
// the cycle node is replaced with an empty placeholder.
func TestResourceTreeCycle(t *testing.T) {
	payload := make([]byte, 0x100)

	putResDir(payload, 0, 0, 1)
	putResEntry(payload, 16, 1, 0x80000000|0x20)

	putResDir(payload, 0x20, 0, 1)
	putResEntry(payload, 0x30, 2, 0x80000000|0x0) // back to the root

	var dirs [NumberOfDirectoryEntries]ImageDataDirectory
	dirs[ImageDirectoryEntryResource] = ImageDataDirectory{VirtualAddress: rva(0), Size: 0x100}

	f := mustLoad(t, buildImage(t, imageSpec{numDirs: 16, dirs: dirs, payload: payload}))
	if !f.FileInfo.HasResource || f.Resources == nil {
		t.Fatal("resource directory not parsed")
	}

	level2 := f.Resources.Entries[0].Directory
	if len(level2.Entries) != 1 {
		t.Fatalf("level 2 entries = %+v, want 1", level2.Entries)
	}
	cycle := level2.Entries[0]
	if !cycle.IsDirectory || cycle.Directory == nil {
		t.Fatal("cycle entry lost its directory marker")
	}
	if len(cycle.Directory.Entries) != 0 || cycle.Directory.Header != (ImageResourceDirectory{}) {
		t.Errorf("cycle node = %+v, want empty placeholder", cycle.Directory)
	}
}
