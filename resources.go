package pe

import "encoding/binary"

type (
	ImageResourceDirectory struct {
		Characteristics      uint32
		TimeDateStamp        uint32
		MajorVersion         uint16
		MinorVersion         uint16
		NumberOfNamedEntries uint16
		NumberOfIDEntries    uint16
	}

	ImageResourceDirectoryEntry struct {
		Name         uint32
		OffsetToData uint32
	}

	ImageResourceDataEntry struct {
		OffsetToData uint32
		Size         uint32
		CodePage     uint32
		Reserved     uint32
	}

	// ResourceDirectory is one level of the three-level resource tree
	// (type / name / language).
	ResourceDirectory struct {
		Offset  uint32
		Header  ImageResourceDirectory
		Entries []ResourceDirectoryEntry
	}

	// ResourceDirectoryEntry points either at a child directory or at a
	// leaf data entry. An entry that closed a cycle back to one of its
	// ancestors gets an empty placeholder Directory instead.
	ResourceDirectoryEntry struct {
		Header      ImageResourceDirectoryEntry
		Name        string
		ID          uint32
		IsDirectory bool
		Directory   *ResourceDirectory
		Data        *ResourceDataEntry
	}

	// ResourceDataEntry is a leaf. OffsetToData inside the header is an
	// RVA; Data aliases the payload when its whole range fits the file.
	ResourceDataEntry struct {
		Header  ImageResourceDataEntry
		Lang    uint32
		SubLang uint32
		Data    []byte
	}
)

const (
	resNameIsString    = 0x80000000
	resDataIsDirectory = 0x80000000
	resOffsetMask      = 0x7FFFFFFF

	// The tree is conventionally three levels deep; anything beyond
	// this is hostile nesting.
	maxResourceDepth = 32
)

func (f *File) parseResources() bool {
	dir := f.directoryEntry(ImageDirectoryEntryResource)
	if _, ok := f.rvaToOffset(uint64(dir.VirtualAddress)); !ok {
		return false
	}

	root, err := f.parseResourceDirectory(uint64(dir.VirtualAddress), uint64(dir.VirtualAddress), nil)
	if err != nil || root == nil {
		return false
	}
	f.Resources = root
	return true
}

// parseResourceDirectory walks one directory level. baseRVA is the root
// directory's RVA; name offsets and child directory offsets count from
// it. seen carries the directory RVAs on the current path, so an entry
// pointing back at any ancestor is cut off with an empty placeholder
// rather than recursed into.
func (f *File) parseResourceDirectory(rva, baseRVA uint64, seen []uint64) (*ResourceDirectory, error) {
	var hdr ImageResourceDirectory
	hdrSize := uint32(binary.Size(hdr))
	offset, ok := f.rvaToOffset(rva)
	if !ok {
		return nil, ErrOutsideBoundary
	}
	if err := f.readStruct(&hdr, offset, hdrSize); err != nil {
		return nil, err
	}

	seen = append(seen, rva)
	dir := &ResourceDirectory{Offset: offset, Header: hdr}

	numberOfEntries := int(hdr.NumberOfNamedEntries) + int(hdr.NumberOfIDEntries)
	if numberOfEntries > maxAllowedEntries {
		return dir, nil
	}

	entryRVA := rva + uint64(hdrSize)
	entrySize := uint32(binary.Size(ImageResourceDirectoryEntry{}))

	for i := 0; i < numberOfEntries; i++ {
		var raw ImageResourceDirectoryEntry
		entryOffset, ok := f.rvaToOffset(entryRVA)
		if !ok {
			break
		}
		if err := f.readStruct(&raw, entryOffset, entrySize); err != nil {
			break
		}
		if raw == (ImageResourceDirectoryEntry{}) {
			break
		}

		entry := ResourceDirectoryEntry{Header: raw}
		if raw.Name&resNameIsString != 0 {
			nameOffset, ok := f.rvaToOffset(baseRVA + uint64(raw.Name&resOffsetMask))
			if ok {
				entry.Name = f.utf16StringAt(nameOffset, maxPath)
			}
		} else {
			entry.ID = raw.Name
		}

		target := baseRVA + uint64(raw.OffsetToData&resOffsetMask)
		if raw.OffsetToData&resDataIsDirectory != 0 {
			entry.IsDirectory = true
			if containsRVA(seen, target) || len(seen) >= maxResourceDepth {
				// Self-referential or absurdly deep tree: stop here
				// with an empty node.
				entry.Directory = &ResourceDirectory{}
			} else {
				child, err := f.parseResourceDirectory(target, baseRVA, seen)
				if err != nil {
					break
				}
				entry.Directory = child
			}
		} else {
			entry.Data = f.parseResourceDataEntry(target, raw.Name)
		}

		dir.Entries = append(dir.Entries, entry)
		entryRVA += uint64(entrySize)
	}

	return dir, nil
}

func (f *File) parseResourceDataEntry(rva uint64, nameField uint32) *ResourceDataEntry {
	var hdr ImageResourceDataEntry
	offset, ok := f.rvaToOffset(rva)
	if !ok {
		return nil
	}
	if err := f.readStruct(&hdr, offset, uint32(binary.Size(hdr))); err != nil {
		return nil
	}

	entry := &ResourceDataEntry{
		Header:  hdr,
		Lang:    nameField & 0x3ff,
		SubLang: nameField >> 10,
	}

	// OffsetToData is a plain RVA, not an offset from the resource root.
	// The payload may legitimately end exactly at the end of the file.
	if dataOffset, ok := f.rvaToOffset(uint64(hdr.OffsetToData)); ok {
		if f.inBounds(uint64(dataOffset), uint64(hdr.Size), true) {
			entry.Data = f.data[dataOffset : uint64(dataOffset)+uint64(hdr.Size)]
		}
	}
	return entry
}

func containsRVA(list []uint64, rva uint64) bool {
	for _, v := range list {
		if v == rva {
			return true
		}
	}
	return false
}

// FlatResource is one leaf of the resource tree with its type, name and
// language coordinates pulled up.
type FlatResource struct {
	Data    []byte
	TypeStr string
	NameStr string
	LangStr string
	TypeID  uint32
	NameID  uint32
	LangID  uint32
}

// FlatResources flattens the conventional type/name/language tree into a
// list, one element per leaf.
func FlatResources(root *ResourceDirectory) []FlatResource {
	var out []FlatResource
	if root == nil {
		return out
	}

	for _, typeEntry := range root.Entries {
		res := FlatResource{TypeStr: typeEntry.Name, TypeID: typeEntry.ID}
		if !typeEntry.IsDirectory {
			if typeEntry.Data != nil {
				res.Data = typeEntry.Data.Data
			}
			out = append(out, res)
			continue
		}

		for _, nameEntry := range typeEntry.Directory.Entries {
			res := res
			res.NameStr = nameEntry.Name
			res.NameID = nameEntry.ID
			if !nameEntry.IsDirectory {
				if nameEntry.Data != nil {
					res.Data = nameEntry.Data.Data
				}
				out = append(out, res)
				continue
			}

			for _, langEntry := range nameEntry.Directory.Entries {
				res := res
				res.LangStr = langEntry.Name
				res.LangID = langEntry.ID
				if langEntry.Data != nil {
					res.Data = langEntry.Data.Data
				}
				out = append(out, res)
			}
		}
	}

	return out
}
