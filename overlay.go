package pe

// getOverlayDataStartOffset finds the end of the highest structure the
// headers account for. Anything past it is overlay: appended data no
// section or directory claims.
func (f *File) getOverlayDataStartOffset() uint32 {
	if f.OptionalHeader == nil {
		return 0
	}

	var largestOffset, largestSize uint32
	update := func(offset, size uint32) {
		sum := uint64(offset) + uint64(size)
		if sum <= uint64(len(f.data)) && sum > uint64(largestOffset)+uint64(largestSize) {
			largestOffset, largestSize = offset, size
		}
	}

	update(f.NtHeader.Offset+4+FileHeaderSize, uint32(f.FileHeader.SizeOfOptionalHeader))

	for _, s := range f.Sections {
		update(s.Header.PointerToRawData, s.Header.SizeOfRawData)
	}

	for i, dir := range f.DataDirs {
		if i == ImageDirectoryEntrySecurity {
			// Already a file offset, and the certificates commonly sit
			// at the very end of the file.
			update(dir.VirtualAddress, dir.Size)
			continue
		}
		if offset, ok := f.rvaToOffset(uint64(dir.VirtualAddress)); ok {
			update(offset, dir.Size)
		}
	}

	end := uint64(largestOffset) + uint64(largestSize)
	if end > 0 && end < uint64(len(f.data)) {
		return uint32(end)
	}
	return 0
}

// Overlay returns the bytes appended past the mapped image, or nil when
// there are none. OverlayOffset is set as a side effect.
func (f *File) Overlay() []byte {
	start := f.getOverlayDataStartOffset()
	f.OverlayOffset = int64(start)
	if start == 0 {
		return nil
	}
	return f.data[start:]
}
