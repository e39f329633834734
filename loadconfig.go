package pe

import "encoding/binary"

type ImageLoadConfigCodeIntegrity struct {
	Flags         uint16
	Catalog       uint16
	CatalogOffset uint32
	Reserved      uint32
}

type ImageLoadConfigDirectory32 struct {
	Size                           uint32
	TimeDateStamp                  uint32
	MajorVersion                   uint16
	MinorVersion                   uint16
	GlobalFlagsClear               uint32
	GlobalFlagsSet                 uint32
	CriticalSectionDefaultTimeout  uint32
	DeCommitFreeBlockThreshold     uint32
	DeCommitTotalFreeThreshold     uint32
	LockPrefixTable                uint32
	MaximumAllocationSize          uint32
	VirtualMemoryThreshold         uint32
	ProcessHeapFlags               uint32
	ProcessAffinityMask            uint32
	CSDVersion                     uint16
	DependentLoadFlags             uint16
	EditList                       uint32
	SecurityCookie                 uint32
	SEHandlerTable                 uint32
	SEHandlerCount                 uint32
	GuardCFCheckFunctionPointer    uint32
	GuardCFDispatchFunctionPointer uint32
	GuardCFFunctionTable           uint32
	GuardCFFunctionCount           uint32
	GuardFlags                     uint32
	CodeIntegrity                  ImageLoadConfigCodeIntegrity
	GuardAddressTakenIatEntryTable uint32
	GuardAddressTakenIatEntryCount uint32
	GuardLongJumpTargetTable       uint32
	GuardLongJumpTargetCount       uint32
}

type ImageLoadConfigDirectory64 struct {
	Size                           uint32
	TimeDateStamp                  uint32
	MajorVersion                   uint16
	MinorVersion                   uint16
	GlobalFlagsClear               uint32
	GlobalFlagsSet                 uint32
	CriticalSectionDefaultTimeout  uint32
	DeCommitFreeBlockThreshold     uint64
	DeCommitTotalFreeThreshold     uint64
	LockPrefixTable                uint64
	MaximumAllocationSize          uint64
	VirtualMemoryThreshold         uint64
	ProcessAffinityMask            uint64
	ProcessHeapFlags               uint32
	CSDVersion                     uint16
	DependentLoadFlags             uint16
	EditList                       uint64
	SecurityCookie                 uint64
	SEHandlerTable                 uint64
	SEHandlerCount                 uint64
	GuardCFCheckFunctionPointer    uint64
	GuardCFDispatchFunctionPointer uint64
	GuardCFFunctionTable           uint64
	GuardCFFunctionCount           uint64
	GuardFlags                     uint32
	CodeIntegrity                  ImageLoadConfigCodeIntegrity
	GuardAddressTakenIatEntryTable uint64
	GuardAddressTakenIatEntryCount uint64
	GuardLongJumpTargetTable       uint64
	GuardLongJumpTargetCount       uint64
}

// LoadConfig is the load configuration directory. Directory is either an
// *ImageLoadConfigDirectory32 or an *ImageLoadConfigDirectory64.
type LoadConfig struct {
	Offset    uint32
	Directory interface{}
}

func (f *File) parseLoadConfig() bool {
	dir := f.directoryEntry(ImageDirectoryEntryLoadConfig)
	offset, ok := f.rvaToOffset(uint64(dir.VirtualAddress))
	if !ok {
		return false
	}

	switch {
	case f.FileInfo.IsPE32:
		lcd := new(ImageLoadConfigDirectory32)
		if err := f.readStruct(lcd, offset, uint32(binary.Size(*lcd))); err != nil {
			return false
		}
		f.LoadConfig = &LoadConfig{Offset: offset, Directory: lcd}
	case f.FileInfo.IsPE64:
		lcd := new(ImageLoadConfigDirectory64)
		if err := f.readStruct(lcd, offset, uint32(binary.Size(*lcd))); err != nil {
			return false
		}
		f.LoadConfig = &LoadConfig{Offset: offset, Directory: lcd}
	default:
		return false
	}

	return true
}
