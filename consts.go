package pe

const (
	ImageDOSSignature      = 0x5A4D     // MZ
	ImageNTHeaderSignature = 0x00004550 // PE\0\0

	ImageNTOptionalHeader32Magic = 0x10B
	ImageNTOptionalHeader64Magic = 0x20B
)

// DOSHeaderSize is the size of the MS-DOS header, the minimum a file must
// carry to be considered at all.
const DOSHeaderSize = 64

const FileHeaderSize = 20

// IMAGE_DIRECTORY_ENTRY constants
const (
	ImageDirectoryEntryExport        = 0
	ImageDirectoryEntryImport        = 1
	ImageDirectoryEntryResource      = 2
	ImageDirectoryEntryException     = 3
	ImageDirectoryEntrySecurity      = 4
	ImageDirectoryEntryBaseReloc     = 5
	ImageDirectoryEntryDebug         = 6
	ImageDirectoryEntryArchitecture  = 7
	ImageDirectoryEntryGlobalPtr     = 8
	ImageDirectoryEntryTLS           = 9
	ImageDirectoryEntryLoadConfig    = 10
	ImageDirectoryEntryBoundImport   = 11
	ImageDirectoryEntryIAT           = 12
	ImageDirectoryEntryDelayImport   = 13
	ImageDirectoryEntryComDescriptor = 14
)

// NumberOfDirectoryEntries is the format's hard cap on data directories,
// regardless of what NumberOfRvaAndSizes claims.
const NumberOfDirectoryEntries = 16

const (
	ImageScnMemExecute = 0x20000000
	ImageScnMemRead    = 0x40000000
	ImageScnMemWrite   = 0x80000000
)

const (
	DansSignature = 0x536E6144 // "DanS"
	RichSignature = 0x68636952 // "Rich"

	richBase        = 0x80 // "Rich" stub begins here, right after the DOS stub
	richEntriesBase = 0x90 // "DanS" plus 12 zeroed bytes precede the entries
)

const (
	imageOrdinalFlag32 = uint64(0x80000000)
	imageOrdinalFlag64 = uint64(0x8000000000000000)
	addressMask32      = uint64(0x7fffffff)
	addressMask64      = uint64(0x7fffffffffffffff)
)

// Caps on the import walks. Bogus descriptors can claim absurd counts;
// a real PE never comes close to either limit.
const (
	maxImportModules = 1000
	maxImportFuncs   = 5000
)

// maxAllowedEntries bounds a single resource directory.
const maxAllowedEntries = 0x1000

// maxPath bounds every name string read out of the image.
const maxPath = 260

const (
	ImageDebugTypeCodeView = 2

	cvSignatureRSDS = 0x53445352 // "RSDS", PDB 7.0
	cvSignatureNB10 = 0x3031424E // "NB10", PDB 2.0
)

const ImageRelBasedHighAdj = 4

// RelocTypeName returns the symbolic name of a base relocation type.
func RelocTypeName(relocType uint16) string {
	switch relocType {
	case 0:
		return "ABSOLUTE"
	case 1:
		return "HIGH"
	case 2:
		return "LOW"
	case 3:
		return "HIGHLOW"
	case 4:
		return "HIGHADJ"
	case 5:
		return "MACHINE_SPECIFIC_5"
	case 6:
		return "RESERVED"
	case 7:
		return "MACHINE_SPECIFIC_7"
	case 8:
		return "MACHINE_SPECIFIC_8"
	case 9:
		return "MACHINE_SPECIFIC_9"
	case 10:
		return "DIR64"
	}
	return "UNKNOWN"
}

var resourceTypeNames = map[uint32]string{
	1:   "RT_CURSOR",
	2:   "RT_BITMAP",
	3:   "RT_ICON",
	4:   "RT_MENU",
	5:   "RT_DIALOG",
	6:   "RT_STRING",
	7:   "RT_FONTDIR",
	8:   "RT_FONT",
	9:   "RT_ACCELERATOR",
	10:  "RT_RCDATA",
	11:  "RT_MESSAGETABLE",
	12:  "RT_GROUP_CURSOR",
	14:  "RT_GROUP_ICON",
	16:  "RT_VERSION",
	17:  "RT_DLGINCLUDE",
	19:  "RT_PLUGPLAY",
	20:  "RT_VXD",
	21:  "RT_ANICURSOR",
	22:  "RT_ANIICON",
	23:  "RT_HTML",
	24:  "RT_MANIFEST",
	28:  "RT_RIBBON_XML",
	240: "RT_DLGINIT",
	241: "RT_TOOLBAR",
}

// ResourceTypeName returns the well-known name for a root-level resource
// type ID, or an empty string for custom types.
func ResourceTypeName(id uint32) string {
	return resourceTypeNames[id]
}
