package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/fatih/color"
	pe "github.com/go-peimage/peimage"
	"github.com/h2non/filetype"
)

var (
	filename string
	asJSON   bool
)

func init() {
	flag.StringVar(&filename, "filename", "", "Please enter the file path")
	flag.BoolVar(&asJSON, "json", false, "Emit machine-readable JSON instead of the report")
	flag.Parse()
}

type Info struct {
	MachineType     uint16
	EntryPoint      uint32
	CompilationTime uint32
	IsPE64          bool
	ImageBase       uint64
	Sections        []*SectionInfo
	Imports         []*ImportInfo
	Exports         []string
	ResourceDetails []*ResourceDetail
	PDBPath         string
	Overlay         *OverlayInfo
}

type SectionInfo struct {
	Name           string
	MD5            string
	Flags          string
	RawSize        uint32
	VirtualAddress uint32
	VirtualSize    uint32
	Entropy        float64
}

type ImportInfo struct {
	DLL       string
	Functions []string
}

type ResourceDetail struct {
	Type     string
	Name     string
	LangID   uint32
	FileType string
	Size     int
}

type OverlayInfo struct {
	Offset   int64
	Size     int
	FileType string
}

func getSections(f *pe.File) []*SectionInfo {
	sections := make([]*SectionInfo, 0, len(f.Sections))
	for _, s := range f.Sections {
		sections = append(sections, &SectionInfo{
			Name:           s.Name,
			MD5:            s.MD5(),
			Flags:          s.Flags(),
			RawSize:        s.Header.SizeOfRawData,
			VirtualAddress: s.Header.VirtualAddress,
			VirtualSize:    s.Header.VirtualSize,
			Entropy:        s.Entropy(),
		})
	}
	return sections
}

func getImports(f *pe.File) []*ImportInfo {
	imports := make([]*ImportInfo, 0, len(f.Imports))
	for _, imp := range f.Imports {
		info := &ImportInfo{DLL: imp.Name}
		for _, fn := range imp.Functions {
			if fn.ByOrdinal {
				info.Functions = append(info.Functions, fmt.Sprintf("#%d", fn.Ordinal))
			} else {
				info.Functions = append(info.Functions, fn.Name)
			}
		}
		imports = append(imports, info)
	}
	return imports
}

func getExports(f *pe.File) []string {
	if f.Export == nil {
		return nil
	}
	exports := make([]string, 0, len(f.Export.Functions))
	for _, fn := range f.Export.Functions {
		switch {
		case fn.Forwarder != "":
			exports = append(exports, fn.Name+" -> "+fn.Forwarder)
		case fn.Name != "":
			exports = append(exports, fn.Name)
		default:
			exports = append(exports, fmt.Sprintf("#%d", fn.Ordinal+f.Export.Header.Base))
		}
	}
	return exports
}

func getResourceDetails(f *pe.File) []*ResourceDetail {
	var details []*ResourceDetail
	for _, res := range pe.FlatResources(f.Resources) {
		typeName := res.TypeStr
		if typeName == "" {
			typeName = pe.ResourceTypeName(res.TypeID)
		}
		details = append(details, &ResourceDetail{
			Type:     typeName,
			Name:     res.NameStr,
			LangID:   res.LangID,
			FileType: getFileType(res.Data),
			Size:     len(res.Data),
		})
	}
	return details
}

func getPDBPath(f *pe.File) string {
	for _, d := range f.Debug {
		if d.Info.PDBName != "" {
			return d.Info.PDBName
		}
	}
	return ""
}

func getOverlay(f *pe.File) *OverlayInfo {
	data := f.Overlay()
	if data == nil {
		return nil
	}
	return &OverlayInfo{
		Offset:   f.OverlayOffset,
		Size:     len(data),
		FileType: getFileType(data),
	}
}

func getFileType(data []byte) string {
	kind, _ := filetype.Match(data)
	if kind == filetype.Unknown {
		return "Data"
	}
	return kind.MIME.Value
}

func collect(f *pe.File) *Info {
	info := &Info{
		MachineType:     f.FileHeader.Machine,
		CompilationTime: f.FileHeader.TimeDateStamp,
		IsPE64:          f.FileInfo.IsPE64,
		ImageBase:       f.ImageBase(),
		Sections:        getSections(f),
		Imports:         getImports(f),
		Exports:         getExports(f),
		ResourceDetails: getResourceDetails(f),
		PDBPath:         getPDBPath(f),
		Overlay:         getOverlay(f),
	}
	switch oh := f.OptionalHeader.(type) {
	case *pe.OptionalHeader32:
		info.EntryPoint = oh.AddressOfEntryPoint
	case *pe.OptionalHeader64:
		info.EntryPoint = oh.AddressOfEntryPoint
	}
	return info
}

func report(f *pe.File, info *Info) {
	title := color.New(color.FgCyan, color.Bold)
	label := color.New(color.FgYellow)

	variant := "PE32"
	if info.IsPE64 {
		variant = "PE32+"
	}
	title.Printf("=== %s ===\n", filename)
	label.Print("Variant:        ")
	fmt.Println(variant)
	label.Print("Machine:        ")
	fmt.Printf("0x%X\n", info.MachineType)
	label.Print("Entry point:    ")
	fmt.Printf("0x%X\n", info.EntryPoint)
	label.Print("Image base:     ")
	fmt.Printf("0x%X\n", info.ImageBase)
	label.Print("Rich entries:   ")
	fmt.Println(len(f.RichHeader))

	title.Println("\nSections")
	for _, s := range info.Sections {
		fmt.Printf("  %-10s %3s  va=0x%08X vsz=0x%08X raw=0x%08X entropy=%.2f\n",
			s.Name, s.Flags, s.VirtualAddress, s.VirtualSize, s.RawSize, s.Entropy)
	}

	if len(info.Imports) > 0 {
		title.Println("\nImports")
		for _, imp := range info.Imports {
			fmt.Printf("  %s (%d functions)\n", imp.DLL, len(imp.Functions))
		}
	}

	if len(info.Exports) > 0 {
		title.Println("\nExports")
		for _, e := range info.Exports {
			fmt.Printf("  %s\n", e)
		}
	}

	if len(info.ResourceDetails) > 0 {
		title.Println("\nResources")
		for _, r := range info.ResourceDetails {
			fmt.Printf("  %-16s %-16s lang=%d %s (%d bytes)\n", r.Type, r.Name, r.LangID, r.FileType, r.Size)
		}
	}

	if len(f.Certificates) > 0 {
		title.Println("\nCertificates")
		for _, c := range f.Certificates {
			fmt.Printf("  offset=0x%X length=%d revision=0x%X type=%d\n",
				c.Offset, c.Header.Length, c.Header.Revision, c.Header.CertificateType)
		}
	}

	if info.PDBPath != "" {
		label.Print("\nPDB path:       ")
		fmt.Println(info.PDBPath)
	}

	if info.Overlay != nil {
		label.Print("Overlay:        ")
		fmt.Printf("offset=0x%X size=%d type=%s\n", info.Overlay.Offset, info.Overlay.Size, info.Overlay.FileType)
	}
}

func main() {
	f, err := pe.NewFile(filename)
	if err != nil {
		log.Fatal(err)
	}
	if f.OptionalHeader == nil {
		return
	}

	info := collect(f)
	if asJSON {
		data, _ := json.MarshalIndent(info, "", "    ")
		fmt.Printf("%s\n", data)
		return
	}
	report(f, info)
}
