package pe

// WinCertificate is the fixed prefix of a WIN_CERTIFICATE blob.
type WinCertificate struct {
	Length          uint32
	Revision        uint16
	CertificateType uint16
}

const winCertificateHeaderSize = 8

// Certificate is one attribute certificate from the security directory.
// Data aliases the certificate body following the header.
type Certificate struct {
	Offset uint32
	Header WinCertificate
	Data   []byte
}

// The security directory is special: its VirtualAddress is a raw file
// offset, not an RVA, because certificates are never mapped. Each
// WIN_CERTIFICATE starts at an 8-byte aligned offset.
func (f *File) parseSecurity() bool {
	dir := f.directoryEntry(ImageDirectoryEntrySecurity)
	if dir.VirtualAddress == 0 || dir.Size == 0 {
		return false
	}

	start := uint64(dir.VirtualAddress)
	end := start + uint64(dir.Size)
	if end < start || !f.inBounds(start, 0, false) || !f.inBounds(end, 0, true) {
		return false
	}

	for start < end {
		var hdr WinCertificate
		if err := f.readStruct(&hdr, uint32(start), winCertificateHeaderSize); err != nil {
			break
		}
		if hdr.Length < winCertificateHeaderSize ||
			!f.inBounds(start, uint64(hdr.Length), true) {
			break
		}

		f.Certificates = append(f.Certificates, &Certificate{
			Offset: uint32(start),
			Header: hdr,
			Data:   f.data[start+winCertificateHeaderSize : start+uint64(hdr.Length)],
		})

		advance := (uint64(hdr.Length) + 7) &^ 7
		start += advance
	}

	return true
}
