package pe

import "github.com/pkg/errors"

// Top-level errors returned by NewFile and (*File).Load.
var (
	ErrFileOpen         = errors.New("cannot open file")
	ErrFileSizeTooSmall = errors.New("file is smaller than the DOS header")
	ErrFileMapping      = errors.New("cannot read file into memory")
	ErrNoDOSHeader      = errors.New("DOS signature not found, not a PE file")
)

var (
	ErrOutsideBoundary = errors.New("reading data outside boundary")
	ErrNoNTHeader      = errors.New("not a valid PE signature")
)
