package source

type (
	// FileID uniquely identifies an input within a FileSet.
	FileID uint32 // просто ID источника
	// FileFlags encodes metadata about an input.
	FileFlags uint8
)

const (
	// FileVirtual indicates the input was added from memory (test, stdin, library call).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска
	FileHadBOM
	FileNormalizedCRLF
	// FileMissingFinalNewline is set when the last line is not terminated by '\n'.
	FileMissingFinalNewline
)

// File captures metadata of a single input. Content is never retained:
// inputs are streamed line by line, only the digest and the line count survive.
type File struct {
	ID    FileID
	Path  string
	Hash  [32]byte
	Lines uint32
	Bytes uint64
	Flags FileFlags
}

// Virtual reports whether the file was not read from disk.
func (f *File) Virtual() bool {
	return f.Flags&FileVirtual != 0
}
