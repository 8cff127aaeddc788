package source

type (
	// FileID identifies a template (or a rendered output) within a FileSet.
	FileID uint32
	// FileFlags records how the content differs from what was on disk.
	FileFlags uint8
)

const (
	// FileVirtual: содержимое пришло не с диска (тест, stdin, рендер).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
	FileNormalizedNFC
	// FileRendered: вывод рендерера, разобранный повторно командой check.
	FileRendered
)

// File is one template as the lexer sees it, after BOM/CRLF/NFC cleanup.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of '\n'
	Hash    [32]byte // sha256 of Content, keys the render cache
	Flags   FileFlags
}

// LineCol is a 1-based position for diagnostics.
type LineCol struct {
	Line uint32
	Col  uint32
}
