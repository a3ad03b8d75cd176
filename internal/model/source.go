package model

// Path represents a file system path.
type Path string

// File represents a source code file on disk.
type File struct {
	// FullPath is the absolute location of the file.
	FullPath Path
	// ShortPath is the path relative to the scanned root, used for display.
	ShortPath Path
	// Hash is a stable fingerprint (SHA-256) of the file contents.
	Hash string
}

// Source is a single Go file eligible for instrumentation.
type Source struct {
	Origin  *File
	Package *string
}
