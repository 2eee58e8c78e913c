package source

import (
	"fmt"
	"path/filepath"
	"sync"

	"fortio.org/safecast"
)

// FileSet registers inputs of one or many checks. It is safe for concurrent use,
// so batch checks may share a single set.
type FileSet struct {
	mu      sync.RWMutex
	files   []File
	index   map[string]FileID // path -> id
	baseDir string            // базовая директория для относительных путей
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0, 2),
		index: make(map[string]FileID),
	}
}

// NewFileSetWithBase создаёт FileSet с заданной базовой директорией.
func NewFileSetWithBase(baseDir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = baseDir
	return fs
}

// SetBaseDir устанавливает базовую директорию для относительных путей.
func (fileSet *FileSet) SetBaseDir(dir string) {
	fileSet.mu.Lock()
	defer fileSet.mu.Unlock()
	fileSet.baseDir = dir
}

// BaseDir returns the base directory, falling back to the working directory.
func (fileSet *FileSet) BaseDir() string {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	if fileSet.baseDir == "" {
		return workingDir()
	}
	return fileSet.baseDir
}

// Add registers an input and returns a new FileID.
// It always creates a new FileID even if the same path was added before.
func (fileSet *FileSet) Add(path string, flags FileFlags) FileID {
	normalizedPath := normalizePath(path)

	fileSet.mu.Lock()
	defer fileSet.mu.Unlock()

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, File{
		ID:    id,
		Path:  normalizedPath,
		Flags: flags,
	})
	fileSet.index[normalizedPath] = id
	return id
}

// AddVirtual registers an in-memory input (stdin, test, library call).
func (fileSet *FileSet) AddVirtual(name string) FileID {
	return fileSet.Add(name, FileVirtual)
}

// Complete stores what the scanner learned about the input once it was consumed.
func (fileSet *FileSet) Complete(id FileID, sc *Scanner) {
	if sc == nil {
		return
	}
	fileSet.mu.Lock()
	defer fileSet.mu.Unlock()
	if int(id) >= len(fileSet.files) {
		return
	}
	f := &fileSet.files[id]
	f.Hash = sc.Sum()
	f.Lines = sc.Line()
	f.Bytes = sc.Bytes()
	f.Flags |= sc.Flags()
}

// Get returns a snapshot of the file metadata for the given ID.
func (fileSet *FileSet) Get(id FileID) File {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	if int(id) >= len(fileSet.files) {
		return File{ID: id, Path: fmt.Sprintf("<unknown:%d>", id)}
	}
	return fileSet.files[id]
}

// Has reports whether id was issued by this set.
func (fileSet *FileSet) Has(id FileID) bool {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	return int(id) < len(fileSet.files)
}

// GetLatest returns the latest file ID for the given path, if it exists.
func (fileSet *FileSet) GetLatest(path string) (FileID, bool) {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	id, ok := fileSet.index[normalizePath(path)]
	return id, ok
}

// Len returns the number of registered inputs.
func (fileSet *FileSet) Len() int {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	return len(fileSet.files)
}

// FormatPath форматирует путь к файлу в зависимости от режима.
// mode: "absolute", "relative", "basename", "auto"
func (f File) FormatPath(mode, baseDir string) string {
	if f.Virtual() {
		return f.Path
	}
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
		return f.Path

	case "relative":
		if baseDir == "" {
			baseDir = workingDir()
		}
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
		return f.Path

	case "basename":
		return BaseName(f.Path)

	case "auto":
		if len(f.Path) < 40 || !filepath.IsAbs(f.Path) {
			return f.Path
		}
		return BaseName(f.Path)

	default:
		return f.Path
	}
}
