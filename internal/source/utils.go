package source

import (
	"os"
	"path/filepath"
	"strings"
)

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}

	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}

	return content, false
}

// Fields splits a line into whitespace-separated tokens.
func Fields(line string) []string {
	return strings.Fields(line)
}

// ExtraWhitespace reports leading or trailing blanks, tabs, or runs of
// several separators between tokens.
func ExtraWhitespace(line string) bool {
	if line == "" {
		return false
	}
	if isBlank(line[0]) || isBlank(line[len(line)-1]) {
		return true
	}
	prevBlank := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == '\t' || c == '\v' || c == '\f' || c == '\r' {
			return true
		}
		blank := c == ' '
		if blank && prevBlank {
			return true
		}
		prevBlank = blank
	}
	return false
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\v' || c == '\f' || c == '\r'
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}

// AbsolutePath resolves p against the working directory.
func AbsolutePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return normalizePath(abs), nil
}

// RelativePath returns p relative to baseDir; paths outside baseDir stay absolute.
func RelativePath(p, baseDir string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return normalizePath(abs), nil
	}
	return normalizePath(rel), nil
}

// BaseName returns the last path element.
func BaseName(p string) string {
	return filepath.Base(p)
}

func workingDir() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return ""
}
