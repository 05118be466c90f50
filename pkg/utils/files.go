package utils

import (
	"os"
	"path/filepath"
	"strings"

	"litec/pkg/compiler"
)

// Source is a program file loaded from disk.
type Source struct {
	FullPath  string
	Dir       string
	ClassName string // base name without extension
	Text      string
}

// IsLite reports whether the file is Lite source rather than assembly.
func (s *Source) IsLite() bool {
	return strings.EqualFold(filepath.Ext(s.FullPath), ".lite")
}

func GetPathInfo(relPath string) (fullPath string, parentDir string, err error) {
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}
	return fullPath, filepath.Dir(fullPath), nil
}

// LoadSource resolves relPath and reads the file it names.
func LoadSource(relPath string) (*Source, error) {
	fullPath, dir, err := GetPathInfo(relPath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, err
	}
	return &Source{
		FullPath:  fullPath,
		Dir:       dir,
		ClassName: compiler.ClassName(fullPath),
		Text:      string(data),
	}, nil
}
