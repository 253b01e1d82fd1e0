package data

import (
	"embed"
	"fmt"
	"path/filepath"
)

//go:embed data-files
var dataFilesRoot embed.FS

const dataBasePath = "data-files"

// SourceInfo represents JSON or YAML data that was read from a file, after expanding any constants
// that the file defines. See data-files/README.md.
type SourceInfo struct {
	FilePath string
	BaseName string
	Data     []byte
}

// ParseInto unmarshals the data, which may be either JSON or YAML, into target.
func (s SourceInfo) ParseInto(target interface{}) error {
	if err := ParseJSONOrYAML(s.Data, target); err != nil {
		return fmt.Errorf("error parsing %q: %w", s.FilePath, err)
	}
	return nil
}

// LoadDataFile reads a data file and expands its constants.
//
// The path parameter is relative to data/data-files.
func LoadDataFile(path string) (SourceInfo, error) {
	raw, err := dataFilesRoot.ReadFile(dataBasePath + "/" + path)
	if err != nil {
		return SourceInfo{}, fmt.Errorf("failed to read %q: %w", path, err)
	}
	expanded, err := expandConstants(raw)
	if err != nil {
		return SourceInfo{}, fmt.Errorf("error reading %q: %w", path, err)
	}
	return SourceInfo{FilePath: path, BaseName: filepath.Base(path), Data: expanded}, nil
}

// LoadAllDataFiles reads every JSON or YAML file in a directory, in name order. Other files, such
// as documentation, are ignored.
//
// The path parameter is relative to data/data-files.
func LoadAllDataFiles(path string) ([]SourceInfo, error) {
	files, err := dataFilesRoot.ReadDir(dataBasePath + "/" + path)
	if err != nil {
		return nil, err
	}
	var ret []SourceInfo
	for _, file := range files {
		if file.IsDir() || !isDataFileName(file.Name()) {
			continue
		}
		source, err := LoadDataFile(path + "/" + file.Name())
		if err != nil {
			return nil, err
		}
		ret = append(ret, source)
	}
	return ret, nil
}

func isDataFileName(name string) bool {
	switch filepath.Ext(name) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}
