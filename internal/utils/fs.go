package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// DirCheckResult represents the result of dir checks
type DirCheckResult struct {
	Exists   bool
	Writable bool
	Error    error
}

// FileExists simply checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates directory if it doesn't exist
func EnsureDir(dirPath string) error {
	return os.MkdirAll(dirPath, 0755)
}

// IsYAMLPath reports whether the file extension selects the YAML codec.
func IsYAMLPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// SaveConfigFile saves a struct as TOML, or YAML when the extension asks for it.
func SaveConfigFile(data any, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		log.Errorf("Failed to create file: %v", err)
		return err
	}
	defer file.Close()
	if IsYAMLPath(filePath) {
		enc := yaml.NewEncoder(file)
		defer enc.Close()
		return enc.Encode(data)
	}
	return toml.NewEncoder(file).Encode(data)
}

// GetAbsolutePath returns the absolute path of a file
func GetAbsolutePath(path string) string {
	if path == "" {
		return "unknown"
	}
	if !filepath.IsAbs(path) {
		if absPath, err := filepath.Abs(path); err == nil {
			return absPath
		}
	}
	return path
}

// testWriteAccess tests if a directory can be written to
func testWriteAccess(dirPath string) bool {
	testFile := filepath.Join(dirPath, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		log.Warnf("Cannot write to directory %s: %v", dirPath, err)
		return false
	}
	file.Close()
	os.Remove(testFile)
	return true
}

// GetExecutableDir returns the directory of the current executable
func GetExecutableDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(execPath), nil
}

// CheckDirStatus performs dir status check
// Tests if directory exists, can be created, and is writable
func CheckDirStatus(dirPath string) DirCheckResult {
	result := DirCheckResult{}
	if _, err := os.Stat(dirPath); err == nil {
		result.Exists = true
		result.Writable = testWriteAccess(dirPath)
		return result
	}
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		result.Error = err
		log.Warnf("Cannot create directory %s: %v", dirPath, err)
		return result
	}
	result.Exists = true
	result.Writable = testWriteAccess(dirPath)
	return result
}
