package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// PathResolver finds word lists relative to the working dir, the binary
// and the user config dir, in that order of preference.
type PathResolver struct {
	executableDir string
	configDir     string
}

// NewPathResolver creates a new path resolver that determines the executable location
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}

	// Resolve any symlinks to get the actual binary location
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executableDir: filepath.Dir(execPath),
		configDir:     platformConfigDir(homeDir),
	}
	log.Debugf("PathResolver initialized: exec=%s, configDir=%s", execPath, pr.configDir)
	return pr, nil
}

// platformConfigDir returns the appropriate config directory for the platform
func platformConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, "wordmatch")
		}
		return filepath.Join(homeDir, ".config", "wordmatch")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "wordmatch")
		}
		return filepath.Join(homeDir, "AppData", "Roaming", "wordmatch")
	default:
		return filepath.Join(homeDir, ".config", "wordmatch")
	}
}

// GetWordsPath resolves the word list (file or chunk dir) given on the command line.
// Candidates are tried in order:
// 1. the path as given (absolute, or relative to the working dir)
// 2. relative to executable directory
// 3. inside the config dir
// If nothing exists, the path is returned untouched so the loader reports it.
func (pr *PathResolver) GetWordsPath(userSpecifiedPath string) string {
	candidates := []string{userSpecifiedPath}
	if !filepath.IsAbs(userSpecifiedPath) {
		candidates = append(candidates,
			filepath.Join(pr.executableDir, userSpecifiedPath),
			filepath.Join(pr.configDir, userSpecifiedPath),
		)
	}
	for _, path := range candidates {
		if FileExists(path) {
			log.Debugf("Found word list: %s", path)
			return path
		}
		log.Debugf("Word list candidate missing: %s", path)
	}
	return userSpecifiedPath
}
