package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
)

// PathResolver finds config and data files relative to the binary, the working
// directory and the user config directory
type PathResolver struct {
	executablePath string
	executableDir  string
	homeDir        string
	configDir      string
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

	execDir := filepath.Dir(execPath)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	configDir := getConfigDir(homeDir)

	pr := &PathResolver{
		executablePath: execPath,
		executableDir:  execDir,
		homeDir:        homeDir,
		configDir:      configDir,
	}

	log.Debugf("PathResolver initialized: exec=%s, execDir=%s, configDir=%s",
		execPath, execDir, configDir)

	return pr, nil
}

// getConfigDir returns the appropriate config directory for the platform
func getConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir, ".config", "wordswap")
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, "wordswap")
		}
		return filepath.Join(homeDir, ".config", "wordswap")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "wordswap")
		}
		return filepath.Join(homeDir, "AppData", "Roaming", "wordswap")
	default:
		return filepath.Join(homeDir, ".wordswap")
	}
}

// GetDataFile resolves a data file (word list, permutation, snapshot).
// Candidates are tried in order:
// 1. the path itself when absolute
// 2. relative to the current working directory
// 3. relative to the executable directory
// 4. the data/ directory next to the executable and in the config directory
// When nothing exists the working directory candidate is returned so that
// newly written files land there.
func (pr *PathResolver) GetDataFile(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, name))
	}
	candidates = append(candidates,
		filepath.Join(pr.executableDir, name),
		filepath.Join(pr.executableDir, "data", filepath.Base(name)),
		filepath.Join(pr.configDir, "data", filepath.Base(name)),
	)

	for _, path := range candidates {
		if FileExists(path) {
			log.Debugf("Resolved data file %s -> %s", name, path)
			return path
		}
		log.Debugf("Data file candidate not found: %s", path)
	}
	return candidates[0]
}

// GetConfigPath returns the full path for a config file
// It ensures the config directory exists and handles read-only filesystem issues
func (pr *PathResolver) GetConfigPath(filename string) (string, error) {
	configPath := filepath.Join(pr.configDir, filename)
	if pr.ensureConfigDir(pr.configDir) {
		return configPath, nil
	}

	fallbackDirs := []string{
		filepath.Join(pr.homeDir, ".wordswap"),
		filepath.Join(os.TempDir(), "wordswap"),
		pr.executableDir,
	}

	for _, dir := range fallbackDirs {
		if pr.ensureConfigDir(dir) {
			path := filepath.Join(dir, filename)
			log.Warnf("Using fallback config location: %s", path)
			return path, nil
		}
	}

	tempPath := filepath.Join(os.TempDir(), filename)
	log.Warnf("Using temporary config file: %s", tempPath)
	return tempPath, nil
}

// ensureConfigDir creates the directory if it doesn't exist and tests writability
func (pr *PathResolver) ensureConfigDir(dir string) bool {
	status := CheckDirStatus(dir)
	if status.Error != nil {
		log.Debugf("Cannot create config directory %s: %v", dir, status.Error)
		return false
	}
	return status.Writable
}

// GetConfigDir returns the config directory
func (pr *PathResolver) GetConfigDir() string {
	return pr.configDir
}

// GetRuntimeInfo returns debug information about the current runtime environment
func (pr *PathResolver) GetRuntimeInfo() map[string]string {
	cwd, _ := os.Getwd()

	info := map[string]string{
		"executable_path": pr.executablePath,
		"executable_dir":  pr.executableDir,
		"current_dir":     cwd,
		"home_dir":        pr.homeDir,
		"config_dir":      pr.configDir,
		"os":              runtime.GOOS,
		"arch":            runtime.GOARCH,
	}

	for _, envVar := range []string{"HOME", "XDG_CONFIG_HOME", "APPDATA"} {
		if value := os.Getenv(envVar); value != "" {
			info["env_"+strings.ToLower(envVar)] = value
		}
	}

	return info
}
