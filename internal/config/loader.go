package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"

	"github.com/charliek/syslogdash/internal/constants"
	"github.com/charliek/syslogdash/internal/domain"
)

// LoadOrDefault loads the config at path. When the path was not given
// explicitly and no file exists, defaults are returned.
func LoadOrDefault(path string, explicit bool) (*Config, error) {
	if path == "" {
		found, err := FindConfigFile()
		if err != nil {
			return Default(), nil
		}
		path = found
	}

	cfg, err := Load(path)
	if err != nil {
		if !explicit && errors.Is(err, domain.ErrConfigNotFound) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv resolves the API address from the environment. Variables from
// env_file never override the process environment. Precedence, lowest first:
// config file, env_file, process environment.
func (c *Config) ApplyEnv() error {
	var fileEnv map[string]string
	if c.EnvFile != "" {
		var err error
		fileEnv, err = LoadEnvFile(resolvePath(c.EnvFile, filepath.Dir(c.Path)))
		if err != nil {
			return fmt.Errorf("loading env file: %w", err)
		}
	}

	processEnv := map[string]string{}
	if v := os.Getenv(constants.EnvAPIAddress); v != "" {
		processEnv[constants.EnvAPIAddress] = v
	}

	env := MergeEnv(fileEnv, processEnv)
	if addr := env[constants.EnvAPIAddress]; addr != "" {
		c.API.URL = addr
	}
	return Validate(c)
}

// LoadEnvFile reads a .env file and returns the variables as a map
func LoadEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("env file not found: %s", path)
	}

	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}

	return env, nil
}

// MergeEnv merges multiple environment maps in order, with later maps taking precedence
func MergeEnv(envMaps ...map[string]string) map[string]string {
	result := make(map[string]string)
	for _, env := range envMaps {
		for k, v := range env {
			result[k] = v
		}
	}
	return result
}

// resolvePath resolves a potentially relative path against a base directory
func resolvePath(path, baseDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if baseDir == "" || baseDir == "." {
		return path
	}
	return filepath.Join(baseDir, path)
}

// FindConfigFile searches for a config file in standard locations
func FindConfigFile() (string, error) {
	candidates := []string{
		constants.DefaultConfigFile,
		"syslogdash.yml",
		".syslogdash.yaml",
		".syslogdash.yml",
	}

	for _, name := range candidates {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}

	return "", fmt.Errorf("no config file found (tried: %v)", candidates)
}

// CheckFilePermissions checks if a file has secure permissions.
// On Unix-like systems, it verifies the file is not world-writable.
func CheckFilePermissions(path string) error {
	if runtime.GOOS == "windows" {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("checking file permissions: %w", err)
	}

	if info.Mode().Perm()&0002 != 0 {
		return fmt.Errorf("config file %s has insecure permissions: world-writable files can be modified by any user. Please run: chmod o-w %s", path, path)
	}

	return nil
}
