// Package config handles configuration loading and backup root resolution.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Config types
// ---------------------------------------------------------------------------

// Config is the per-project configuration controlling what gets collected
// into an export and what the restore flow may touch.
type Config struct {
	// Extensions are the file suffixes collected by the exporter, lowercased
	// and dot-prefixed (".py", ".ps").
	Extensions []string `yaml:"extensions"`
	// AlwaysInclude is a single exact filename collected regardless of
	// extension (a dependency manifest, typically).
	AlwaysInclude string `yaml:"always_include"`
	// ExcludeFiles are exact lowercased filenames never collected: the
	// tool's companion scripts and known non-content files.
	ExcludeFiles []string `yaml:"exclude_files"`
	// ExcludeDirs are subdirectory names never descended into.
	ExcludeDirs []string `yaml:"exclude_dirs"`
	// ConfirmPhrase must be typed verbatim before restore mutates anything.
	ConfirmPhrase string `yaml:"confirm_phrase"`
	// RestoreExclude are filenames the restore flow must never write.
	RestoreExclude []string `yaml:"restore_exclude"`
}

// Default returns a Config populated with the stock filter sets.
func Default() *Config {
	return &Config{
		Extensions:    []string{".py", ".ps"},
		AlwaysInclude: "requirements.txt",
		ExcludeFiles: []string{
			"copyscripts.py",
			"copyscripts_selective.py",
			"repair-remarks.py",
			"revert-to-gpt-scripts.py",
			"parsetab.py",
			"cspell.json",
		},
		ExcludeDirs:   []string{"venv", ".venv", "__pycache__"},
		ConfirmPhrase: "I am sure",
		RestoreExclude: []string{
			".gitignore",
			"copyscripts.py",
			"repair-remarks.py",
			"revert-to-gpt-scripts.py",
		},
	}
}

// Load reads a per-project scriptpack.yaml from path.
// If the file does not exist it returns Default() with no error.
// Missing keys retain their default values; list keys replace the default
// list wholesale when present and non-empty.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	// Unmarshal into a plain map so we can apply only the keys that are present.
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	if v, ok := stringList(raw["extensions"]); ok {
		cfg.Extensions = normalizeExtensions(v)
	}
	if v, ok := raw["always_include"].(string); ok {
		cfg.AlwaysInclude = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := stringList(raw["exclude_files"]); ok {
		cfg.ExcludeFiles = lowerAll(v)
	}
	if v, ok := stringList(raw["exclude_dirs"]); ok {
		cfg.ExcludeDirs = v
	}
	if v, ok := raw["confirm_phrase"].(string); ok && v != "" {
		cfg.ConfirmPhrase = v
	}
	if v, ok := stringList(raw["restore_exclude"]); ok {
		cfg.RestoreExclude = v
	}

	return cfg, nil
}

// AddExtensions appends caller-supplied extensions (with or without a
// leading dot) to the configured set, lowercased and deduplicated.
func (c *Config) AddExtensions(exts []string) {
	seen := make(map[string]bool, len(c.Extensions))
	for _, e := range c.Extensions {
		seen[e] = true
	}
	for _, e := range normalizeExtensions(exts) {
		if !seen[e] {
			c.Extensions = append(c.Extensions, e)
			seen[e] = true
		}
	}
}

// IsExcludedFile reports whether name is in the exporter's exclusion set.
// Matching is case-insensitive, like the rest of the filename filters.
func (c *Config) IsExcludedFile(name string) bool {
	lower := strings.ToLower(name)
	for _, e := range c.ExcludeFiles {
		if lower == e {
			return true
		}
	}
	return false
}

// IsRestoreExcluded reports whether name must never be written by restore.
func (c *Config) IsRestoreExcluded(name string) bool {
	for _, e := range c.RestoreExclude {
		if strings.EqualFold(name, e) {
			return true
		}
	}
	return false
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

func lowerAll(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		out = append(out, strings.ToLower(s))
	}
	return out
}

func stringList(v any) ([]string, bool) {
	items, ok := v.([]any)
	if !ok || len(items) == 0 {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		s, ok := it.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// ---------------------------------------------------------------------------
// Backup root resolution
// ---------------------------------------------------------------------------

// globalConfigPath returns the path to the global scriptpack config file.
// This file stores only backup_root (and future global settings).
func globalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "scriptpack", "config.yaml"), nil
}

// normalizePath expands ~ and makes the path absolute.
func normalizePath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[2:])
	}
	return filepath.Abs(os.ExpandEnv(path))
}

// ResolveBackupRoot returns the backup root path and the source of the
// resolution. The SCRIPTPACK_BACKUP_ROOT env var wins, then the persisted
// global config, then ~/.scriptpack/backups. source is one of "env",
// "config", or "default".
func ResolveBackupRoot() (path, source string) {
	if env := os.Getenv("SCRIPTPACK_BACKUP_ROOT"); env != "" {
		p, err := normalizePath(env)
		if err == nil {
			return p, "env"
		}
	}

	if persisted, ok, _ := GetPersistedBackupRoot(); ok {
		return persisted, "config"
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".scriptpack", "backups"), "default"
}

// GetBackupRoot returns the resolved backup root path.
func GetBackupRoot() string {
	path, _ := ResolveBackupRoot()
	return path
}

// GetPersistedBackupRoot reads backup_root from the global config.
// Returns ("", false, nil) if not set.
func GetPersistedBackupRoot() (string, bool, error) {
	cfgPath, err := globalConfigPath()
	if err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(cfgPath)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return "", false, nil
	}

	val, _ := raw["backup_root"].(string)
	val = strings.TrimSpace(val)
	if val == "" {
		return "", false, nil
	}

	p, err := normalizePath(val)
	if err != nil {
		return "", false, err
	}
	return p, true, nil
}

// SetPersistedBackupRoot normalizes path and persists it in the global config.
// Returns the normalized path.
func SetPersistedBackupRoot(path string) (string, error) {
	normalized, err := normalizePath(path)
	if err != nil {
		return "", err
	}

	cfgPath, err := globalConfigPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return "", err
	}

	// Read existing global config, preserving any other keys.
	var raw map[string]any
	if data, err := os.ReadFile(cfgPath); err == nil {
		_ = yaml.Unmarshal(data, &raw)
	}
	if raw == nil {
		raw = make(map[string]any)
	}
	raw["backup_root"] = normalized

	out, err := yaml.Marshal(raw)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(cfgPath, out, 0o600); err != nil {
		return "", err
	}
	return normalized, nil
}

// ClearPersistedBackupRoot removes backup_root from the global config.
// Returns true if the key was present and removed.
// If the file becomes empty after removal it is deleted.
func ClearPersistedBackupRoot() (bool, error) {
	cfgPath, err := globalConfigPath()
	if err != nil {
		return false, err
	}

	data, err := os.ReadFile(cfgPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return false, nil
	}

	if _, ok := raw["backup_root"]; !ok {
		return false, nil
	}
	delete(raw, "backup_root")

	if len(raw) == 0 {
		_ = os.Remove(cfgPath)
		return true, nil
	}

	out, err := yaml.Marshal(raw)
	if err != nil {
		return false, err
	}
	return true, os.WriteFile(cfgPath, out, 0o600)
}
