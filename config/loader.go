package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/asrgateway/util"
)

// FileSystem abstracts the file lookups the loader performs.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// OSFileSystem implements FileSystem against the real filesystem.
type OSFileSystem struct{}

func (OSFileSystem) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LoadEnv loads a .env file without overriding variables already set.
func (OSFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// LoaderConfig holds loader dependencies and explicit file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
	Defaults   map[string]interface{}
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path. The file must exist.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithDefaults registers default values by dotted key. Defaults sit below
// the config file and the environment.
func WithDefaults(defaults map[string]interface{}) LoaderOption {
	return func(lc *LoaderConfig) {
		if lc.Defaults == nil {
			lc.Defaults = make(map[string]interface{}, len(defaults))
		}
		for k, v := range defaults {
			lc.Defaults[k] = v
		}
	}
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// Resolver finds config and env files for a service.
type Resolver struct {
	FileSystem FileSystem
}

// ResolveFiles keeps explicit paths and searches the standard locations
// for the rest. Missing files resolve to "".
func (r *Resolver) ResolveFiles(serviceName string, lc LoaderConfig) ResolvedFiles {
	files := ResolvedFiles{ConfigFile: lc.ConfigFile, EnvFile: lc.EnvFile}
	if files.ConfigFile == "" {
		files.ConfigFile = r.first(configCandidates(serviceName))
	}
	if files.EnvFile == "" {
		files.EnvFile = r.first(envCandidates(serviceName))
	}
	return files
}

func (r *Resolver) first(paths []string) string {
	for _, p := range paths {
		if r.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}

// LoadConfig loads configuration for serviceName into cfg. Precedence,
// lowest first: defaults, config file, .env file, process environment.
func LoadConfig(serviceName string, cfg interface{}, opts ...LoaderOption) error {
	lc := LoaderConfig{}
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = OSFileSystem{}
	}

	if lc.ConfigFile != "" && !lc.FileSystem.Exists(lc.ConfigFile) {
		return fmt.Errorf("config file not found: %s", lc.ConfigFile)
	}

	files := (&Resolver{FileSystem: lc.FileSystem}).ResolveFiles(serviceName, lc)

	v := viper.New()
	for k, val := range lc.Defaults {
		v.SetDefault(k, val)
	}

	if files.ConfigFile != "" {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", files.ConfigFile, err)
		}
	}

	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			return fmt.Errorf("load env file %s: %w", files.EnvFile, err)
		}
	}

	v.AutomaticEnv()
	bindEnviron(v, os.Environ())

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unmarshal config for service %s: %w", serviceName, err)
	}
	return nil
}

func configCandidates(serviceName string) []string {
	var paths []string
	for _, name := range serviceNames(serviceName) {
		for _, up := range []string{".", "..", "../.."} {
			paths = append(paths, filepath.Join(up, "cmd", name, "config.yml"))
		}
	}
	return append(paths,
		filepath.Join(".", "config", "config.yml"),
		filepath.Join("..", "config", "config.yml"),
		"config.yml",
	)
}

func envCandidates(serviceName string) []string {
	var paths []string
	for _, file := range []string{".env." + serviceName, ".env"} {
		for _, name := range serviceNames(serviceName) {
			paths = append(paths, filepath.Join(".", "cmd", name, file))
		}
		paths = append(paths,
			filepath.Join(".", "config", file),
			file,
			filepath.Join("..", file),
		)
	}
	return paths
}

// serviceNames returns the full name and, for dashed names, the last segment.
func serviceNames(serviceName string) []string {
	names := []string{serviceName}
	if idx := strings.LastIndex(serviceName, "-"); idx != -1 && idx < len(serviceName)-1 {
		names = append(names, serviceName[idx+1:])
	}
	return names
}

// bindEnviron maps every KEY=value pair onto the dotted key variants it may
// stand for, so nested struct fields pick up environment overrides.
func bindEnviron(v *viper.Viper, environ []string) {
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		value = util.SanitizeEnvValue(value)
		for _, variant := range envKeyVariants(key) {
			v.Set(variant, value)
		}
	}
}

// envKeyVariants lists the dotted keys an environment variable may bind to.
//
//	AI_RUNTIME_BASEURL -> ai_runtime_baseurl, ai.runtime.baseurl, ai.runtime_baseurl, ai_runtime.baseurl
func envKeyVariants(envKey string) []string {
	lower := strings.ToLower(envKey)
	parts := strings.Split(lower, "_")
	if len(parts) == 1 {
		return []string{lower}
	}

	variants := []string{lower, strings.Join(parts, ".")}
	for i := 1; i < len(parts); i++ {
		variants = append(variants, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
		variants = append(variants, strings.Join(parts[:i], "_")+"."+strings.Join(parts[i:], "."))
	}

	seen := make(map[string]struct{}, len(variants))
	out := variants[:0]
	for _, s := range variants {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
