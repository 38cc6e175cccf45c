package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	"github.com/resolverkit/resolverkit/internal/compiler/build"
	"github.com/resolverkit/resolverkit/internal/compiler/codegen"
	"github.com/resolverkit/resolverkit/internal/compiler/validator"
	"github.com/resolverkit/resolverkit/internal/utils"
)

// FileName is the config file name, without extension, looked up in the project root
const FileName = "resolverkit"

// EnvPrefix prefixes environment overrides, e.g. RESOLVERKIT_OUTPUT_DIR
const EnvPrefix = "RESOLVERKIT"

// Config represents the resolverkit configuration
type Config struct {
	Input    InputConfig    `mapstructure:"input"`
	Output   OutputConfig   `mapstructure:"output"`
	Compiler CompilerConfig `mapstructure:"compiler"`
	Scaffold ScaffoldConfig `mapstructure:"scaffold"`
	Schema   SchemaConfig   `mapstructure:"schema"`
}

// InputConfig locates handler sources
type InputConfig struct {
	Dir        string   `mapstructure:"dir"`
	Extensions []string `mapstructure:"extensions"`
}

// OutputConfig locates generated artifacts
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// CompilerConfig represents front-end settings
type CompilerConfig struct {
	HelperModule string `mapstructure:"helper_module"`
	Parallelism  int    `mapstructure:"parallelism"`
}

// ScaffoldConfig represents infrastructure construct settings
type ScaffoldConfig struct {
	ConstructName string `mapstructure:"construct_name"`
	Runtime       string `mapstructure:"runtime"`
	FileName      string `mapstructure:"file_name"`
}

// SchemaConfig represents schema output settings
type SchemaConfig struct {
	FileName string `mapstructure:"file_name"`
}

// Default returns the configuration used when no file or override is present
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Dir:        "resolvers",
			Extensions: append([]string(nil), utils.DefaultHandlerExtensions...),
		},
		Output:   OutputConfig{Dir: "generated"},
		Compiler: CompilerConfig{HelperModule: validator.DefaultHelperModule},
		Scaffold: ScaffoldConfig{
			ConstructName: codegen.DefaultConstructName,
			Runtime:       codegen.DefaultRuntime,
			FileName:      codegen.DefaultScaffoldFileName,
		},
		Schema: SchemaConfig{FileName: codegen.DefaultSchemaFileName},
	}
}

// Load loads the configuration from resolverkit.yml in the current directory
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads the configuration from path; empty searches the current
// directory for resolverkit.yml or resolverkit.yaml
func LoadFrom(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Write saves cfg as YAML at path
func Write(path string, cfg *Config) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	v := viper.New()
	v.Set("input.dir", cfg.Input.Dir)
	v.Set("input.extensions", cfg.Input.Extensions)
	v.Set("output.dir", cfg.Output.Dir)
	v.Set("compiler.helper_module", cfg.Compiler.HelperModule)
	v.Set("compiler.parallelism", cfg.Compiler.Parallelism)
	v.Set("scaffold.construct_name", cfg.Scaffold.ConstructName)
	v.Set("scaffold.runtime", cfg.Scaffold.Runtime)
	v.Set("scaffold.file_name", cfg.Scaffold.FileName)
	v.Set("schema.file_name", cfg.Schema.FileName)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// InProject checks if the current directory holds a resolverkit config file
func InProject() bool {
	for _, name := range []string{FileName + ".yml", FileName + ".yaml"} {
		if _, err := os.Stat(name); err == nil {
			return true
		}
	}
	return false
}

// GetProjectRoot walks up from the working directory looking for a config file
func GetProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		for _, name := range []string{FileName + ".yml", FileName + ".yaml"} {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a resolverkit project (no %s.yml found)", FileName)
		}
		dir = parent
	}
}

// BuildOptions maps the configuration onto compiler options
func (c *Config) BuildOptions() build.Options {
	return build.Options{
		HelperModule: c.Compiler.HelperModule,
		Parallelism:  c.Compiler.Parallelism,
		Codegen: codegen.Options{
			SchemaFileName:   c.Schema.FileName,
			ScaffoldFileName: c.Scaffold.FileName,
			Scaffold: codegen.ScaffoldOptions{
				ConstructName: c.Scaffold.ConstructName,
				Runtime:       c.Scaffold.Runtime,
			},
		},
	}
}

// Settings lists every value that changes generated output, for the build manifest
func (c *Config) Settings() map[string]string {
	return map[string]string{
		"compiler.helper_module":  c.Compiler.HelperModule,
		"scaffold.construct_name": c.Scaffold.ConstructName,
		"scaffold.runtime":        c.Scaffold.Runtime,
		"scaffold.file_name":      c.Scaffold.FileName,
		"schema.file_name":        c.Schema.FileName,
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	defaults := Default()

	v.SetDefault("input.dir", defaults.Input.Dir)
	v.SetDefault("input.extensions", defaults.Input.Extensions)
	v.SetDefault("output.dir", defaults.Output.Dir)
	v.SetDefault("compiler.helper_module", defaults.Compiler.HelperModule)
	v.SetDefault("compiler.parallelism", defaults.Compiler.Parallelism)
	v.SetDefault("scaffold.construct_name", defaults.Scaffold.ConstructName)
	v.SetDefault("scaffold.runtime", defaults.Scaffold.Runtime)
	v.SetDefault("scaffold.file_name", defaults.Scaffold.FileName)
	v.SetDefault("schema.file_name", defaults.Schema.FileName)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
	runtimePattern    = regexp.MustCompile(`^JS_\d+_\d+_\d+$`)
)

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.Input.Dir == "" {
		return fmt.Errorf("input.dir must not be empty")
	}
	if cfg.Output.Dir == "" {
		return fmt.Errorf("output.dir must not be empty")
	}
	if filepath.Clean(cfg.Input.Dir) == filepath.Clean(cfg.Output.Dir) {
		return fmt.Errorf("output.dir must differ from input.dir, got: %s", cfg.Output.Dir)
	}
	if len(cfg.Input.Extensions) == 0 {
		return fmt.Errorf("input.extensions must list at least one extension")
	}
	for i, ext := range cfg.Input.Extensions {
		ext = utils.NormalizeExtension(strings.TrimSpace(ext))
		if len(ext) < 2 {
			return fmt.Errorf("input.extensions contains an empty extension")
		}
		cfg.Input.Extensions[i] = ext
	}
	if cfg.Compiler.HelperModule == "" {
		return fmt.Errorf("compiler.helper_module must not be empty")
	}
	if cfg.Compiler.Parallelism < 0 {
		return fmt.Errorf("compiler.parallelism must be 0 (all CPUs) or positive, got: %d", cfg.Compiler.Parallelism)
	}
	if !identifierPattern.MatchString(cfg.Scaffold.ConstructName) {
		return fmt.Errorf("scaffold.construct_name must be a valid identifier, got: %s", cfg.Scaffold.ConstructName)
	}
	if !runtimePattern.MatchString(cfg.Scaffold.Runtime) {
		return fmt.Errorf("scaffold.runtime must look like JS_1_0_0, got: %s", cfg.Scaffold.Runtime)
	}
	for key, name := range map[string]string{"scaffold.file_name": cfg.Scaffold.FileName, "schema.file_name": cfg.Schema.FileName} {
		if name == "" || filepath.IsAbs(name) || strings.HasPrefix(filepath.Clean(name), "..") {
			return fmt.Errorf("%s must be a relative path inside output.dir, got: %q", key, name)
		}
	}
	return nil
}
