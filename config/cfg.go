package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	ProjectConfig struct {
		// WorkDir is asset root relative to the project directory.
		WorkDir     string    `yaml:"work_dir" validate:"required"`
		ExcludeDirs []string  `yaml:"exclude_dirs" validate:"dive,required"`
		Sources     SourceSet `yaml:"sources" validate:"gte=0"`
		// Extensions when not empty replaces predefined source set.
		Extensions []string `yaml:"extensions" validate:"dive,required"`
	}

	EngineConfig struct {
		Workers        int  `yaml:"workers" validate:"min=1,max=64"`
		TraceBack      bool `yaml:"trace_back"`
		VerifyVariants bool `yaml:"verify_variants"`
	}

	AnnotateConfig struct {
		Inline      bool `yaml:"inline"`
		Sidecar     bool `yaml:"sidecar"`
		EmbedHash   bool `yaml:"embed_hash"`
		TagIndent   int  `yaml:"tag_indent" validate:"min=0,max=32"`
		BlockIndent int  `yaml:"block_indent" validate:"min=0,max=64"`
	}

	SidecarConfig struct {
		// Path is a template, result is relative to asset root unless
		// absolute.
		Path   string        `yaml:"path" validate:"required"`
		Format SidecarFormat `yaml:"format" validate:"gte=0"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Project   ProjectConfig  `yaml:"project"`
		Engine    EngineConfig   `yaml:"engine"`
		Annotate  AnnotateConfig `yaml:"annotate"`
		Sidecar   SidecarConfig  `yaml:"sidecar"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

// NOTE: must match yaml field name above.
const SidecarPathFieldName = "path"

// fields expanded at run time rather than during configuration processing
var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(SidecarPathFieldName),
)

// SourceExtensions returns lowercase extensions (with dot) of files to
// process: explicit list when configured, predefined set otherwise.
func (c *Config) SourceExtensions() []string {
	if len(c.Project.Extensions) == 0 {
		return c.Project.Sources.Extensions()
	}
	exts := make([]string, 0, len(c.Project.Extensions))
	for _, ext := range c.Project.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if !slices.Contains(exts, ext) {
			exts = append(exts, ext)
		}
	}
	return exts
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration expands embedded configuration template to get defaults,
// superimposes values from the file at the given path (if any) and validates
// the result.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare returns expanded default configuration.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
