package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"text/template"

	"github.com/ludo-technologies/pysmell/domain"
	"github.com/pelletier/go-toml/v2"
)

// defaultConfigTmpl contains the embedded default configuration template
//
//go:embed default_config.toml.tmpl
var defaultConfigTmpl string

var templateFuncs = template.FuncMap{
	"quoteList": func(items []string) string {
		quoted := make([]string, len(items))
		for i, item := range items {
			quoted[i] = strconv.Quote(item)
		}
		return strings.Join(quoted, ", ")
	},
}

// GenerateDefaultConfigTOML renders the default config template with the
// values of DefaultConfig and returns the resulting TOML string.
func GenerateDefaultConfigTOML() (string, error) {
	tmpl, err := template.New("default_config").Funcs(templateFuncs).Parse(defaultConfigTmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse default config template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, DefaultConfig()); err != nil {
		return "", fmt.Errorf("failed to render default config template: %w", err)
	}

	return buf.String(), nil
}

// LoadDefaultConfigFromTOML parses the rendered default config back into a Config.
func LoadDefaultConfigFromTOML() (*Config, error) {
	configTOML, err := GenerateDefaultConfigTOML()
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := toml.Unmarshal([]byte(configTOML), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WriteDefault writes the default configuration to path. An existing file
// is kept unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return domain.NewConfigError(fmt.Sprintf("%s already exists (use --force to overwrite)", path), nil)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return domain.NewConfigError(fmt.Sprintf("cannot stat %s", path), err)
		}
	}

	content, err := GenerateDefaultConfigTOML()
	if err != nil {
		return domain.NewConfigError("failed to generate default config", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return domain.NewConfigError(fmt.Sprintf("failed to write %s", path), err)
	}
	return nil
}
