package optimize

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"imgpath/config"
)

// PathValues are available to sidecar path template.
type PathValues struct {
	// Project is base name of the project directory.
	Project string
	// Root is absolute asset root.
	Root   string
	Format string
}

// sidecarPath expands sidecar path template and makes result absolute,
// relative results are anchored at asset root.
func sidecarPath(field string, values PathValues) (string, error) {
	tmpl, err := template.New(config.SidecarPathFieldName).Funcs(sprig.TxtFuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse sidecar path template: %w", err)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", fmt.Errorf("unable to expand sidecar path template: %w", err)
	}

	name := strings.TrimSpace(buf.String())
	if len(name) == 0 {
		return "", errors.New("sidecar path template expanded to empty string")
	}
	name = filepath.FromSlash(name)
	if !filepath.IsAbs(name) {
		name = filepath.Join(values.Root, name)
	}
	return filepath.Clean(name), nil
}
