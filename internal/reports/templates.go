package reports

import (
	"embed"
	"os"
	"path/filepath"
)

//go:embed templates/report.html
var templateFS embed.FS

// TemplateLoader handles loading the report HTML template
type TemplateLoader struct {
	overrideDir string
}

// NewTemplateLoader creates a new template loader. A report.html in
// overrideDir replaces the built-in template.
func NewTemplateLoader(overrideDir string) *TemplateLoader {
	return &TemplateLoader{overrideDir: overrideDir}
}

// LoadHTMLTemplate loads the HTML template
func (t *TemplateLoader) LoadHTMLTemplate() (string, error) {
	if t.overrideDir != "" {
		if content, err := os.ReadFile(filepath.Join(t.overrideDir, "report.html")); err == nil {
			return string(content), nil
		}
	}
	content, err := templateFS.ReadFile("templates/report.html")
	if err != nil {
		return "", err
	}
	return string(content), nil
}
