package reports

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"seastate/internal/charts"
	"seastate/internal/config"
)

// ReportTitle heads every generated report
const ReportTitle = "Sea State Report"

// HTMLBuilder handles HTML generation with goldmark
type HTMLBuilder struct {
	templateLoader *TemplateLoader
	goldmark       goldmark.Markdown
}

// NewHTMLBuilder creates an HTML builder
func NewHTMLBuilder() *HTMLBuilder {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)

	return &HTMLBuilder{
		templateLoader: NewTemplateLoader(""),
		goldmark:       md,
	}
}

// ImageRef is a static chart referenced from the report
type ImageRef struct {
	Src string
	Alt string
}

// Download is a data artifact linked from the report
type Download struct {
	Name string
	Href string
}

// TemplateData represents the data structure for the HTML template
type TemplateData struct {
	Title       string
	Date        string
	GeneratedAt string
	CycleID     string
	Version     string
	EChartsURL  string
	Content     template.HTML
	Charts      []template.HTML
	Images      []ImageRef
	Downloads   []Download
}

// ConvertMarkdownToHTML converts markdown to HTML using goldmark
func (h *HTMLBuilder) ConvertMarkdownToHTML(markdownContent string) (string, error) {
	var buf bytes.Buffer
	if err := h.goldmark.Convert([]byte(markdownContent), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}

// BuildCompleteHTML renders the report page around the markdown summary,
// the interactive chart snippets and the static images.
func (h *HTMLBuilder) BuildCompleteHTML(
	markdownContent string,
	meta CycleMeta,
	snippets []charts.ChartSnippet,
	images []ImageRef,
	downloads []Download) (string, error) {

	content, err := h.ConvertMarkdownToHTML(markdownContent)
	if err != nil {
		return "", err
	}

	chartHTML := make([]template.HTML, len(snippets))
	for i, s := range snippets {
		chartHTML[i] = template.HTML(s.HTML)
	}

	data := TemplateData{
		Title:       ReportTitle,
		Date:        meta.GeneratedAt.Format("2006-01-02"),
		GeneratedAt: meta.GeneratedAt.Format("2006-01-02 15:04:05 UTC"),
		CycleID:     meta.CycleID,
		Version:     config.GetVersion(),
		EChartsURL:  charts.EChartsScriptURL,
		Content:     template.HTML(content),
		Charts:      chartHTML,
		Images:      images,
		Downloads:   downloads,
	}

	return h.executeTemplate(data)
}

// executeTemplate executes the HTML template with the provided data
func (h *HTMLBuilder) executeTemplate(data TemplateData) (string, error) {
	htmlTemplate, err := h.templateLoader.LoadHTMLTemplate()
	if err != nil {
		return "", fmt.Errorf("failed to load HTML template: %w", err)
	}

	tmpl, err := template.New("report").Parse(htmlTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}
