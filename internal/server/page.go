package server

import (
	"embed"
	"html/template"
)

//go:embed templates/initial_page.html
var templateFS embed.FS

var initialPage = template.Must(template.ParseFS(templateFS, "templates/initial_page.html"))

type initialPageData struct {
	Title      string
	MockupMode bool
	RowSource  string
	MapSource  string
}
