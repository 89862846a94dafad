package view

import (
	"embed"
	"html/template"
	"io"
)

// ScreenTemplate is the template name to pass to gin's c.HTML.
const ScreenTemplate = "screen.html"

//go:embed templates/*.html
var templateFS embed.FS

var screenTmpl = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Templates returns the parsed screen templates (for gin's SetHTMLTemplate).
func Templates() *template.Template {
	return screenTmpl
}

// RenderHTML writes the screen for p to w.
func RenderHTML(w io.Writer, p Panel) error {
	return screenTmpl.ExecuteTemplate(w, ScreenTemplate, p)
}
