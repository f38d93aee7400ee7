// Package views holds the HTML templates, embedded into the binary.
package views

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

var funcs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"pct": func(f float64) string { return fmt.Sprintf("%.1f", f) },
	"letter": func(i int) string {
		if i < 0 || i > 25 {
			return fmt.Sprint(i + 1)
		}
		return string(rune('A' + i))
	},
}

// Templates parses every page. It panics on a broken template, which can
// only happen at build time.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(funcs).ParseFS(files, "templates/*.html"))
}
