package web

import (
	"embed"
	"html/template"
)

//go:embed templates
var Assets embed.FS

func GetTemplatesFS() embed.FS {
	return Assets
}

// LoadPage parses the layout and the catalog page. Execute it as "base.html".
func LoadPage() (*template.Template, error) {
	return template.New("base.html").ParseFS(GetTemplatesFS(), "templates/base.html", "templates/index.html")
}
