// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"pageURL": PageURL,
	"date": func(t time.Time) string {
		return t.Format("2 Jan 2006")
	},
}

// views maps a view name to its template set, each parsed with the layout.
var views = func() map[string]*template.Template {
	names := []string{"index", "book", "page", "articles", "article", "error"}

	parsed := make(map[string]*template.Template, len(names))
	for _, name := range names {
		parsed[name] = template.Must(template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html", "templates/"+name+".html"))
	}
	return parsed
}()

// execute renders a view into memory so a failure never leaves half a page
// on the wire.
func execute(name string, data any) ([]byte, error) {
	view, found := views[name]
	if !found {
		return nil, fmt.Errorf("site: unknown view %q", name)
	}

	var buffer bytes.Buffer
	if err := view.ExecuteTemplate(&buffer, "layout", data); err != nil {
		return nil, fmt.Errorf("site: failed to render %s: %w", name, err)
	}
	return buffer.Bytes(), nil
}
