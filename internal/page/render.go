package page

import (
	_ "embed"
	"html/template"
	"io"
	"strings"
	"sync"
)

//go:embed assets/index.html
var indexTmpl string

// Renderer executes the embedded page template. The zero value is ready to use.
type Renderer struct {
	tmpl *template.Template
	once sync.Once
}

func (r *Renderer) Render(w io.Writer, s Surface) error {
	r.once.Do(func() {
		r.tmpl = template.Must(template.New("index").Funcs(template.FuncMap{
			"imageURL": imageURL,
		}).Parse(indexTmpl))
	})
	return r.tmpl.Execute(w, s)
}

// imageURL lets image data URLs through html/template's URL filter; anything
// else is passed on as a plain string and sanitized as usual.
func imageURL(s string) any {
	if strings.HasPrefix(s, "data:image/") {
		return template.URL(s)
	}
	return s
}
