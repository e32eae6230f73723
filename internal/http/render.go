package http

import (
	"embed"
	"html/template"
	"io"
	"strconv"
	"strings"

	"github.com/jmehdipour/superstore-dashboard/internal/util"
	echo "github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"money":        util.FormatMoneyFloat,
	"decimalMoney": util.FormatMoney,
	"join":         strings.Join,
	"num": func(v float64) string {
		return strconv.FormatFloat(v, 'f', 2, 64)
	},
}

// renderer adapts html/template to echo.Renderer.
type renderer struct {
	t *template.Template
}

func newRenderer() (*renderer, error) {
	t, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &renderer{t: t}, nil
}

func (r *renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return r.t.ExecuteTemplate(w, name, data)
}
