package template

import (
	"io"
)

// TemplateRenderer is the seam output renderers use to execute named
// templates. The result is returned and, when writers are given, also
// written to each of them.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}
