package formsync

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

//go:embed samples/*.html
var embeddedSamples embed.FS

// EmbeddedTemplates exposes the built-in formset item templates so callers
// can reuse or extend them.
func EmbeddedTemplates() fs.FS {
	return subFS(embeddedTemplates, "templates")
}

// SamplePagesFS exposes the bundled sample pages used by the CLI demo mode.
func SamplePagesFS() fs.FS {
	return subFS(embeddedSamples, "samples")
}

func subFS(fsys embed.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return fsys
	}
	return sub
}
