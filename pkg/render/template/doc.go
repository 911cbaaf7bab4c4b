// Package template defines the renderer seam used to produce item markup
// from named templates, plus the pongo2-backed implementation in the
// gotemplate subpackage.
package template
