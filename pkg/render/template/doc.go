// Package template defines the template engine contract used by the HTML
// renderer. The pongo subpackage implements it on top of pongo2.
package template
