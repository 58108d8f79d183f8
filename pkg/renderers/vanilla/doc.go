// Package vanilla renders an orchestrator's editable units as a plain HTML
// form using pongo2 templates embedded in the package. Labels are reduced to
// text and descriptions are sanitised with bluemonday before they reach the
// templates; every other value is escaped by the template engine.
package vanilla
