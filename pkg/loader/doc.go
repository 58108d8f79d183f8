// Package loader turns external documents into form definitions: the
// {formDefinition, values} payload exchanged with EAV backends (JSON or YAML,
// single documents or whole directories) and object schemas of an OpenAPI
// document.
package loader
