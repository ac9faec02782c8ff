// Package web holds the static documents served next to the API: the
// overview page at GET / and the OpenAPI description at GET /openapi.yaml.
package web

import _ "embed"

var (
	//go:embed index.html
	index []byte

	//go:embed openapi.yaml
	openAPI []byte
)

// Index returns the embedded overview page.
func Index() []byte {
	return index
}

// OpenAPI returns the embedded OpenAPI 3 description of the API.
func OpenAPI() []byte {
	return openAPI
}
