// Package spec embeds the OpenAPI document for the ride-sharing API.
// The HTTP server serves it at /openapi.yaml.
package spec

import _ "embed"

// OpenAPI contains the raw bytes of openapi.yaml, embedded at compile time,
// so the served document always ships with the binary that implements it.
//
//go:embed openapi.yaml
var OpenAPI []byte
