// Package api holds the OpenAPI description of the local HTTP API.
//
//nolint:revive // standard package name
package api

import _ "embed"

// OpenAPISpec contains the raw bytes of the OpenAPI YAML file.
//
//go:embed openapi.yaml
var OpenAPISpec []byte
