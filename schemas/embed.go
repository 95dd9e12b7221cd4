// Package schemas holds the JSON Schemas for the analyzer's output artifacts.
package schemas

import "embed"

// Files contains every *.schema.json in this directory.
//
//go:embed *.schema.json
var Files embed.FS
