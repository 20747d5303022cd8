// Package ai4local holds assets embedded into the binaries.
package ai4local

import "embed"

//go:embed templates/emails
var EmailFS embed.FS
