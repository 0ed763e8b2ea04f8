// Package docs embeds the user-facing reference rendered by the docs
// command.
package docs

import _ "embed"

// Reference is the command file and filter language reference.
//
//go:embed reference.md
var Reference string
