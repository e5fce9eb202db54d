// Package fs embeds non-Go assets shipped with the binary.
package fs

import "embed"

//go:embed migrations
var FS embed.FS
