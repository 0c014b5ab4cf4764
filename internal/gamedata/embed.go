// Package gamedata provides embedded game data and utilities for loading it.
package gamedata

import "embed"

// dataFS embeds the palette and any other JSON data in this directory.
//
//go:embed *.json
var dataFS embed.FS
