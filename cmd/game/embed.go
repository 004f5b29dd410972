package main

import "embed"

//go:embed configs
var configFS embed.FS

//go:embed assets
var assetsFS embed.FS
