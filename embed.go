package kkumttre

import "embed"

// EmbeddedAssets contains the static assets served under /public/:
// site.css and logo.svg
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
