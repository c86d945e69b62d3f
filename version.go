package main

// Set at build time via -ldflags.
var (
	Version     = "dev"
	GitRevision = "unknown"
)
