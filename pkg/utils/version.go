// Package utils provides bespoke, one off utils that don't make sense to be
// their own package
package utils

// Set at build time via -ldflags (see the dagger release pipeline).
var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)
