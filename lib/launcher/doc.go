// Package launcher holds the process level helpers used around the launched browser.
// Launching itself is done by github.com/go-rod/rod/lib/launcher.
package launcher
