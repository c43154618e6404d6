// Package types defines the value tags, row mapping, and connection
// configuration shared by the sqlbridge client surface and its backend
// dialects.
package types
