// Package model defines the data structures shared by the coverage core.
package model

// Path represents a file system path.
type Path string

// Source is a Lua file discovered under one of the scanned roots.
type Source struct {
	Path Path
	Hash string // SHA-256 of the content at discovery time
	Size int64
}
