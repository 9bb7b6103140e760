// Package formats reads and writes planet meshes.
//
// PMSH is the native binary format: a small header followed by the raw
// buffers, zstd-compressed on disk. OBJ output is provided for inspection in
// external tools.
package formats
