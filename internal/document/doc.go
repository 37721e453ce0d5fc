// Package document is the editor's text engine.
//
// A Document stores its text as a slice of lines and tracks a single cursor
// with an optional selection. Columns are rune indices and rows are line
// indices, both zero-based. Edits are grouped into undo steps by Commit.
package document
