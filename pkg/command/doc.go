// Package command owns the shell-tagged argument list and its renderer.
//
// Ownership boundary:
// - argument token storage (copied on insert)
//
// - shell selection and shell binary mapping
//
// - rendering tokens into one shell command line
//
// Rendering never quotes or escapes. A token that must survive shell parsing as
// one word has to be escaped by the caller before it is appended.
package command
