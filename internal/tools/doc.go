// Package tools provides host helpers shared by the neobuild commands.
//
// Ownership boundary:
// - shell availability checks
//
// - quoting values that are spliced into rendered command lines
package tools
