// Package render formats schema check results for the terminal: a
// width-computed change table with severity coloring, and the no-changes
// notice. Color can be disabled for non-TTY output.
package render
