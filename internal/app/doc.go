// Package app wires the resolution pipeline into a runnable application:
// it owns an isolated logger, resolves the requested configuration, and
// renders the result to the output writer.
package app
