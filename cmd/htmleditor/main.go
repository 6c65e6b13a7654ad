// Package main provides the entry point for the htmleditor CLI.
//
// htmleditor prepares e-mail HTML produced by the campaign editor for
// storage: it strips scripts and event handlers, turns merge-field name
// tags into id tags, normalizes trackable links and reports what it found.
//
// Usage:
//
//	htmleditor process template.html
//	htmleditor process --json *.html
//	cat template.html | htmleditor process --content-only -
//
// See --help for all available options.
package main

func main() {
	Execute()
}
