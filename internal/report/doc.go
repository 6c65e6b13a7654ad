// Package report writes processed content records.
//
// Writers:
//   - SimpleWriter: plain text for the terminal
//   - JSONWriter: structured JSON for tools
//   - MarkdownWriter: GitHub flavored Markdown for sharing
//   - ContentWriter: only the processed HTML
//
// Every writer implements Writer, so the CLI can pick one from flags and
// compose several with MultiWriter.
package report
