// Package htmldoc processes the HTML bodies of marketing e-mails.
//
// A Document is loaded from a raw HTML string and split into an optional head
// and a content region. The content region is what the editor stores; merge
// fields in it are kept as id tags (|*|319*|*) while authors write name tags
// ([[[first name]]]).
//
// # Layouts
//
// Load classifies the input once:
//   - LayoutNoHead: no <head>; the whole input is content
//   - LayoutHeadAndBody: <head> and <body>; the body is content
//   - LayoutHeadWithOrphanContent: <head> without <body>; everything outside
//     the head is content
//
// Parsing is lenient and never fails. Markup is repaired the way browsers
// do it (golang.org/x/net/html). In particular an <iframe> or <script> that
// is never closed swallows the rest of the input as its text, so removing
// it removes that text as well. A self-closed <iframe/> or <script/> is
// closed right away and swallows nothing.
//
// Content parsed without a head follows the HTML5 tree construction rules
// for a body: stray <td> and <tr> tags are dropped and text found directly
// inside a <table> is moved in front of it. <!DOCTYPE>, <html> and <body>
// present in a headless input are kept; the ones the parser implies are not
// added.
//
// # Processing order
//
// Callers apply the mutating operations in this order and read the results
// afterwards:
//
//	doc := htmldoc.Load(input)
//	doc.RemoveHarmfulTags()
//	doc.RemoveEventAttributes()
//	doc.ReplaceFieldNameTagsByFieldIDTags(processor.FieldID)
//	doc.RemoveUnknownFieldIDTags(processor.FieldIDExists)
//	doc.SanitizeTrackableLinks()
//
//	content := doc.Content()
//	ids := doc.FieldIDs()
//	urls := doc.TrackableURLs()
//
// A Document is not safe for concurrent use. Independent documents can be
// processed in parallel.
package htmldoc
