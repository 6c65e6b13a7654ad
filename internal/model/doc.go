// Package model defines the data structures shared by the HTML editor backend.
//
// This package contains the following main types:
//   - Field: A canonical personalization field (id, name, basic flag)
//   - FieldAliases: Alternative spellings that resolve to a canonical field
//   - ContentRecord: The result of processing one HTML body, ready to be stored
//   - BatchSummary: Totals over the records of one run
//
// The types live in their own package so that the pipeline, the local archive,
// and the report writers can share them without import cycles. All of them are
// serializable to JSON and YAML.
package model
