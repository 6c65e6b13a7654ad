// Package fields resolves personalization field names to their numeric ids.
//
// A Processor is built once per request from the account's fields (basic and
// custom) and the alias definitions. It answers three questions:
//   - which id does a name or alias refer to (FieldID)
//   - which canonical name does an id have (FieldName)
//   - does an id exist at all (FieldIDExists)
//
// Canonical names are matched ignoring case. Aliases are matched with their
// exact declared casing, and an alias never replaces a name or alias that is
// already known. Aliases never take part in the id to name direction.
//
// A Processor is immutable after construction and may be shared by concurrent
// readers.
package fields
