package model

// Field is a canonical personalization field of an account.
// Ids are unique; names are unique ignoring case.
type Field struct {
	// ID is the stable numeric id used in id tags (|*|ID*|*).
	ID int `json:"id" yaml:"id"`

	// Name is the canonical field name used in name tags ([[[NAME]]]).
	Name string `json:"name" yaml:"name"`

	// IsBasic marks the fields every account has (FIRST_NAME, EMAIL, ...),
	// as opposed to account-defined custom fields.
	IsBasic bool `json:"is_basic" yaml:"basic"`
}

// FieldAliases lists alternative names for a canonical field.
// The aliases only apply when CanonicalName matches one of the supplied fields.
type FieldAliases struct {
	// CanonicalName is the name of the field the aliases resolve to.
	CanonicalName string `json:"canonical_name" yaml:"canonical"`

	// Aliases are matched with their exact declared casing.
	Aliases []string `json:"aliases" yaml:"aliases"`
}
