package config

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/fromdoppler/htmleditor/internal/fields"
	"github.com/fromdoppler/htmleditor/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// File represents the structure of the .htmleditor catalog file.
type File struct {
	// Fields are the account's personalization fields.
	Fields []model.Field `yaml:"fields,omitempty"`

	// Aliases map alternative names to canonical field names.
	Aliases []model.FieldAliases `yaml:"aliases,omitempty"`
}

// DefaultCatalog returns the built-in basic fields and alias table.
func DefaultCatalog() (*File, error) {
	return parseCatalog(defaultsYAML)
}

// parseCatalog decodes and validates a catalog document.
func parseCatalog(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks every field and alias entry of the catalog.
func (f *File) Validate() error {
	for i, field := range f.Fields {
		if field.ID <= 0 || strings.TrimSpace(field.Name) == "" {
			return fmt.Errorf("fields[%d] (id=%d, name=%q): %w", i, field.ID, field.Name, ErrInvalidField)
		}
	}
	for i, entry := range f.Aliases {
		if strings.TrimSpace(entry.CanonicalName) == "" {
			return fmt.Errorf("aliases[%d]: %w", i, ErrInvalidAliases)
		}
	}
	return nil
}

// Merge layers f over base and returns the combined catalog.
// A field of f replaces the base field with the same id; other fields of f
// are appended. Alias entries of f come first so they take precedence over
// base entries declaring the same alias.
func (f *File) Merge(base *File) *File {
	if base == nil {
		base = &File{}
	}

	merged := &File{
		Fields:  make([]model.Field, 0, len(base.Fields)+len(f.Fields)),
		Aliases: make([]model.FieldAliases, 0, len(base.Aliases)+len(f.Aliases)),
	}

	position := make(map[int]int, len(base.Fields))
	for _, field := range base.Fields {
		position[field.ID] = len(merged.Fields)
		merged.Fields = append(merged.Fields, field)
	}
	for _, field := range f.Fields {
		if i, ok := position[field.ID]; ok {
			merged.Fields[i] = field
			continue
		}
		position[field.ID] = len(merged.Fields)
		merged.Fields = append(merged.Fields, field)
	}

	merged.Aliases = append(merged.Aliases, f.Aliases...)
	merged.Aliases = append(merged.Aliases, base.Aliases...)

	return merged
}

// Processor builds the field resolver for the catalog.
func (f *File) Processor() *fields.Processor {
	return fields.NewProcessor(f.Fields, f.Aliases)
}
