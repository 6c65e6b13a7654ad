package fields

import (
	"golang.org/x/text/cases"

	"github.com/fromdoppler/htmleditor/internal/model"
)

// Processor holds the lookup tables for one account's fields.
type Processor struct {
	// idsByName maps case-folded canonical names to ids.
	idsByName map[string]int

	// idsByAlias maps aliases, with their declared casing, to ids.
	idsByAlias map[string]int

	// namesByID maps ids to canonical names. Aliases are never added here.
	namesByID map[int]string
}

// NewProcessor builds the lookup tables from the canonical fields and the
// alias definitions. Alias definitions whose canonical name is unknown are
// ignored. When two fields share a name or id, the first one wins.
func NewProcessor(fields []model.Field, aliases []model.FieldAliases) *Processor {
	p := &Processor{
		idsByName:  make(map[string]int, len(fields)),
		idsByAlias: make(map[string]int),
		namesByID:  make(map[int]string, len(fields)),
	}

	for _, f := range fields {
		key := foldName(f.Name)
		if _, exists := p.idsByName[key]; !exists {
			p.idsByName[key] = f.ID
		}
		if _, exists := p.namesByID[f.ID]; !exists {
			p.namesByID[f.ID] = f.Name
		}
	}

	for _, def := range aliases {
		id, ok := p.idsByName[foldName(def.CanonicalName)]
		if !ok {
			continue
		}
		for _, alias := range def.Aliases {
			if _, taken := p.FieldID(alias); taken {
				continue
			}
			p.idsByAlias[alias] = id
		}
	}

	return p
}

// FieldID returns the id for a canonical name (any casing) or an alias
// (exact casing). The second result is false when nothing matches.
func (p *Processor) FieldID(nameOrAlias string) (int, bool) {
	if id, ok := p.idsByName[foldName(nameOrAlias)]; ok {
		return id, true
	}
	id, ok := p.idsByAlias[nameOrAlias]
	return id, ok
}

// FieldName returns the canonical name of the field with the given id.
func (p *Processor) FieldName(id int) (string, bool) {
	name, ok := p.namesByID[id]
	return name, ok
}

// FieldIDExists reports whether id belongs to one of the canonical fields.
func (p *Processor) FieldIDExists(id int) bool {
	_, ok := p.namesByID[id]
	return ok
}

// Len returns the number of canonical fields.
func (p *Processor) Len() int {
	return len(p.namesByID)
}

// foldName returns the case-folded form used as canonical name key.
// A new Caser is created per call because Casers are not safe for
// concurrent use.
func foldName(name string) string {
	return cases.Fold().String(name)
}
