package htmldoc

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

var (
	// fieldIDTagPattern matches |*|<digits>*|*.
	fieldIDTagPattern = regexp.MustCompile(`\|\*\|(\d+)\*\|\*`)

	// fieldNameTagPattern matches [[[<name>]]]. The name may still be
	// percent-encoded (%20) or entity-encoded (&ntilde;) when it comes from
	// an attribute written by hand.
	fieldNameTagPattern = regexp.MustCompile(`\[\[\[([a-zA-Z0-9 _ñÑáéíóúÁÉÍÓÚ%&;#-]+)\]\]\]`)
)

const (
	fieldIDTagOpen    = "|*|"
	fieldIDTagClose   = "*|*"
	fieldNameTagOpen  = "[[["
	fieldNameTagClose = "]]]"
)

// FieldIDTag returns the id tag of a field.
func FieldIDTag(id int) string {
	return fieldIDTagOpen + strconv.Itoa(id) + fieldIDTagClose
}

// FieldNameTag returns the name tag of a field.
func FieldNameTag(name string) string {
	return fieldNameTagOpen + name + fieldNameTagClose
}

// FieldIDs returns the distinct field ids referenced by id tags in the
// serialized content, in order of first appearance. The head is not scanned.
func (d *Document) FieldIDs() []int {
	matches := fieldIDTagPattern.FindAllStringSubmatch(innerHTML(d.content), -1)

	seen := make(map[int]struct{}, len(matches))
	ids := make([]int, 0, len(matches))
	for _, m := range matches {
		id, err := strconv.Atoi(m[1])
		if err != nil {
			// More digits than an int holds.
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return ids
}

// ReplaceFieldNameTagsByFieldIDTags rewrites every name tag in the content's
// text and attribute values into the id tag of the field fieldID resolves
// it to. Tags that do not resolve are left untouched.
func (d *Document) ReplaceFieldNameTagsByFieldIDTags(fieldID func(nameOrAlias string) (int, bool)) {
	rewriteText(d.content, func(s string) string {
		if !strings.Contains(s, fieldNameTagOpen) {
			return s
		}
		return fieldNameTagPattern.ReplaceAllStringFunc(s, func(tag string) string {
			if id, ok := fieldID(decodeFieldName(innerTag(tag, fieldNameTagOpen, fieldNameTagClose))); ok {
				return FieldIDTag(id)
			}
			return tag
		})
	})
}

// RemoveUnknownFieldIDTags deletes every id tag in the content whose id is
// not a known field according to exists.
func (d *Document) RemoveUnknownFieldIDTags(exists func(id int) bool) {
	rewriteText(d.content, func(s string) string {
		if !strings.Contains(s, fieldIDTagOpen) {
			return s
		}
		return fieldIDTagPattern.ReplaceAllStringFunc(s, func(tag string) string {
			id, err := strconv.Atoi(innerTag(tag, fieldIDTagOpen, fieldIDTagClose))
			if err == nil && exists(id) {
				return tag
			}
			return ""
		})
	})
}

// ReplaceFieldIDTagsByFieldNameTags is the reverse of
// ReplaceFieldNameTagsByFieldIDTags. Id tags of unknown fields are left
// untouched.
func (d *Document) ReplaceFieldIDTagsByFieldNameTags(fieldName func(id int) (string, bool)) {
	rewriteText(d.content, func(s string) string {
		if !strings.Contains(s, fieldIDTagOpen) {
			return s
		}
		return fieldIDTagPattern.ReplaceAllStringFunc(s, func(tag string) string {
			id, err := strconv.Atoi(innerTag(tag, fieldIDTagOpen, fieldIDTagClose))
			if err != nil {
				return tag
			}
			if name, ok := fieldName(id); ok {
				return FieldNameTag(name)
			}
			return tag
		})
	})
}

// innerTag strips the delimiters from a matched tag.
func innerTag(tag, opening, closing string) string {
	return tag[len(opening) : len(tag)-len(closing)]
}

// decodeFieldName turns %20 into spaces and resolves HTML entities.
func decodeFieldName(name string) string {
	return html.UnescapeString(strings.ReplaceAll(name, "%20", " "))
}
