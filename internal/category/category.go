// Package category defines the ordered extension-to-category table that
// decides where a file belongs.
package category

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Category pairs a destination directory name with the extensions it claims.
type Category struct {
	Name       string
	Extensions []string
}

// Table resolves file extensions to category names. Declaration order is
// significant: when an extension appears in more than one category, the
// earliest declaration wins.
type Table struct {
	categories []Category
	byExt      map[string]string
	exact      map[string]struct{}
	fallback   string
}

var folder = cases.Fold()

// Fold lowercases s for comparison, including non-ASCII letters.
func Fold(s string) string {
	return folder.String(s)
}

// New builds a Table from ordered categories. Exactly one category must
// declare no extensions; it becomes the fallback for unmatched files.
func New(categories []Category) (*Table, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("category table is empty")
	}
	t := &Table{
		byExt: make(map[string]string),
		exact: make(map[string]struct{}),
	}
	seen := make(map[string]struct{})
	for _, cat := range categories {
		name := strings.TrimSpace(cat.Name)
		if name == "" {
			return nil, fmt.Errorf("category name is empty")
		}
		if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
			return nil, fmt.Errorf("category name %q is not a valid directory name", name)
		}
		key := Fold(name)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("duplicate category %q", name)
		}
		seen[key] = struct{}{}
		t.exact[name] = struct{}{}
		if len(cat.Extensions) == 0 {
			if t.fallback != "" {
				return nil, fmt.Errorf("categories %q and %q both declare no extensions; only one fallback is allowed", t.fallback, name)
			}
			t.fallback = name
		}
		exts := make([]string, 0, len(cat.Extensions))
		for _, ext := range cat.Extensions {
			folded := Fold(strings.TrimPrefix(strings.TrimSpace(ext), "."))
			if folded == "" {
				return nil, fmt.Errorf("category %q declares an empty extension", name)
			}
			exts = append(exts, folded)
			if _, claimed := t.byExt[folded]; !claimed {
				t.byExt[folded] = name
			}
		}
		t.categories = append(t.categories, Category{Name: name, Extensions: exts})
	}
	if t.fallback == "" {
		return nil, fmt.Errorf("no fallback category: exactly one category must declare no extensions")
	}
	return t, nil
}

// Classify returns the category owning ext. Matching is case-insensitive and
// tolerates a leading dot. Unknown or empty extensions land in the fallback.
func (t *Table) Classify(ext string) string {
	folded := Fold(strings.TrimPrefix(ext, "."))
	if folded == "" {
		return t.fallback
	}
	if name, ok := t.byExt[folded]; ok {
		return name
	}
	return t.fallback
}

// Names returns the category names in declaration order.
func (t *Table) Names() []string {
	names := make([]string, len(t.categories))
	for i, cat := range t.categories {
		names[i] = cat.Name
	}
	return names
}

// Categories returns a copy of the table contents in declaration order.
func (t *Table) Categories() []Category {
	out := make([]Category, len(t.categories))
	for i, cat := range t.categories {
		out[i] = Category{Name: cat.Name, Extensions: append([]string(nil), cat.Extensions...)}
	}
	return out
}

// Fallback returns the name of the category that receives unmatched files.
func (t *Table) Fallback() string {
	return t.fallback
}

// IsCategory reports whether name exactly matches a category name.
func (t *Table) IsCategory(name string) bool {
	_, ok := t.exact[name]
	return ok
}

// Extension returns the folded extension of a file name without its dot.
// Leading dots do not start an extension, so dotfiles such as ".bashrc"
// report none.
func Extension(name string) string {
	trimmed := strings.TrimLeft(name, ".")
	i := strings.LastIndexByte(trimmed, '.')
	if i < 0 {
		return ""
	}
	return Fold(trimmed[i+1:])
}
