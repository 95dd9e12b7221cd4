package sectioning

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed titles.json
var defaultTitlesJSON []byte

// SectionVariants lists the known heading phrasings for one section
type SectionVariants struct {
	Key      SectionKey `json:"key" yaml:"key"`
	Variants []string   `json:"variants" yaml:"variants"`
}

// VariantTable maps canonical keys to heading phrase variants. Entry order
// is significant: exact and fuzzy lookups scan entries in this order.
// A table is never modified after construction.
type VariantTable struct {
	entries []SectionVariants
	exact   map[string]SectionKey
	all     []string
	owner   []SectionKey
}

var (
	defaultTable     *VariantTable
	defaultTableErr  error
	defaultTableOnce sync.Once
)

// DefaultTable returns the built-in variant table. It is parsed once and
// shared by every caller.
func DefaultTable() *VariantTable {
	defaultTableOnce.Do(func() {
		var entries []SectionVariants
		if err := json.Unmarshal(defaultTitlesJSON, &entries); err != nil {
			defaultTableErr = err
			return
		}
		defaultTable, defaultTableErr = NewVariantTable(entries)
	})
	if defaultTableErr != nil {
		panic(fmt.Sprintf("built-in section titles are invalid: %v", defaultTableErr))
	}
	return defaultTable
}

// LoadVariantTable reads a table from a YAML (or JSON) file containing a
// list of {key, variants} entries.
func LoadVariantTable(path string) (*VariantTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Field: "titles_file", Message: "failed to read section titles", Cause: err}
	}

	var entries []SectionVariants
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, &ConfigError{Field: "titles_file", Message: "failed to parse section titles", Cause: err}
	}

	return NewVariantTable(entries)
}

// NewVariantTable builds a table from ordered entries. Variants are
// lowercased and trimmed; a variant may belong to only one key.
func NewVariantTable(entries []SectionVariants) (*VariantTable, error) {
	if len(entries) == 0 {
		return nil, &ConfigError{Field: "titles", Message: "table has no entries"}
	}

	t := &VariantTable{
		entries: make([]SectionVariants, 0, len(entries)),
		exact:   make(map[string]SectionKey),
	}
	seenKeys := make(map[SectionKey]bool)

	for _, e := range entries {
		if !e.Key.IsValid() || e.Key == SectionOther {
			return nil, &ConfigError{Field: "titles", Message: fmt.Sprintf("unknown section key %q", e.Key)}
		}
		if seenKeys[e.Key] {
			return nil, &ConfigError{Field: "titles", Message: fmt.Sprintf("section key %q listed twice", e.Key)}
		}
		seenKeys[e.Key] = true

		variants := make([]string, 0, len(e.Variants))
		for _, v := range e.Variants {
			v = strings.ToLower(strings.TrimSpace(v))
			if v == "" {
				continue
			}
			if owner, dup := t.exact[v]; dup {
				return nil, &ConfigError{
					Field:   "titles",
					Message: fmt.Sprintf("variant %q belongs to both %q and %q", v, owner, e.Key),
				}
			}
			t.exact[v] = e.Key
			t.all = append(t.all, v)
			t.owner = append(t.owner, e.Key)
			variants = append(variants, v)
		}
		if len(variants) == 0 {
			return nil, &ConfigError{Field: "titles", Message: fmt.Sprintf("section key %q has no variants", e.Key)}
		}
		t.entries = append(t.entries, SectionVariants{Key: e.Key, Variants: variants})
	}

	return t, nil
}

// Entries returns a copy of the table entries in order.
func (t *VariantTable) Entries() []SectionVariants {
	out := make([]SectionVariants, len(t.entries))
	for i, e := range t.entries {
		out[i] = SectionVariants{Key: e.Key, Variants: append([]string(nil), e.Variants...)}
	}
	return out
}

// Lookup returns the key owning an exact variant.
func (t *VariantTable) Lookup(variant string) (SectionKey, bool) {
	k, ok := t.exact[variant]
	return k, ok
}

// variants returns every variant in table order; callers must not modify it.
func (t *VariantTable) variants() []string {
	return t.all
}

// keyAt returns the key owning the i-th variant of variants().
func (t *VariantTable) keyAt(i int) SectionKey {
	return t.owner[i]
}
