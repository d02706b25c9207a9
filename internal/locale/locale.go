// internal/locale/locale.go
//
// Display strings for rank keys and outcome codes.
// Responsibilities:
//   - Load the embedded YAML catalogs (one per language).
//   - Negotiate a catalog from an Accept-Language header.
//   - Resolve keys, falling back to the default language and then the key.

package locale

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed catalogs/*.yaml
var catalogFS embed.FS

// Entry is the display form of a rank.
type Entry struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

type catalogFile struct {
	Ranks    map[string]Entry  `yaml:"ranks"`
	Messages map[string]string `yaml:"messages"`
}

// Catalog holds every loaded language.
type Catalog struct {
	tags    []language.Tag // default first
	files   []catalogFile
	matcher language.Matcher
}

// Load reads the embedded catalogs. defaultLang picks the fallback; an
// unknown value falls back to English.
func Load(defaultLang string) (*Catalog, error) {
	names, err := fs.Glob(catalogFS, "catalogs/*.yaml")
	if err != nil {
		return nil, err
	}
	c := &Catalog{}
	for _, name := range names {
		raw, err := catalogFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		var f catalogFile
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		tag, err := language.Parse(strings.TrimSuffix(path.Base(name), ".yaml"))
		if err != nil {
			return nil, fmt.Errorf("catalog %s: %w", name, err)
		}
		c.tags = append(c.tags, tag)
		c.files = append(c.files, f)
	}
	if len(c.tags) == 0 {
		return nil, fmt.Errorf("locale: no catalogs embedded")
	}
	def := c.index(language.Make(defaultLang))
	if def < 0 {
		def = max(c.index(language.English), 0)
	}
	c.tags[0], c.tags[def] = c.tags[def], c.tags[0]
	c.files[0], c.files[def] = c.files[def], c.files[0]
	c.matcher = language.NewMatcher(c.tags)
	return c, nil
}

// Languages lists the available tags, default first.
func (c *Catalog) Languages() []language.Tag {
	return append([]language.Tag(nil), c.tags...)
}

// Match picks the best catalog for an Accept-Language header value.
func (c *Catalog) Match(acceptLanguage string) language.Tag {
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return c.tags[0]
	}
	_, idx, conf := c.matcher.Match(prefs...)
	if conf == language.No {
		return c.tags[0]
	}
	return c.tags[idx]
}

// index finds tag by exact match, then by base language; -1 if absent.
func (c *Catalog) index(tag language.Tag) int {
	for i, t := range c.tags {
		if t == tag {
			return i
		}
	}
	want, _ := tag.Base()
	for i, t := range c.tags {
		if b, _ := t.Base(); b == want {
			return i
		}
	}
	return -1
}

func (c *Catalog) file(tag language.Tag) catalogFile {
	if i := c.index(tag); i >= 0 {
		return c.files[i]
	}
	return c.files[0]
}

// Rank returns the display entry for a rank key.
func (c *Catalog) Rank(tag language.Tag, key string) Entry {
	if e, ok := c.file(tag).Ranks[key]; ok {
		return e
	}
	if e, ok := c.files[0].Ranks[key]; ok {
		return e
	}
	return Entry{Name: key}
}

// Message formats the message for key with args.
func (c *Catalog) Message(tag language.Tag, key string, args ...any) string {
	format, ok := c.file(tag).Messages[key]
	if !ok {
		format, ok = c.files[0].Messages[key]
	}
	if !ok {
		return key
	}
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// IsRTL reports whether tag is written right to left.
func IsRTL(tag language.Tag) bool {
	base, _ := tag.Base()
	switch base.String() {
	case "ar", "he", "fa", "ur":
		return true
	}
	return false
}
