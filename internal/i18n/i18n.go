// Package i18n loads JSON locale bundles and resolves the best language for
// a request. The site ships English as the fallback locale with a Japanese
// translation.
package i18n

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Bundle holds translations keyed by language then message key.
type Bundle struct {
	dict      map[string]map[string]string
	fallback  string
	supported map[string]struct{}
}

// Load reads <dir>/<lang>.json for every supported language. A missing file
// is tolerated for non-fallback locales.
func Load(dir string, fallback string, supported []string) (*Bundle, error) {
	if len(supported) == 0 {
		supported = []string{"en", "ja"}
	}
	b := &Bundle{
		dict:      map[string]map[string]string{},
		fallback:  fallback,
		supported: map[string]struct{}{},
	}
	for _, lang := range supported {
		b.supported[lang] = struct{}{}
		raw, err := os.ReadFile(filepath.Join(dir, lang+".json"))
		if err != nil {
			if lang == fallback {
				return nil, fmt.Errorf("i18n: load fallback locale %s: %w", lang, err)
			}
			continue
		}
		var m map[string]string
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("i18n: unmarshal %s: %w", lang, err)
		}
		b.dict[lang] = m
	}
	if _, ok := b.dict[fallback]; !ok {
		return nil, fmt.Errorf("i18n: fallback locale %s not loaded", fallback)
	}
	return b, nil
}

// Fallback returns the configured fallback language.
func (b *Bundle) Fallback() string { return b.fallback }

// Supported lists the supported languages, sorted.
func (b *Bundle) Supported() []string {
	out := make([]string, 0, len(b.supported))
	for k := range b.supported {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// IsSupported reports whether lang has a configured locale.
func (b *Bundle) IsSupported(lang string) bool {
	_, ok := b.supported[lang]
	return ok
}

// T returns the translation for key in lang, falling back to the default
// locale and finally the key itself.
func (b *Bundle) T(lang, key string) string {
	if lang != "" {
		if v, ok := b.dict[lang][key]; ok {
			return v
		}
	}
	if v, ok := b.dict[b.fallback][key]; ok {
		return v
	}
	return key
}

// Resolve chooses the best supported language from an Accept-Language
// header, honoring q-values with header order as the tiebreak.
func (b *Bundle) Resolve(acceptLang string) string {
	type pref struct {
		base string
		q    float64
		pos  int
	}
	var prefs []pref
	for i, raw := range strings.Split(acceptLang, ",") {
		p := strings.TrimSpace(raw)
		if p == "" {
			continue
		}
		q := 1.0
		if sc := strings.IndexByte(p, ';'); sc != -1 {
			params := strings.TrimSpace(p[sc+1:])
			p = strings.TrimSpace(p[:sc])
			if strings.HasPrefix(params, "q=") {
				if v, err := strconv.ParseFloat(strings.TrimPrefix(params, "q="), 64); err == nil {
					q = clampQ(v)
				}
			}
		}
		if dash := strings.IndexByte(p, '-'); dash != -1 {
			p = p[:dash]
		}
		prefs = append(prefs, pref{base: strings.ToLower(p), q: q, pos: i})
	}
	sort.SliceStable(prefs, func(i, j int) bool {
		if prefs[i].q == prefs[j].q {
			return prefs[i].pos < prefs[j].pos
		}
		return prefs[i].q > prefs[j].q
	})
	for _, p := range prefs {
		if b.IsSupported(p.base) {
			return p.base
		}
	}
	return b.fallback
}

func clampQ(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
