package i18n

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

//go:embed locales/*.yaml
var locales embed.FS

// DefaultLanguage is used when no requested language is supported
const DefaultLanguage = "en"

// Translator serves UI strings from the embedded locale bundles
type Translator struct {
	bundles  map[string]*viper.Viper
	matcher  language.Matcher
	fallback string
}

// NewTranslator loads every embedded locale bundle
func NewTranslator() (*Translator, error) {
	entries, err := locales.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("failed to list locales: %w", err)
	}

	bundles := make(map[string]*viper.Viper, len(entries))
	// the default language must come first for the matcher
	tags := []language.Tag{language.Make(DefaultLanguage)}
	for _, entry := range entries {
		lang := strings.TrimSuffix(entry.Name(), path.Ext(entry.Name()))
		data, err := locales.ReadFile("locales/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read locale %s: %w", lang, err)
		}

		v := viper.New()
		v.SetConfigType("yaml")
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to parse locale %s: %w", lang, err)
		}
		bundles[lang] = v
		if lang != DefaultLanguage {
			tags = append(tags, language.Make(lang))
		}
	}

	if _, ok := bundles[DefaultLanguage]; !ok {
		return nil, fmt.Errorf("default locale %q is missing", DefaultLanguage)
	}

	return &Translator{
		bundles:  bundles,
		matcher:  language.NewMatcher(tags),
		fallback: DefaultLanguage,
	}, nil
}

// Match picks the best supported language for the given preferences, which may be
// plain codes ("de") or Accept-Language headers ("de-CH,de;q=0.9,en;q=0.8").
func (t *Translator) Match(preferences ...string) string {
	tag, _ := language.MatchStrings(t.matcher, preferences...)
	base, _ := tag.Base()
	if _, ok := t.bundles[base.String()]; ok {
		return base.String()
	}
	return t.fallback
}

// Languages lists the supported language codes
func (t *Translator) Languages() []string {
	langs := make([]string, 0, len(t.bundles))
	for lang := range t.bundles {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	return langs
}

// Translate returns the string for key, falling back to the default language and then the key itself
func (t *Translator) Translate(lang, key string, params map[string]string) string {
	return t.TranslateOr(lang, key, key, params)
}

// TranslateOr is Translate with a caller-supplied default for missing keys
func (t *Translator) TranslateOr(lang, key, def string, params map[string]string) string {
	message, ok := t.lookup(lang, key)
	if !ok {
		message, ok = t.lookup(t.fallback, key)
	}
	if !ok {
		message = def
	}
	return interpolate(message, params)
}

func (t *Translator) lookup(lang, key string) (string, bool) {
	bundle, ok := t.bundles[lang]
	if !ok || !bundle.IsSet(key) {
		return "", false
	}
	return bundle.GetString(key), true
}

// interpolate replaces {{name}} placeholders with params
func interpolate(message string, params map[string]string) string {
	if len(params) == 0 {
		return message
	}
	pairs := make([]string, 0, len(params)*2)
	for name, value := range params {
		pairs = append(pairs, "{{"+name+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(message)
}
