// Package daydata loads per-day calendar content from data files and iCalendar
// feeds.
package daydata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/aellingwood/anvil/internal/ui"
)

// MaxDay is the largest day number accepted as a key.
const MaxDay = 31

// Load parses a YAML (.yaml, .yml), JSON (.json), or TOML (.toml) file that
// maps day numbers to cell content, for example:
//
//	1: "Sprint starts"
//	14: "<em>Release</em>"
//
// Keys must be integer-like and between 1 and 31. Scalar values are converted
// to strings and NFC-normalized; when md is non-nil they are also rendered as
// inline markdown.
func Load(path string, md *MarkdownRenderer) (map[int]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading day values %s: %w", path, err)
	}

	var parsed any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported day values format %q", ext)
	}

	values, err := fromMap(parsed, md)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return values, nil
}

// fromMap converts a decoded document into day values. yaml.v3 decodes
// documents with integer keys into map[any]any, the other formats into
// map[string]any.
func fromMap(parsed any, md *MarkdownRenderer) (map[int]string, error) {
	raw := make(map[any]any)
	switch m := parsed.(type) {
	case nil:
		return map[int]string{}, nil
	case map[string]any:
		for k, v := range m {
			raw[k] = v
		}
	case map[any]any:
		raw = m
	default:
		return nil, fmt.Errorf("expected a mapping of day to content, got %T", parsed)
	}

	values := make(map[int]string, len(raw))
	for _, key := range sortedKeys(raw) {
		day, ok := ui.IntLike(key)
		if !ok || day < 1 || day > MaxDay {
			return nil, fmt.Errorf("invalid day %v: must be an integer between 1 and %d", key, MaxDay)
		}

		var s string
		switch v := raw[key].(type) {
		case string:
			s = v
		case int, int64, uint64, float64, bool:
			s = fmt.Sprint(v)
		default:
			return nil, fmt.Errorf("day %d: unsupported value of type %T", day, v)
		}
		s = norm.NFC.String(s)

		if md != nil {
			rendered, err := md.RenderInline(s)
			if err != nil {
				return nil, fmt.Errorf("day %d: %w", day, err)
			}
			s = rendered
		}
		values[day] = s
	}
	return values, nil
}

// sortedKeys orders keys so error messages are deterministic.
func sortedKeys(m map[any]any) []any {
	keys := make([]any, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
	})
	return keys
}
