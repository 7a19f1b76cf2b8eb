// Package seed installs the shared default categories on startup.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/hongminglow/finance-be/internal/models"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// DefaultCategory is one entry of the shared category list.
type DefaultCategory struct {
	Name string              `yaml:"name"`
	Type models.CategoryType `yaml:"type"`
}

type document struct {
	Categories []DefaultCategory `yaml:"categories"`
}

// Inserter is the slice of the category store that seeding needs.
type Inserter interface {
	EnsureDefaultCategory(ctx context.Context, name string, typ models.CategoryType) (bool, error)
}

// Defaults returns the built-in default category list.
func Defaults() ([]DefaultCategory, error) {
	return Parse(defaultsYAML)
}

// Parse decodes and validates a category list document.
func Parse(data []byte) ([]DefaultCategory, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode default categories: %w", err)
	}

	seen := make(map[string]struct{}, len(doc.Categories))
	for i, c := range doc.Categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, fmt.Errorf("default category %d: name is required", i)
		}
		typ, err := models.ParseCategoryType(string(c.Type))
		if err != nil {
			return nil, fmt.Errorf("default category %q: %w", name, err)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("default category %q listed twice", name)
		}
		seen[name] = struct{}{}
		doc.Categories[i] = DefaultCategory{Name: name, Type: typ}
	}
	return doc.Categories, nil
}

// Categories inserts every missing default. It is safe to run on every start.
func Categories(ctx context.Context, store Inserter, defaults []DefaultCategory) error {
	added := 0
	for _, c := range defaults {
		inserted, err := store.EnsureDefaultCategory(ctx, c.Name, c.Type)
		if err != nil {
			return fmt.Errorf("seed category %q: %w", c.Name, err)
		}
		if inserted {
			added++
		}
	}
	logrus.WithFields(logrus.Fields{"added": added, "total": len(defaults)}).Info("default categories ready")
	return nil
}
