// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Seed is a catalogue fixture loaded at startup.
//
// Example:
//
//	authors:
//	  - email: jane@example.com
//	    first_name: Jane
//	    last_name: Austen
//	books:
//	  - title: Emma
//	    description: A novel of youthful hubris.
//	    image_url: https://example.com/emma.jpg
//	    price: "12.50"
//	    authors: [jane@example.com]
type Seed struct {
	Authors []AuthorInput `yaml:"authors"`
	Books   []SeedBook    `yaml:"books"`
}

// SeedBook is a book entry of a [Seed]; Authors are emails of seeded or
// already stored authors.
type SeedBook struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	ImageURL    string   `yaml:"image_url"`
	Price       string   `yaml:"price"`
	Authors     []string `yaml:"authors"`
}

// ParseSeed decodes a YAML catalogue. Unknown keys are rejected.
func ParseSeed(reader io.Reader) (*Seed, error) {
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)

	seed := &Seed{}
	if err := decoder.Decode(seed); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("seed: decode: %w", err)
	}
	return seed, nil
}

// LoadSeedFile parses the file at path and applies it to service.
func LoadSeedFile(context context.Context, service *Service, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("seed: open %s: %w", path, err)
	}
	defer file.Close()

	seed, err := ParseSeed(file)
	if err != nil {
		return err
	}
	return seed.Apply(context, service)
}

// Apply creates the seeded records through the public operations, so every
// catalogue rule applies. It stops at the first failure.
func (seed *Seed) Apply(context context.Context, service *Service) error {
	for _, input := range seed.Authors {
		if _, err := service.CreateAuthor(context, input); err != nil {
			return fmt.Errorf("seed: author %q: %w", input.Email, err)
		}
	}

	for _, entry := range seed.Books {
		price := decimal.Zero
		if entry.Price != "" {
			parsed, err := decimal.NewFromString(entry.Price)
			if err != nil {
				return fmt.Errorf("seed: book %q: price: %w", entry.Title, err)
			}
			price = parsed
		}

		input := BookInput{
			Title:       entry.Title,
			Description: entry.Description,
			ImageURL:    entry.ImageURL,
			Price:       price,
		}
		if len(entry.Authors) > 0 {
			input.AuthorEmail = entry.Authors[0]
		}

		book, err := service.CreateBook(context, input)
		if err != nil {
			return fmt.Errorf("seed: book %q: %w", entry.Title, err)
		}

		for _, email := range entry.Authors[min(1, len(entry.Authors)):] {
			if _, err := service.AttachBookToAuthor(context, email, book.Slug); err != nil {
				return fmt.Errorf("seed: book %q: author %q: %w", entry.Title, email, err)
			}
		}
	}

	service.log(context).Info("seed_applied",
		slog.Int("authors", len(seed.Authors)),
		slog.Int("books", len(seed.Books)),
	)
	return nil
}
