// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Book is a title in the catalogue, keyed by its slug.
//
// Authors holds weak references (emails) into the author collection.
type Book struct {
	ID          string          `json:"id"`
	Slug        string          `json:"slug"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
	Price       decimal.Decimal `json:"price"`
	Authors     []string        `json:"authors"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// BookInput carries the fields accepted when creating a book.
// AuthorEmail is optional; when set the book is created already attached.
type BookInput struct {
	Title       string          `json:"title"        yaml:"title"`
	Description string          `json:"description"  yaml:"description"`
	ImageURL    string          `json:"image_url"    yaml:"image_url"`
	Price       decimal.Decimal `json:"price"        yaml:"price"`
	AuthorEmail string          `json:"author_email" yaml:"author_email"`
}

// BookPatch is a partial update; nil fields are left untouched.
// A new Title may change the slug.
type BookPatch struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	ImageURL    *string          `json:"image_url"`
	Price       *decimal.Decimal `json:"price"`
}

// Association is the pair of records touched by an attach or detach.
type Association struct {
	Author *Author `json:"author"`
	Book   *Book   `json:"book"`
}

func (b *Book) clone() *Book {
	c := *b
	c.Authors = slices.Clone(b.Authors)
	if c.Authors == nil {
		c.Authors = []string{}
	}
	return &c
}

func (b *Book) hasAuthor(email string) bool {
	return slices.Contains(b.Authors, email)
}
