// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"slices"
	"time"
)

// Author is a writer in the catalogue, keyed by email.
//
// Books holds weak references (slugs) into the book collection. It is written
// only by the relationship code in this package.
type Author struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Bio       string    `json:"bio"`
	ImageURL  string    `json:"image_url"`
	Books     []string  `json:"books"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthorInput carries the fields accepted when creating an author.
type AuthorInput struct {
	FirstName string `json:"first_name" yaml:"first_name"`
	LastName  string `json:"last_name"  yaml:"last_name"`
	Email     string `json:"email"      yaml:"email"`
	Bio       string `json:"bio"        yaml:"bio"`
	ImageURL  string `json:"image_url"  yaml:"image_url"`
}

// AuthorPatch is a partial update; nil fields are left untouched.
// A non-nil Email different from the current one re-keys the author.
type AuthorPatch struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Bio       *string `json:"bio"`
	ImageURL  *string `json:"image_url"`
}

// Field names for validation
const (
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
	FieldEmail       = "email"
	FieldBio         = "bio"
	FieldImageURL    = "image_url"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldAuthorEmail = "author_email"
	FieldSlug        = "slug"
)

// clone returns a copy that shares no memory with a.
func (a *Author) clone() *Author {
	c := *a
	c.Books = slices.Clone(a.Books)
	if c.Books == nil {
		c.Books = []string{}
	}
	return &c
}

func (a *Author) hasBook(slug string) bool {
	return slices.Contains(a.Books, slug)
}
