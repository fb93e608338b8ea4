// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"context"
	"log/slog"
	"slices"

	"github.com/taibuivan/bookshelf/internal/platform/validate"
	"github.com/taibuivan/bookshelf/pkg/slug"
	"github.com/taibuivan/bookshelf/pkg/uuid"
)

// # Book Lookups

// ListBooks returns every book in insertion order.
func (service *Service) ListBooks(context context.Context) ([]*Book, error) {
	service.mu.RLock()
	defer service.mu.RUnlock()

	return cloneBooks(service.repo.ListBooks()), nil
}

// GetBook returns the book with the given slug or NotFound.
func (service *Service) GetBook(context context.Context, bookSlug string) (*Book, error) {
	service.mu.RLock()
	defer service.mu.RUnlock()

	book, err := service.repo.FindBookBySlug(bookSlug)
	if err != nil {
		return nil, err
	}
	return book.clone(), nil
}

// # Book Management

/*
CreateBook adds a book under a fresh, unique slug.

Description: When input.AuthorEmail is set the author is resolved first and
the association is stored on both records before the lock is released.
Without it the book starts with no authors.

Returns:
  - *Book: The stored record
  - error: Validation failure, or NotFound for an unknown author
*/
func (service *Service) CreateBook(context context.Context, input BookInput) (*Book, error) {
	if err := validateBookInput(input); err != nil {
		return nil, err
	}

	service.mu.Lock()
	defer service.mu.Unlock()

	var (
		book *Book
		err  error
	)
	if input.AuthorEmail != "" {
		book, err = service.createBookWithAuthor(input, input.AuthorEmail)
	} else {
		book, err = service.createBook(input)
	}
	if err != nil {
		return nil, err
	}

	service.log(context).Info("book_created",
		slog.String("slug", book.Slug),
		slog.String("book_id", book.ID),
		slog.Any("authors", book.Authors),
	)
	return book.clone(), nil
}

/*
UpdateBook applies a partial update.

Description: A title whose base slug differs from the current title's gets a
new unique slug; every author that lists the book is re-pointed to it.

Returns:
  - *Book: The updated record (look it up by its returned Slug afterwards)
  - error: Validation failure or NotFound
*/
func (service *Service) UpdateBook(context context.Context, bookSlug string, patch BookPatch) (*Book, error) {
	if err := validateBookPatch(patch); err != nil {
		return nil, err
	}

	service.mu.Lock()
	defer service.mu.Unlock()

	if _, err := service.repo.FindBookBySlug(bookSlug); err != nil {
		return nil, err
	}

	key := bookSlug
	if patch.Title != nil {
		renamed, err := service.renameBook(bookSlug, *patch.Title)
		if err != nil {
			return nil, err
		}
		if renamed != bookSlug {
			service.log(context).Info("book_renamed", slog.String("from", bookSlug), slog.String("to", renamed))
		}
		key = renamed
	}

	book, err := service.repo.UpdateBookFields(key, patch)
	if err != nil {
		return nil, err
	}

	service.log(context).Info("book_updated", slog.String("slug", key))
	return book.clone(), nil
}

/*
DeleteBook removes a book and strips its slug from every author.

Books can always be deleted; the reverse links are cascaded.

Returns:
  - *Book: The removed record
  - error: NotFound
*/
func (service *Service) DeleteBook(context context.Context, bookSlug string) (*Book, error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	book, err := service.repo.FindBookBySlug(bookSlug)
	if err != nil {
		return nil, err
	}
	removed := book.clone()

	for _, author := range service.repo.ListAuthors() {
		if author.hasBook(bookSlug) {
			author.Books = slices.DeleteFunc(author.Books, func(s string) bool { return s == bookSlug })
		}
	}

	if err := service.repo.DeleteBook(bookSlug); err != nil {
		return nil, err
	}

	service.log(context).Warn("book_deleted", slog.String("slug", bookSlug), slog.Int("detached_authors", len(removed.Authors)))
	return removed, nil
}

// # Creation & Re-keying
//
// The helpers below assume the caller holds the write lock.

// createBook inserts a book with no authors.
func (service *Service) createBook(input BookInput) (*Book, error) {
	book := &Book{
		ID:          uuid.New(),
		Slug:        slug.Unique(slug.Base(input.Title), service.repo.HasBookSlug),
		Title:       input.Title,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		Price:       input.Price,
		Authors:     []string{},
	}

	if err := service.repo.CreateBook(book); err != nil {
		return nil, err
	}
	return book, nil
}

// createBookWithAuthor resolves the author before inserting, so an unknown
// email leaves the store untouched.
func (service *Service) createBookWithAuthor(input BookInput, authorEmail string) (*Book, error) {
	if _, err := service.repo.FindAuthorByEmail(authorEmail); err != nil {
		return nil, err
	}

	book, err := service.createBook(input)
	if err != nil {
		return nil, err
	}

	if _, _, err := service.attach(authorEmail, book.Slug); err != nil {
		return nil, err
	}
	return book, nil
}

// renameBook returns the slug the book should carry under newTitle, re-keying
// it when the base slug changes. The book's own slug does not count as a
// collision.
func (service *Service) renameBook(currentSlug, newTitle string) (string, error) {
	book, err := service.repo.FindBookBySlug(currentSlug)
	if err != nil {
		return "", err
	}

	base := slug.Base(newTitle)
	if base == slug.Base(book.Title) {
		return currentSlug, nil
	}

	newSlug := slug.Unique(base, func(candidate string) bool {
		return candidate != currentSlug && service.repo.HasBookSlug(candidate)
	})
	if newSlug == currentSlug {
		return currentSlug, nil
	}

	if err := service.repo.RekeyBook(currentSlug, newSlug); err != nil {
		return "", err
	}

	for _, author := range service.repo.ListAuthors() {
		replaceRef(author.Books, currentSlug, newSlug)
	}
	return newSlug, nil
}

// # Validation

func validateBookInput(input BookInput) error {
	validator := &validate.Validator{}

	validator.Required(FieldTitle, input.Title).MinLen(FieldTitle, input.Title, minNameLen)
	validator.Required(FieldDescription, input.Description).MinLen(FieldDescription, input.Description, minNameLen)
	validator.Required(FieldImageURL, input.ImageURL).URL(FieldImageURL, input.ImageURL)
	validator.Custom(FieldPrice, input.Price.IsNegative(), "Must not be negative")

	if input.AuthorEmail != "" {
		validator.Email(FieldAuthorEmail, input.AuthorEmail)
	}

	return validator.Err()
}

func validateBookPatch(patch BookPatch) error {
	validator := &validate.Validator{}

	if patch.Title != nil {
		validator.Required(FieldTitle, *patch.Title).MinLen(FieldTitle, *patch.Title, minNameLen)
	}
	if patch.Description != nil {
		validator.Required(FieldDescription, *patch.Description).MinLen(FieldDescription, *patch.Description, minNameLen)
	}
	if patch.ImageURL != nil {
		validator.URL(FieldImageURL, *patch.ImageURL)
	}
	if patch.Price != nil {
		validator.Custom(FieldPrice, patch.Price.IsNegative(), "Must not be negative")
	}

	return validator.Err()
}
