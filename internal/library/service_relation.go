// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"context"
	"log/slog"
	"slices"

	"github.com/taibuivan/bookshelf/internal/platform/validate"
	"github.com/taibuivan/bookshelf/pkg/slice"
)

// # Association Management

/*
AttachBookToAuthor links an author and a book on both records.

Description: Idempotent. Attaching an existing pair succeeds and changes
nothing.

Parameters:
  - context: context.Context
  - email: string (Author natural key)
  - bookSlug: string (Book natural key)

Returns:
  - *Association: Both records after the change
  - error: NotFound if either side is missing
*/
func (service *Service) AttachBookToAuthor(context context.Context, email, bookSlug string) (*Association, error) {
	if err := validateAssociation(email, bookSlug); err != nil {
		return nil, err
	}

	service.mu.Lock()
	defer service.mu.Unlock()

	author, book, err := service.attach(email, bookSlug)
	if err != nil {
		return nil, err
	}

	service.log(context).Info("book_attached", slog.String("email", email), slog.String("slug", bookSlug))
	return &Association{Author: author.clone(), Book: book.clone()}, nil
}

/*
DetachBookFromAuthor removes the link between an author and a book on both
records.

Description: Idempotent. Detaching a pair that was never linked succeeds.

Returns:
  - *Association: Both records after the change
  - error: NotFound if either side is missing
*/
func (service *Service) DetachBookFromAuthor(context context.Context, email, bookSlug string) (*Association, error) {
	if err := validateAssociation(email, bookSlug); err != nil {
		return nil, err
	}

	service.mu.Lock()
	defer service.mu.Unlock()

	author, book, err := service.detach(email, bookSlug)
	if err != nil {
		return nil, err
	}

	service.log(context).Info("book_detached", slog.String("email", email), slog.String("slug", bookSlug))
	return &Association{Author: author.clone(), Book: book.clone()}, nil
}

// # Relationship Queries

// ListBooksOfAuthor returns the books listing email, in book-collection order.
func (service *Service) ListBooksOfAuthor(context context.Context, email string) ([]*Book, error) {
	service.mu.RLock()
	defer service.mu.RUnlock()

	if _, err := service.repo.FindAuthorByEmail(email); err != nil {
		return nil, err
	}

	books := slice.Filter(service.repo.ListBooks(), func(book *Book) bool {
		return book.hasAuthor(email)
	})
	return cloneBooks(books), nil
}

// ListAuthorsOfBook returns the authors listing bookSlug, in author-collection order.
func (service *Service) ListAuthorsOfBook(context context.Context, bookSlug string) ([]*Author, error) {
	service.mu.RLock()
	defer service.mu.RUnlock()

	if _, err := service.repo.FindBookBySlug(bookSlug); err != nil {
		return nil, err
	}

	authors := slice.Filter(service.repo.ListAuthors(), func(author *Author) bool {
		return author.hasBook(bookSlug)
	})
	return cloneAuthors(authors), nil
}

// # Primitives
//
// attach and detach are the only code that writes Author.Books and
// Book.Authors outside of re-keying and cascades. Both resolve the two
// records before touching either one. The caller holds the write lock.

func (service *Service) attach(email, bookSlug string) (*Author, *Book, error) {
	author, book, err := service.resolvePair(email, bookSlug)
	if err != nil {
		return nil, nil, err
	}

	if !author.hasBook(book.Slug) {
		author.Books = append(author.Books, book.Slug)
	}
	if !book.hasAuthor(author.Email) {
		book.Authors = append(book.Authors, author.Email)
	}
	return author, book, nil
}

func (service *Service) detach(email, bookSlug string) (*Author, *Book, error) {
	author, book, err := service.resolvePair(email, bookSlug)
	if err != nil {
		return nil, nil, err
	}

	author.Books = slices.DeleteFunc(author.Books, func(s string) bool { return s == book.Slug })
	book.Authors = slices.DeleteFunc(book.Authors, func(e string) bool { return e == author.Email })
	return author, book, nil
}

func (service *Service) resolvePair(email, bookSlug string) (*Author, *Book, error) {
	author, err := service.repo.FindAuthorByEmail(email)
	if err != nil {
		return nil, nil, err
	}

	book, err := service.repo.FindBookBySlug(bookSlug)
	if err != nil {
		return nil, nil, err
	}
	return author, book, nil
}

func validateAssociation(email, bookSlug string) error {
	validator := &validate.Validator{}
	validator.Email(FieldEmail, email)
	validator.Slug(FieldSlug, bookSlug)
	return validator.Err()
}
