// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"slices"
	"time"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
)

// Resource names used in NotFound messages.
const (
	resourceAuthor = "Author"
	resourceBook   = "Book"
)

// MemoryRepository is the in-process [Repository].
//
// Each collection is an insertion-ordered slice plus a natural-key index.
// It has no locking of its own.
type MemoryRepository struct {
	authors       []*Author
	authorByEmail map[string]*Author

	books      []*Book
	bookBySlug map[string]*Book

	now func() time.Time
}

// NewMemoryRepository returns an empty store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		authorByEmail: make(map[string]*Author),
		bookBySlug:    make(map[string]*Book),
		now:           time.Now,
	}
}

// # Authors

func (repository *MemoryRepository) CreateAuthor(author *Author) error {
	if _, exists := repository.authorByEmail[author.Email]; exists {
		return apperr.Conflict("Author with this email already exists")
	}

	now := repository.now()
	author.CreatedAt, author.UpdatedAt = now, now
	if author.Books == nil {
		author.Books = []string{}
	}

	repository.authors = append(repository.authors, author)
	repository.authorByEmail[author.Email] = author
	return nil
}

func (repository *MemoryRepository) FindAuthorByEmail(email string) (*Author, error) {
	author, ok := repository.authorByEmail[email]
	if !ok {
		return nil, apperr.NotFound(resourceAuthor)
	}
	return author, nil
}

func (repository *MemoryRepository) ListAuthors() []*Author {
	return repository.authors
}

func (repository *MemoryRepository) UpdateAuthorFields(email string, patch AuthorPatch) (*Author, error) {
	author, err := repository.FindAuthorByEmail(email)
	if err != nil {
		return nil, err
	}

	mergeString(&author.FirstName, patch.FirstName)
	mergeString(&author.LastName, patch.LastName)
	mergeString(&author.Bio, patch.Bio)
	mergeString(&author.ImageURL, patch.ImageURL)
	author.UpdatedAt = repository.now()

	return author, nil
}

func (repository *MemoryRepository) RekeyAuthor(oldEmail, newEmail string) error {
	author, err := repository.FindAuthorByEmail(oldEmail)
	if err != nil {
		return err
	}
	if oldEmail == newEmail {
		return nil
	}
	if _, taken := repository.authorByEmail[newEmail]; taken {
		return apperr.Conflict("Author with this email already exists")
	}

	delete(repository.authorByEmail, oldEmail)
	author.Email = newEmail
	author.UpdatedAt = repository.now()
	repository.authorByEmail[newEmail] = author
	return nil
}

func (repository *MemoryRepository) DeleteAuthor(email string) error {
	author, err := repository.FindAuthorByEmail(email)
	if err != nil {
		return err
	}

	delete(repository.authorByEmail, email)
	repository.authors = slices.DeleteFunc(repository.authors, func(a *Author) bool { return a == author })
	return nil
}

// # Books

func (repository *MemoryRepository) CreateBook(book *Book) error {
	if _, exists := repository.bookBySlug[book.Slug]; exists {
		return apperr.Conflict("Book with this slug already exists")
	}

	now := repository.now()
	book.CreatedAt, book.UpdatedAt = now, now
	if book.Authors == nil {
		book.Authors = []string{}
	}

	repository.books = append(repository.books, book)
	repository.bookBySlug[book.Slug] = book
	return nil
}

func (repository *MemoryRepository) FindBookBySlug(slug string) (*Book, error) {
	book, ok := repository.bookBySlug[slug]
	if !ok {
		return nil, apperr.NotFound(resourceBook)
	}
	return book, nil
}

func (repository *MemoryRepository) HasBookSlug(slug string) bool {
	_, ok := repository.bookBySlug[slug]
	return ok
}

func (repository *MemoryRepository) ListBooks() []*Book {
	return repository.books
}

func (repository *MemoryRepository) UpdateBookFields(slug string, patch BookPatch) (*Book, error) {
	book, err := repository.FindBookBySlug(slug)
	if err != nil {
		return nil, err
	}

	mergeString(&book.Title, patch.Title)
	mergeString(&book.Description, patch.Description)
	mergeString(&book.ImageURL, patch.ImageURL)
	if patch.Price != nil {
		book.Price = *patch.Price
	}
	book.UpdatedAt = repository.now()

	return book, nil
}

func (repository *MemoryRepository) RekeyBook(oldSlug, newSlug string) error {
	book, err := repository.FindBookBySlug(oldSlug)
	if err != nil {
		return err
	}
	if oldSlug == newSlug {
		return nil
	}
	if _, taken := repository.bookBySlug[newSlug]; taken {
		return apperr.Conflict("Book with this slug already exists")
	}

	delete(repository.bookBySlug, oldSlug)
	book.Slug = newSlug
	book.UpdatedAt = repository.now()
	repository.bookBySlug[newSlug] = book
	return nil
}

func (repository *MemoryRepository) DeleteBook(slug string) error {
	book, err := repository.FindBookBySlug(slug)
	if err != nil {
		return err
	}

	delete(repository.bookBySlug, slug)
	repository.books = slices.DeleteFunc(repository.books, func(b *Book) bool { return b == book })
	return nil
}

// mergeString overwrites *dst when src is set.
func mergeString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
