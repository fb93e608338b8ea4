// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

// Repository is the record store: primitive storage and natural-key lookup for
// both collections, independent of relationship semantics.
//
// Implementations are not required to be safe for concurrent use; [Service]
// serialises every call. Returned pointers refer to the live records.
type Repository interface {
	// # Authors

	/*
		CreateAuthor inserts a new author.

		Returns:
		  - error: Conflict if the email is already in use
	*/
	CreateAuthor(author *Author) error

	// FindAuthorByEmail returns the author or NotFound.
	FindAuthorByEmail(email string) (*Author, error)

	// ListAuthors returns every author in insertion order.
	ListAuthors() []*Author

	// UpdateAuthorFields merges the non-key, non-relationship fields of patch.
	UpdateAuthorFields(email string, patch AuthorPatch) (*Author, error)

	/*
		RekeyAuthor moves an author to a new email.

		Returns:
		  - error: NotFound if oldEmail is absent, Conflict if newEmail is taken
	*/
	RekeyAuthor(oldEmail, newEmail string) error

	// DeleteAuthor removes the author without checking associations.
	DeleteAuthor(email string) error

	// # Books

	/*
		CreateBook inserts a book whose slug the caller has already resolved.

		Returns:
		  - error: Conflict if the slug is already in use
	*/
	CreateBook(book *Book) error

	// FindBookBySlug returns the book or NotFound.
	FindBookBySlug(slug string) (*Book, error)

	// HasBookSlug reports whether slug is currently in use.
	HasBookSlug(slug string) bool

	// ListBooks returns every book in insertion order.
	ListBooks() []*Book

	// UpdateBookFields merges the non-key, non-relationship fields of patch.
	// It never recomputes the slug; a title change is re-keyed by the caller.
	UpdateBookFields(slug string, patch BookPatch) (*Book, error)

	// RekeyBook moves a book to a new slug. NotFound / Conflict as [Repository.RekeyAuthor].
	RekeyBook(oldSlug, newSlug string) error

	// DeleteBook removes the book without touching author back-references.
	DeleteBook(slug string) error
}
