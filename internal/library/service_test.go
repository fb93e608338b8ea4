// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/library"
	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/pkg/pointer"
)

// # Fixtures

func newService() *library.Service {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return library.NewService(library.NewMemoryRepository(), logger)
}

func authorInput(email string) library.AuthorInput {
	return library.AuthorInput{
		FirstName: "Jane",
		LastName:  "Herbert",
		Email:     email,
		Bio:       "Writes about deserts.",
		ImageURL:  "https://example.com/authors/jane.jpg",
	}
}

func bookInput(title, authorEmail string) library.BookInput {
	return library.BookInput{
		Title:       title,
		Description: "A long story about " + title,
		ImageURL:    "https://example.com/covers/book.jpg",
		Price:       decimal.RequireFromString("19.99"),
		AuthorEmail: authorEmail,
	}
}

func mustAuthor(t *testing.T, service *library.Service, email string) *library.Author {
	t.Helper()
	author, err := service.CreateAuthor(context.Background(), authorInput(email))
	require.NoError(t, err)
	return author
}

func mustBook(t *testing.T, service *library.Service, title, authorEmail string) *library.Book {
	t.Helper()
	book, err := service.CreateBook(context.Background(), bookInput(title, authorEmail))
	require.NoError(t, err)
	return book
}

// assertConsistent checks key uniqueness, that every reference resolves and
// that the association is stored on both sides.
func assertConsistent(t *testing.T, service *library.Service) {
	t.Helper()
	ctx := context.Background()

	authors, err := service.ListAuthors(ctx)
	require.NoError(t, err)
	books, err := service.ListBooks(ctx)
	require.NoError(t, err)

	byEmail := make(map[string]*library.Author, len(authors))
	for _, author := range authors {
		require.NotContains(t, byEmail, author.Email, "duplicate email")
		byEmail[author.Email] = author
	}

	bySlug := make(map[string]*library.Book, len(books))
	for _, book := range books {
		require.NotContains(t, bySlug, book.Slug, "duplicate slug")
		bySlug[book.Slug] = book
	}

	for _, author := range authors {
		seen := map[string]bool{}
		for _, ref := range author.Books {
			require.False(t, seen[ref], "author %s lists %s twice", author.Email, ref)
			seen[ref] = true

			book, ok := bySlug[ref]
			require.True(t, ok, "author %s references missing book %s", author.Email, ref)
			require.Contains(t, book.Authors, author.Email, "book %s lacks back-reference to %s", ref, author.Email)
		}
	}

	for _, book := range books {
		seen := map[string]bool{}
		for _, ref := range book.Authors {
			require.False(t, seen[ref], "book %s lists %s twice", book.Slug, ref)
			seen[ref] = true

			author, ok := byEmail[ref]
			require.True(t, ok, "book %s references missing author %s", book.Slug, ref)
			require.Contains(t, author.Books, book.Slug, "author %s lacks back-reference to %s", ref, book.Slug)
		}
	}
}

// # Scenarios

/*
TestService_EndToEnd walks one author and one book through their lifecycle.
*/
func TestService_EndToEnd(t *testing.T) {
	ctx := context.Background()
	service := newService()

	// 1. Create author and book
	mustAuthor(t, service, "jane@x.com")
	book := mustBook(t, service, "Dune", "jane@x.com")
	assert.Equal(t, "dune", book.Slug)
	assert.Equal(t, []string{"jane@x.com"}, book.Authors)

	author, err := service.GetAuthor(ctx, "jane@x.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"dune"}, author.Books)

	// 2. Renaming to the same title keeps the slug
	book, err = service.UpdateBook(ctx, "dune", library.BookPatch{Title: pointer.To("Dune")})
	require.NoError(t, err)
	assert.Equal(t, "dune", book.Slug)

	// 3. Changing the email rewrites the book's reference
	_, err = service.UpdateAuthor(ctx, "jane@x.com", library.AuthorPatch{Email: pointer.To("j@x.com")})
	require.NoError(t, err)

	book, err = service.GetBook(ctx, "dune")
	require.NoError(t, err)
	assert.Equal(t, []string{"j@x.com"}, book.Authors)

	_, err = service.GetAuthor(ctx, "jane@x.com")
	assert.True(t, apperr.IsNotFound(err))

	// 4. Author with books cannot be removed
	_, err = service.DeleteAuthor(ctx, "j@x.com")
	assert.True(t, apperr.IsConflict(err))

	// 5. Detach, then removal succeeds
	_, err = service.DetachBookFromAuthor(ctx, "j@x.com", "dune")
	require.NoError(t, err)

	removed, err := service.DeleteAuthor(ctx, "j@x.com")
	require.NoError(t, err)
	assert.Equal(t, "j@x.com", removed.Email)

	assertConsistent(t, service)
}

/*
TestCreateBook_SlugCollision verifies numeric suffixes for equal titles.
*/
func TestCreateBook_SlugCollision(t *testing.T) {
	service := newService()

	first := mustBook(t, service, "Hello, World!", "")
	second := mustBook(t, service, "Hello, World!", "")
	third := mustBook(t, service, "hello world", "")

	assert.Equal(t, "hello-world", first.Slug)
	assert.Equal(t, "hello-world-1", second.Slug)
	assert.Equal(t, "hello-world-2", third.Slug)
	assert.NotEqual(t, first.ID, second.ID)
}

/*
TestCreateBook_WithoutAuthor starts with an empty author list.
*/
func TestCreateBook_WithoutAuthor(t *testing.T) {
	service := newService()

	book := mustBook(t, service, "Emma", "")
	assert.Empty(t, book.Authors)
	assert.NotNil(t, book.Authors)
	assert.True(t, decimal.RequireFromString("19.99").Equal(book.Price))
}

/*
TestCreateBook_UnknownAuthor fails without inserting the book.
*/
func TestCreateBook_UnknownAuthor(t *testing.T) {
	ctx := context.Background()
	service := newService()

	_, err := service.CreateBook(ctx, bookInput("Dune", "ghost@x.com"))
	assert.True(t, apperr.IsNotFound(err))

	books, err := service.ListBooks(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)
}

/*
TestCreateAuthor_DuplicateEmail reports a conflict, not a missing record.
*/
func TestCreateAuthor_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	service := newService()

	mustAuthor(t, service, "jane@x.com")
	_, err := service.CreateAuthor(ctx, authorInput("jane@x.com"))

	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))

	authors, err := service.ListAuthors(ctx)
	require.NoError(t, err)
	assert.Len(t, authors, 1)
}

/*
TestCreate_Validation covers the input rules of both create operations.
*/
func TestCreate_Validation(t *testing.T) {
	ctx := context.Background()
	service := newService()

	badAuthor := authorInput("not-an-email")
	badAuthor.FirstName = "Jo"
	_, err := service.CreateAuthor(ctx, badAuthor)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeValidation, ae.Code)
	assert.Len(t, ae.Details, 2)

	badBook := bookInput("Go", "")
	badBook.Price = decimal.NewFromInt(-1)
	badBook.ImageURL = "cover.jpg"
	_, err = service.CreateBook(ctx, badBook)

	ae = apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeValidation, ae.Code)
	assert.Len(t, ae.Details, 3)
}

/*
TestDeleteAuthor_WithBooks leaves the store unchanged.
*/
func TestDeleteAuthor_WithBooks(t *testing.T) {
	ctx := context.Background()
	service := newService()

	mustAuthor(t, service, "jane@x.com")
	mustBook(t, service, "Dune", "jane@x.com")

	before, err := service.GetAuthor(ctx, "jane@x.com")
	require.NoError(t, err)

	_, err = service.DeleteAuthor(ctx, "jane@x.com")
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))

	after, err := service.GetAuthor(ctx, "jane@x.com")
	require.NoError(t, err)
	assert.Equal(t, before, after)

	_, err = service.DeleteAuthor(ctx, "ghost@x.com")
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestDeleteBook_Cascades strips the slug from every author.
*/
func TestDeleteBook_Cascades(t *testing.T) {
	ctx := context.Background()
	service := newService()

	mustAuthor(t, service, "jane@x.com")
	mustAuthor(t, service, "john@x.com")
	mustBook(t, service, "Hello, World!", "jane@x.com")
	mustBook(t, service, "Dune", "jane@x.com")

	_, err := service.AttachBookToAuthor(ctx, "john@x.com", "hello-world")
	require.NoError(t, err)

	removed, err := service.DeleteBook(ctx, "hello-world")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"jane@x.com", "john@x.com"}, removed.Authors)

	authors, err := service.ListAuthors(ctx)
	require.NoError(t, err)
	for _, author := range authors {
		assert.NotContains(t, author.Books, "hello-world")
	}

	jane, err := service.GetAuthor(ctx, "jane@x.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"dune"}, jane.Books)

	_, err = service.GetBook(ctx, "hello-world")
	assert.True(t, apperr.IsNotFound(err))

	// The freed slug is reused by the next book with that title.
	again := mustBook(t, service, "Hello, World!", "")
	assert.Equal(t, "hello-world", again.Slug)

	assertConsistent(t, service)
}

// # Associations

/*
TestAttach_Idempotent yields the same state when repeated.
*/
func TestAttach_Idempotent(t *testing.T) {
	ctx := context.Background()
	service := newService()

	mustAuthor(t, service, "jane@x.com")
	mustBook(t, service, "Dune", "")

	once, err := service.AttachBookToAuthor(ctx, "jane@x.com", "dune")
	require.NoError(t, err)

	twice, err := service.AttachBookToAuthor(ctx, "jane@x.com", "dune")
	require.NoError(t, err)

	assert.Equal(t, once.Author.Books, twice.Author.Books)
	assert.Equal(t, once.Book.Authors, twice.Book.Authors)
	assert.Equal(t, []string{"dune"}, twice.Author.Books)
	assert.Equal(t, []string{"jane@x.com"}, twice.Book.Authors)
}

/*
TestAttachDetach_RoundTrip restores the association lists.
*/
func TestAttachDetach_RoundTrip(t *testing.T) {
	ctx := context.Background()
	service := newService()

	mustAuthor(t, service, "jane@x.com")
	mustAuthor(t, service, "john@x.com")
	mustBook(t, service, "Dune", "jane@x.com")
	mustBook(t, service, "Emma", "john@x.com")

	authorBefore, err := service.GetAuthor(ctx, "jane@x.com")
	require.NoError(t, err)
	bookBefore, err := service.GetBook(ctx, "emma")
	require.NoError(t, err)

	_, err = service.AttachBookToAuthor(ctx, "jane@x.com", "emma")
	require.NoError(t, err)
	association, err := service.DetachBookFromAuthor(ctx, "jane@x.com", "emma")
	require.NoError(t, err)

	assert.Equal(t, authorBefore.Books, association.Author.Books)
	assert.Equal(t, bookBefore.Authors, association.Book.Authors)

	// Detaching a pair that is not linked is not an error.
	_, err = service.DetachBookFromAuthor(ctx, "jane@x.com", "emma")
	assert.NoError(t, err)
}

/*
TestAttach_NotFound rejects unknown records on either side.
*/
func TestAttach_NotFound(t *testing.T) {
	ctx := context.Background()
	service := newService()

	mustAuthor(t, service, "jane@x.com")
	mustBook(t, service, "Dune", "")

	tests := []struct {
		name  string
		email string
		slug  string
	}{
		{"missing_author", "ghost@x.com", "dune"},
		{"missing_book", "jane@x.com", "ghost-book"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.AttachBookToAuthor(ctx, tt.email, tt.slug)
			assert.True(t, apperr.IsNotFound(err))

			_, err = service.DetachBookFromAuthor(ctx, tt.email, tt.slug)
			assert.True(t, apperr.IsNotFound(err))
		})
	}

	author, err := service.GetAuthor(ctx, "jane@x.com")
	require.NoError(t, err)
	assert.Empty(t, author.Books)
}

/*
TestRelationshipQueries returns subsets in collection order.
*/
func TestRelationshipQueries(t *testing.T) {
	ctx := context.Background()
	service := newService()

	mustAuthor(t, service, "jane@x.com")
	mustAuthor(t, service, "john@x.com")
	mustAuthor(t, service, "mary@x.com")
	mustBook(t, service, "Emma", "john@x.com")
	mustBook(t, service, "Dune", "jane@x.com")
	mustBook(t, service, "Solaris", "mary@x.com")

	_, err := service.AttachBookToAuthor(ctx, "jane@x.com", "emma")
	require.NoError(t, err)
	_, err = service.AttachBookToAuthor(ctx, "mary@x.com", "dune")
	require.NoError(t, err)

	books, err := service.ListBooksOfAuthor(ctx, "jane@x.com")
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "emma", books[0].Slug)
	assert.Equal(t, "dune", books[1].Slug)

	authors, err := service.ListAuthorsOfBook(ctx, "dune")
	require.NoError(t, err)
	require.Len(t, authors, 2)
	assert.Equal(t, "jane@x.com", authors[0].Email)
	assert.Equal(t, "mary@x.com", authors[1].Email)

	_, err = service.ListBooksOfAuthor(ctx, "ghost@x.com")
	assert.True(t, apperr.IsNotFound(err))
	_, err = service.ListAuthorsOfBook(ctx, "ghost")
	assert.True(t, apperr.IsNotFound(err))
}

// # Renames

/*
TestUpdateBook_Rename re-keys the book and every author reference.
*/
func TestUpdateBook_Rename(t *testing.T) {
	ctx := context.Background()
	service := newService()

	mustAuthor(t, service, "jane@x.com")
	mustAuthor(t, service, "john@x.com")
	mustBook(t, service, "Emma", "jane@x.com")
	mustBook(t, service, "Dune", "jane@x.com")
	_, err := service.AttachBookToAuthor(ctx, "john@x.com", "dune")
	require.NoError(t, err)

	book, err := service.UpdateBook(ctx, "dune", library.BookPatch{
		Title: pointer.To("Dune Messiah"),
		Price: pointer.To(decimal.RequireFromString("24.00")),
	})
	require.NoError(t, err)
	assert.Equal(t, "dune-messiah", book.Slug)
	assert.Equal(t, "Dune Messiah", book.Title)
	assert.True(t, decimal.RequireFromString("24").Equal(book.Price))

	jane, err := service.GetAuthor(ctx, "jane@x.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"emma", "dune-messiah"}, jane.Books, "position is preserved")

	john, err := service.GetAuthor(ctx, "john@x.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"dune-messiah"}, john.Books)

	_, err = service.GetBook(ctx, "dune")
	assert.True(t, apperr.IsNotFound(err))

	assertConsistent(t, service)
}

/*
TestUpdateBook_RenameCollision resolves against other books only.
*/
func TestUpdateBook_RenameCollision(t *testing.T) {
	ctx := context.Background()
	service := newService()

	mustBook(t, service, "Dune", "")
	mustBook(t, service, "Children", "")

	// 1. Taking another book's base slug gets a suffix
	book, err := service.UpdateBook(ctx, "children", library.BookPatch{Title: pointer.To("Dune!")})
	require.NoError(t, err)
	assert.Equal(t, "dune-1", book.Slug)

	// 2. Same base as the current title: slug untouched, title updated
	book, err = service.UpdateBook(ctx, "dune-1", library.BookPatch{Title: pointer.To("DUNE")})
	require.NoError(t, err)
	assert.Equal(t, "dune-1", book.Slug)
	assert.Equal(t, "DUNE", book.Title)

	// 3. The book's own slug is not a collision
	book, err = service.UpdateBook(ctx, "dune-1", library.BookPatch{Title: pointer.To("Dune 1")})
	require.NoError(t, err)
	assert.Equal(t, "dune-1", book.Slug)

	_, err = service.UpdateBook(ctx, "ghost", library.BookPatch{Title: pointer.To("Ghost")})
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestUpdateAuthor_EmailConflict rejects a taken email before any change.
*/
func TestUpdateAuthor_EmailConflict(t *testing.T) {
	ctx := context.Background()
	service := newService()

	mustAuthor(t, service, "jane@x.com")
	mustAuthor(t, service, "john@x.com")
	mustBook(t, service, "Dune", "jane@x.com")

	_, err := service.UpdateAuthor(ctx, "jane@x.com", library.AuthorPatch{
		FirstName: pointer.To("Janet"),
		Email:     pointer.To("john@x.com"),
	})
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))

	jane, err := service.GetAuthor(ctx, "jane@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Jane", jane.FirstName)

	book, err := service.GetBook(ctx, "dune")
	require.NoError(t, err)
	assert.Equal(t, []string{"jane@x.com"}, book.Authors)
}

/*
TestUpdateAuthor_Fields merges only the fields that are set.
*/
func TestUpdateAuthor_Fields(t *testing.T) {
	ctx := context.Background()
	service := newService()

	created := mustAuthor(t, service, "jane@x.com")

	updated, err := service.UpdateAuthor(ctx, "jane@x.com", library.AuthorPatch{
		Bio:   pointer.To("New bio"),
		Email: pointer.To("jane@x.com"),
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "New bio", updated.Bio)
	assert.Equal(t, created.FirstName, updated.FirstName)
	assert.Equal(t, created.ImageURL, updated.ImageURL)
}

/*
TestReturnedRecordsAreCopies keeps callers away from live state.
*/
func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	service := newService()

	mustAuthor(t, service, "jane@x.com")
	mustBook(t, service, "Dune", "jane@x.com")

	author, err := service.GetAuthor(ctx, "jane@x.com")
	require.NoError(t, err)
	author.Books[0] = "tampered"
	author.Books = append(author.Books, "more")

	fresh, err := service.GetAuthor(ctx, "jane@x.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"dune"}, fresh.Books)
}

// # Concurrency

/*
TestConcurrentCreate_UniqueSlugs races creations with one title.
*/
func TestConcurrentCreate_UniqueSlugs(t *testing.T) {
	ctx := context.Background()
	service := newService()
	mustAuthor(t, service, "jane@x.com")

	const workers = 32
	slugs := make([]string, workers)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			book, err := service.CreateBook(ctx, bookInput("Same Title", "jane@x.com"))
			if assert.NoError(t, err) {
				slugs[i] = book.Slug
			}
		}()
	}
	wg.Wait()

	unique := map[string]bool{}
	for _, s := range slugs {
		unique[s] = true
	}
	assert.Len(t, unique, workers)
	assert.True(t, unique["same-title"])
	assert.True(t, unique[fmt.Sprintf("same-title-%d", workers-1)])

	assertConsistent(t, service)
}

/*
TestConcurrentAttachDetach keeps both sides in step under contention.
*/
func TestConcurrentAttachDetach(t *testing.T) {
	ctx := context.Background()
	service := newService()

	emails := []string{"a@x.com", "b@x.com", "c@x.com"}
	for _, email := range emails {
		mustAuthor(t, service, email)
	}
	slugs := []string{
		mustBook(t, service, "Dune", "").Slug,
		mustBook(t, service, "Emma", "").Slug,
	}

	var wg sync.WaitGroup
	for i := range 60 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			email, bookSlug := emails[i%len(emails)], slugs[i%len(slugs)]
			if i%2 == 0 {
				_, _ = service.AttachBookToAuthor(ctx, email, bookSlug)
			} else {
				_, _ = service.DetachBookFromAuthor(ctx, email, bookSlug)
			}
			_, _ = service.ListBooksOfAuthor(ctx, email)
		}()
	}
	wg.Wait()

	assertConsistent(t, service)
}

/*
TestAssociation_Validation rejects malformed keys before any lookup.
*/
func TestAssociation_Validation(t *testing.T) {
	ctx := context.Background()
	service := newService()

	_, err := service.AttachBookToAuthor(ctx, "not-an-email", "Not A Slug")

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeValidation, ae.Code)
	assert.Len(t, ae.Details, 2)
}
