// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"context"
	"log/slog"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/validate"
	"github.com/taibuivan/bookshelf/pkg/uuid"
)

const minNameLen = 3

// # Author Lookups

// ListAuthors returns every author in insertion order.
func (service *Service) ListAuthors(context context.Context) ([]*Author, error) {
	service.mu.RLock()
	defer service.mu.RUnlock()

	return cloneAuthors(service.repo.ListAuthors()), nil
}

// GetAuthor returns the author with the given email or NotFound.
func (service *Service) GetAuthor(context context.Context, email string) (*Author, error) {
	service.mu.RLock()
	defer service.mu.RUnlock()

	author, err := service.repo.FindAuthorByEmail(email)
	if err != nil {
		return nil, err
	}
	return author.clone(), nil
}

// # Author Management

/*
CreateAuthor registers a new author with an empty book list.

Parameters:
  - context: context.Context
  - input: AuthorInput

Returns:
  - *Author: The stored record
  - error: Validation failure, or Conflict if the email is taken
*/
func (service *Service) CreateAuthor(context context.Context, input AuthorInput) (*Author, error) {
	if err := validateAuthorInput(input); err != nil {
		return nil, err
	}

	service.mu.Lock()
	defer service.mu.Unlock()

	author := &Author{
		ID:        uuid.New(),
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		ImageURL:  input.ImageURL,
		Books:     []string{},
	}

	if err := service.repo.CreateAuthor(author); err != nil {
		return nil, err
	}

	service.log(context).Info("author_created", slog.String("email", author.Email), slog.String("author_id", author.ID))
	return author.clone(), nil
}

/*
UpdateAuthor applies a partial update.

Description: A new email re-keys the author and rewrites the reference in
every book that lists it. The email is checked for availability before
anything is modified.

Returns:
  - *Author: The updated record
  - error: Validation failure, NotFound, or Conflict on a taken email
*/
func (service *Service) UpdateAuthor(context context.Context, email string, patch AuthorPatch) (*Author, error) {
	if err := validateAuthorPatch(patch); err != nil {
		return nil, err
	}

	service.mu.Lock()
	defer service.mu.Unlock()

	if _, err := service.repo.FindAuthorByEmail(email); err != nil {
		return nil, err
	}

	key := email
	if patch.Email != nil && *patch.Email != email {
		if err := service.renameAuthorEmail(email, *patch.Email); err != nil {
			return nil, err
		}
		key = *patch.Email

		service.log(context).Info("author_email_changed", slog.String("from", email), slog.String("to", key))
	}

	author, err := service.repo.UpdateAuthorFields(key, patch)
	if err != nil {
		return nil, err
	}

	service.log(context).Info("author_updated", slog.String("email", key))
	return author.clone(), nil
}

/*
DeleteAuthor removes an author that has no books.

Description: There is no cascade on this side. An author still listed on
any book is rejected with Conflict; callers detach the books first.

Returns:
  - *Author: The removed record
  - error: NotFound, or Conflict while books remain
*/
func (service *Service) DeleteAuthor(context context.Context, email string) (*Author, error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	author, err := service.repo.FindAuthorByEmail(email)
	if err != nil {
		return nil, err
	}

	if len(author.Books) > 0 {
		return nil, apperr.Conflict("Cannot delete author. Author is associated with books and must be removed from all books first.")
	}

	removed := author.clone()
	if err := service.repo.DeleteAuthor(email); err != nil {
		return nil, err
	}

	service.log(context).Warn("author_deleted", slog.String("email", email), slog.String("author_id", removed.ID))
	return removed, nil
}

// # Re-keying

// renameAuthorEmail moves an author to newEmail and rewrites the reference in
// every book, keeping its position. The caller holds the write lock.
func (service *Service) renameAuthorEmail(oldEmail, newEmail string) error {
	if oldEmail == newEmail {
		return nil
	}

	// RekeyAuthor rejects a taken email before changing anything.
	if err := service.repo.RekeyAuthor(oldEmail, newEmail); err != nil {
		return err
	}

	for _, book := range service.repo.ListBooks() {
		replaceRef(book.Authors, oldEmail, newEmail)
	}
	return nil
}

// # Validation

func validateAuthorInput(input AuthorInput) error {
	validator := &validate.Validator{}

	validator.Required(FieldFirstName, input.FirstName).MinLen(FieldFirstName, input.FirstName, minNameLen)
	validator.Required(FieldLastName, input.LastName).MinLen(FieldLastName, input.LastName, minNameLen)
	validator.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)

	if input.ImageURL != "" {
		validator.URL(FieldImageURL, input.ImageURL)
	}

	return validator.Err()
}

func validateAuthorPatch(patch AuthorPatch) error {
	validator := &validate.Validator{}

	if patch.FirstName != nil {
		validator.Required(FieldFirstName, *patch.FirstName).MinLen(FieldFirstName, *patch.FirstName, minNameLen)
	}
	if patch.LastName != nil {
		validator.Required(FieldLastName, *patch.LastName).MinLen(FieldLastName, *patch.LastName, minNameLen)
	}
	if patch.Email != nil {
		validator.Email(FieldEmail, *patch.Email)
	}
	if patch.ImageURL != nil && *patch.ImageURL != "" {
		validator.URL(FieldImageURL, *patch.ImageURL)
	}

	return validator.Err()
}

// replaceRef rewrites every occurrence of from to to, in place.
func replaceRef(refs []string, from, to string) {
	for i, ref := range refs {
		if ref == from {
			refs[i] = to
		}
	}
}
