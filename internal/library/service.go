// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package library is the catalogue core: authors, books and the many-to-many
association between them, held in process memory.

Architecture:

  - Repository: primitive storage and natural-key lookup ([MemoryRepository]).
  - Service: the operation contract used by the HTTP layer. It is the only
    writer of Author.Books and Book.Authors, so the association is always
    stored symmetrically on both records.
  - Slugs: book keys are derived from titles by pkg/slug and deduplicated
    with a numeric suffix.

Concurrency:

Every operation runs under one lock held for the whole logical operation.
Writers take it exclusively, readers share it, and records leave the service
as copies.
*/
package library

import (
	"context"
	"log/slog"
	"sync"

	"github.com/taibuivan/bookshelf/internal/platform/ctxutil"
)

// # Service Layer

// Service orchestrates the catalogue: record store, slug generation and the
// author/book relationship.
type Service struct {
	mu     sync.RWMutex
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service] over repo.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Counts returns the size of both collections.
func (service *Service) Counts(context context.Context) (authors, books int) {
	service.mu.RLock()
	defer service.mu.RUnlock()

	return len(service.repo.ListAuthors()), len(service.repo.ListBooks())
}

// log returns the service logger tagged with the caller's request ID.
func (service *Service) log(ctx context.Context) *slog.Logger {
	if requestID := ctxutil.GetRequestID(ctx); requestID != "" {
		return service.logger.With(slog.String("request_id", requestID))
	}
	return service.logger
}

func cloneAuthors(authors []*Author) []*Author {
	result := make([]*Author, 0, len(authors))
	for _, author := range authors {
		result = append(result, author.clone())
	}
	return result
}

func cloneBooks(books []*Book) []*Book {
	result := make([]*Book, 0, len(books))
	for _, book := range books {
		result = append(result, book.clone())
	}
	return result
}
