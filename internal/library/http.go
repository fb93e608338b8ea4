// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"github.com/go-chi/chi/v5"
)

// # Handler Implementation

// Handler implements the HTTP layer for the catalogue.
// It translates web requests into [Service] calls.
type Handler struct {
	service *Service
}

// NewHandler constructs a new catalogue [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// URL parameter names.
const (
	paramEmail = "email"
	paramSlug  = "slug"
)

// Routes returns a [chi.Router] with the author and book endpoints.
//
// The relationship is reachable from both sides: /authors/{email}/books and
// /books/{slug}/authors manage the same association.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Route("/authors", func(authorRoute chi.Router) {
		authorRoute.Get("/", handler.listAuthors)
		authorRoute.Post("/", handler.createAuthor)
		authorRoute.Get("/{email}", handler.getAuthor)
		authorRoute.Patch("/{email}", handler.updateAuthor)
		authorRoute.Delete("/{email}", handler.deleteAuthor)

		authorRoute.Get("/{email}/books", handler.listBooksOfAuthor)
		authorRoute.Post("/{email}/books", handler.attachBookToAuthor)
		authorRoute.Delete("/{email}/books/{slug}", handler.detachBookFromAuthor)
	})

	router.Route("/books", func(bookRoute chi.Router) {
		bookRoute.Get("/", handler.listBooks)
		bookRoute.Post("/", handler.createBook)
		bookRoute.Get("/{slug}", handler.getBook)
		bookRoute.Patch("/{slug}", handler.updateBook)
		bookRoute.Delete("/{slug}", handler.deleteBook)

		bookRoute.Get("/{slug}/authors", handler.listAuthorsOfBook)
		bookRoute.Post("/{slug}/authors", handler.attachAuthorToBook)
		bookRoute.Delete("/{slug}/authors/{email}", handler.detachBookFromAuthor)
	})

	return router
}
