// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"net/http"

	requestutil "github.com/taibuivan/bookshelf/internal/platform/request"
	"github.com/taibuivan/bookshelf/internal/platform/respond"
)

func (handler *Handler) listAuthors(writer http.ResponseWriter, request *http.Request) {
	authors, err := handler.service.ListAuthors(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, authors)
}

func (handler *Handler) getAuthor(writer http.ResponseWriter, request *http.Request) {
	author, err := handler.service.GetAuthor(request.Context(), requestutil.Param(request, paramEmail))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, author)
}

func (handler *Handler) createAuthor(writer http.ResponseWriter, request *http.Request) {
	var input AuthorInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	author, err := handler.service.CreateAuthor(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, author)
}

func (handler *Handler) updateAuthor(writer http.ResponseWriter, request *http.Request) {
	var patch AuthorPatch
	if err := requestutil.DecodeJSON(request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	author, err := handler.service.UpdateAuthor(request.Context(), requestutil.Param(request, paramEmail), patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, author)
}

func (handler *Handler) deleteAuthor(writer http.ResponseWriter, request *http.Request) {
	author, err := handler.service.DeleteAuthor(request.Context(), requestutil.Param(request, paramEmail))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, author)
}

// # Relationship Endpoints

type attachBookRequest struct {
	BookSlug string `json:"bookSlug"`
}

func (handler *Handler) listBooksOfAuthor(writer http.ResponseWriter, request *http.Request) {
	books, err := handler.service.ListBooksOfAuthor(request.Context(), requestutil.Param(request, paramEmail))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, books)
}

func (handler *Handler) attachBookToAuthor(writer http.ResponseWriter, request *http.Request) {
	var body attachBookRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	association, err := handler.service.AttachBookToAuthor(request.Context(), requestutil.Param(request, paramEmail), body.BookSlug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, association)
}

// detachBookFromAuthor serves both DELETE /authors/{email}/books/{slug} and
// DELETE /books/{slug}/authors/{email}.
func (handler *Handler) detachBookFromAuthor(writer http.ResponseWriter, request *http.Request) {
	association, err := handler.service.DetachBookFromAuthor(request.Context(),
		requestutil.Param(request, paramEmail),
		requestutil.Param(request, paramSlug),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, association)
}
