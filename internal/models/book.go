// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package models

import "time"

// Book is a catalog record as served to clients.
//
// Example:
//
//	{
//	  "book_id": 1,
//	  "title": "The Hunger Games (The Hunger Games, #1)",
//	  "original_title": "The Hunger Games",
//	  "authors": "Suzanne Collins",
//	  "year": 2008,
//	  "rating": 4.34,
//	  "ratings_count": 4780653,
//	  "image_url": "https://images.gr-assets.com/books/1447303603m/2767052.jpg"
//	}
type Book struct {
	BookID        int64   `json:"book_id" msgpack:"book_id"`
	Title         string  `json:"title" msgpack:"title"`
	OriginalTitle string  `json:"original_title" msgpack:"original_title"`
	Authors       string  `json:"authors" msgpack:"authors"`
	Year          int     `json:"year" msgpack:"year"`
	Rating        float64 `json:"rating" msgpack:"rating"`
	RatingsCount  int64   `json:"ratings_count" msgpack:"ratings_count"`
	ImageURL      string  `json:"image_url" msgpack:"image_url"`
}

// RecommendationResult is the response of GET /recommend/{book_id}.
// Recommendations are ordered most similar first and never include BookID.
type RecommendationResult struct {
	BookID          int64  `json:"book_id"`
	Recommendations []Book `json:"recommendations"`
}

// CatalogBook is a Book as persisted in the relational catalog.
// Timestamps serialize as RFC 3339.
type CatalogBook struct {
	Book
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookInput is the body of POST /books and PUT /books/{book_id}.
// BookID is ignored on PUT; the path parameter wins.
type BookInput struct {
	BookID        int64   `json:"book_id" validate:"omitempty,gt=0"`
	Title         string  `json:"title" validate:"required,nonblank,max=512"`
	OriginalTitle string  `json:"original_title" validate:"max=512"`
	Authors       string  `json:"authors" validate:"required,nonblank,max=1024"`
	Year          int     `json:"year" validate:"gte=-3000,lte=2100"`
	Rating        float64 `json:"rating" validate:"gte=0,lte=5"`
	RatingsCount  int64   `json:"ratings_count" validate:"gte=0"`
	ImageURL      string  `json:"image_url" validate:"omitempty,url,max=2048"`
}

// ToBook converts validated input into a Book with the given id.
func (in *BookInput) ToBook(id int64) Book {
	return Book{
		BookID:        id,
		Title:         in.Title,
		OriginalTitle: in.OriginalTitle,
		Authors:       in.Authors,
		Year:          in.Year,
		Rating:        in.Rating,
		RatingsCount:  in.RatingsCount,
		ImageURL:      in.ImageURL,
	}
}
