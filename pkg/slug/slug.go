// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates ASCII URL slugs from arbitrary Unicode strings.
//
// # Usage
//
// Slugs are used as human-readable identifiers for books (e.g., "the-great-gatsby").
// This package handles normalization, accent removal, character sanitization and
// collision resolution against an existing set of slugs.
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fallback is the base slug used when a title contains no usable characters.
const Fallback = "untitled"

// nonAlphanumeric matches any run of characters outside [a-z0-9].
var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD (decomposes accented chars: é → e + combining acute).
// 2. Removes combining marks (accents).
// 3. Converts to lowercase.
// 4. Replaces every run of non-alphanumeric characters with a single hyphen.
// 5. Trims leading/trailing hyphens.
//
// The result may be empty; see [Base] for the variant used as a record key.
func From(s string) string {
	// 1. Normalize and remove accents
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}

	// 2. Lowercase
	result = strings.ToLower(result)

	// 3. Collapse everything else into single hyphens
	result = nonAlphanumeric.ReplaceAllString(result, "-")

	return strings.Trim(result, "-")
}

// Base is [From] with a non-empty guarantee: titles made only of punctuation or
// non-Latin script fall back to [Fallback].
func Base(title string) string {
	if s := From(title); s != "" {
		return s
	}
	return Fallback
}

// Unique returns base if taken reports it free, otherwise the first free
// candidate among base-1, base-2, ... in ascending order.
//
// The candidate space is unbounded, so Unique terminates as long as taken
// describes a finite set. It is deterministic for a fixed set.
func Unique(base string, taken func(string) bool) string {
	if !taken(base) {
		return base
	}

	for n := 1; ; n++ {
		candidate := base + "-" + strconv.Itoa(n)
		if !taken(candidate) {
			return candidate
		}
	}
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
