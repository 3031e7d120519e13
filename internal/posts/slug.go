// Package posts renders narrative blog posts from price records and news
// articles and derives their slugs.
package posts

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// SlugExistsFunc reports whether a slug is already taken. Satisfied by the
// database layer.
type SlugExistsFunc func(ctx context.Context, slug string) (bool, error)

// Slugify reduces a title to a URL-safe slug: lowercased, alphanumeric runs
// joined by single hyphens.
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), "-")
}

// BaseSlug derives the deterministic slug for a title and date.
func BaseSlug(title string, date time.Time) string {
	return Slugify(title) + "-" + date.Format("2006-01-02")
}

// UniqueSlug derives the slug for a title and date, appending a numeric
// suffix when the base slug is already taken. The same title and date always
// produce the same base; collisions get -2, -3, ... rather than overwriting.
func UniqueSlug(ctx context.Context, exists SlugExistsFunc, title string, date time.Time) (string, error) {
	base := BaseSlug(title, date)

	slug := base
	for n := 2; ; n++ {
		taken, err := exists(ctx, slug)
		if err != nil {
			return "", fmt.Errorf("slug check: %w", err)
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, n)
	}
}
