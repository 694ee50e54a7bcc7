package domain

import "context"

// FeedUsecase renders the syndication surfaces of the site.
type FeedUsecase interface {
	// RSS renders the RSS 2.0 feed of the newest published posts.
	RSS(ctx context.Context) (string, error)

	// Sitemap renders the sitemap covering static pages, posts, tags and
	// author profiles.
	Sitemap(ctx context.Context) (string, error)

	// Robots renders robots.txt pointing at the sitemap.
	Robots() string
}
