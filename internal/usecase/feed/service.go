package feed

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/systemink/api/domain"
)

const (
	feedItemLimit = 50

	// listings cap limit at MaxLimit per page, so the sitemap has to walk
	// every page to cover the full site
	sitemapPageSize = 100
)

type Service struct {
	postRepo domain.PostRepository
	tagRepo  domain.TagRepository
	userRepo domain.UserRepository

	siteURL   string
	siteTitle string
	siteDesc  string
}

var _ domain.FeedUsecase = (*Service)(nil)

func NewService(postRepo domain.PostRepository, tagRepo domain.TagRepository, userRepo domain.UserRepository, siteURL, siteTitle, siteDesc string) *Service {
	return &Service{
		postRepo:  postRepo,
		tagRepo:   tagRepo,
		userRepo:  userRepo,
		siteURL:   strings.TrimRight(siteURL, "/"),
		siteTitle: siteTitle,
		siteDesc:  siteDesc,
	}
}

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

// cdata wraps text that may carry markup or ampersands.
type cdata struct {
	Value string `xml:",cdata"`
}

type rssItem struct {
	Title       cdata  `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	Description cdata  `xml:"description"`
	Author      string `xml:"author,omitempty"`
	PubDate     string `xml:"pubDate"`
}

func (s *Service) RSS(ctx context.Context) (string, error) {
	posts, err := s.postRepo.FetchRecent(ctx, feedItemLimit)
	if err != nil {
		return "", err
	}

	ch := rssChannel{
		Title:       s.siteTitle,
		Link:        s.siteURL,
		Description: s.siteDesc,
	}
	for _, p := range posts {
		link := fmt.Sprintf("%s/posts/%s", s.siteURL, p.Slug)
		pubDate := p.CreatedAt
		if p.PublishedAt != nil {
			pubDate = *p.PublishedAt
		}
		ch.Items = append(ch.Items, rssItem{
			Title:       cdata{p.Title},
			Link:        link,
			GUID:        link,
			Description: cdata{p.Excerpt},
			Author:      p.Author.Name,
			PubDate:     pubDate.Format(time.RFC1123Z),
		})
	}

	out, err := xml.MarshalIndent(rssFeed{Version: "2.0", Channel: ch}, "", "  ")
	if err != nil {
		return "", err
	}
	return xml.Header + string(out), nil
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (s *Service) Sitemap(ctx context.Context) (string, error) {
	var (
		posts   []domain.Post
		tags    []domain.Tag
		authors []domain.User
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for page := int64(1); ; page++ {
			batch, total, err := s.postRepo.FetchPublished(gctx, domain.PostFilter{Page: page, Limit: sitemapPageSize})
			if err != nil {
				return err
			}
			posts = append(posts, batch...)
			if len(batch) == 0 || int64(len(posts)) >= total {
				return nil
			}
		}
	})
	g.Go(func() (err error) {
		tags, err = s.tagRepo.FetchAll(gctx)
		return err
	})
	g.Go(func() error {
		for page := int64(1); ; page++ {
			batch, total, err := s.userRepo.FetchAuthors(gctx, page, sitemapPageSize)
			if err != nil {
				return err
			}
			authors = append(authors, batch...)
			if len(batch) == 0 || int64(len(authors)) >= total {
				return nil
			}
		}
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	set := urlSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, path := range []string{"", "/posts", "/tags", "/authors"} {
		set.URLs = append(set.URLs, sitemapURL{Loc: s.siteURL + path})
	}
	for _, p := range posts {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:     fmt.Sprintf("%s/posts/%s", s.siteURL, p.Slug),
			LastMod: p.UpdatedAt.Format("2006-01-02"),
		})
	}
	for _, t := range tags {
		set.URLs = append(set.URLs, sitemapURL{Loc: fmt.Sprintf("%s/tags/%s", s.siteURL, t.Slug)})
	}
	for _, a := range authors {
		set.URLs = append(set.URLs, sitemapURL{Loc: fmt.Sprintf("%s/authors/%s", s.siteURL, a.Username)})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return "", err
	}
	return xml.Header + string(out), nil
}

func (s *Service) Robots() string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /api/\n\n")
	fmt.Fprintf(&b, "Sitemap: %s/sitemap.xml\n", s.siteURL)
	return b.String()
}
