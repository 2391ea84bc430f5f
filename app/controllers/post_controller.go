package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/paperwall-app/paperwall/internal/pkg/cache"
	"github.com/paperwall-app/paperwall/internal/pkg/content"
	"github.com/paperwall-app/paperwall/internal/pkg/usercontext"
)

// Rendered documents are cached for the same window the original site used
// for static regeneration.
const postCacheTTL = 30 * time.Minute

var postContent *content.Client

// InitializePostController injects the content API client used by the post
// pages.
func InitializePostController(client *content.Client) {
	postContent = client
}

// cachedPost is the rendered form of a document kept in the cache.
type cachedPost struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	HTML        string `json:"html"`
	PreviewHTML string `json:"preview_html"`
	Excerpt     string `json:"excerpt"`
	PublishedAt string `json:"published_at"`
}

// HandlePostsIndex lists all published posts with excerpts.
func HandlePostsIndex(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	docs, err := postContent.List(ctx)
	if err != nil {
		log.Printf("posts: listing documents failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to fetch posts")
	}

	posts := make([]fiber.Map, 0, len(docs))
	for _, doc := range docs {
		posts = append(posts, fiber.Map{
			"Slug":        doc.Slug,
			"Title":       doc.Title,
			"Excerpt":     content.Excerpt(doc.Content, 160),
			"PublishedAt": formatPublishedAt(doc.PublishedAt),
		})
	}

	return renderPage(c, "posts", fiber.Map{
		"Title": "Posts",
		"Posts": posts,
	})
}

// HandlePostShow renders the full post. Viewers without an active
// subscription are sent to the preview instead.
func HandlePostShow(c *fiber.Ctx) error {
	slug := c.Params("slug")

	if !usercontext.HasActiveSubscription(c) {
		return c.Redirect("/posts/preview/"+slug, fiber.StatusSeeOther)
	}

	post, err := loadPost(slug)
	if errors.Is(err, content.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).SendString("Post not found")
	}
	if err != nil {
		log.Printf("posts: loading %s failed: %v", slug, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to fetch post")
	}

	return renderPage(c, "post", fiber.Map{
		"Title":       post.Title,
		"Post":        post,
		"ContentHTML": template.HTML(post.HTML),
	})
}

// HandlePostPreview renders the truncated preview. Viewers with an active
// subscription are sent straight to the full post.
func HandlePostPreview(c *fiber.Ctx) error {
	slug := c.Params("slug")

	if usercontext.HasActiveSubscription(c) {
		return c.Redirect("/posts/"+slug, fiber.StatusSeeOther)
	}

	post, err := loadPost(slug)
	if errors.Is(err, content.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).SendString("Post not found")
	}
	if err != nil {
		log.Printf("posts: loading preview %s failed: %v", slug, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to fetch post")
	}

	return renderPage(c, "preview", fiber.Map{
		"Title":       post.Title,
		"Post":        post,
		"ContentHTML": template.HTML(post.PreviewHTML),
	})
}

// loadPost fetches a document by slug, serving the rendered form from the
// cache when present.
func loadPost(slug string) (*cachedPost, error) {
	cacheKey := "content:post:" + slug
	if raw, err := cache.Get(cacheKey); err == nil && raw != "" {
		var post cachedPost
		if err := json.Unmarshal([]byte(raw), &post); err == nil {
			return &post, nil
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	doc, err := postContent.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	post := &cachedPost{
		Slug:        doc.Slug,
		Title:       doc.Title,
		HTML:        content.AsHTML(doc.Content),
		PreviewHTML: content.AsHTML(content.FirstBlocks(doc.Content, 2)),
		Excerpt:     content.Excerpt(doc.Content, 160),
		PublishedAt: formatPublishedAt(doc.PublishedAt),
	}

	if encoded, err := json.Marshal(post); err == nil {
		if err := cache.Set(cacheKey, string(encoded), postCacheTTL); err != nil {
			log.Printf("posts: caching %s failed: %v", slug, err)
		}
	}
	return post, nil
}
