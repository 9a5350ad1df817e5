package controllers

import (
	"encoding/xml"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/thejzagency/swfldines/app/repository"
	"github.com/thejzagency/swfldines/internal/pkg/env"
)

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// HandleSitemap renders sitemap.xml with the active listings and published posts
func HandleSitemap(c *fiber.Ctx) error {
	base := env.GetEnv("PUBLIC_DOMAIN", "http://localhost:3000")
	repos := repository.GetGlobalFactory()

	urlset := sitemapURLSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []sitemapURL{
			{Loc: base + "/"},
			{Loc: base + "/restaurants"},
			{Loc: base + "/blog"},
		},
	}

	restaurants, err := repos.GetRestaurantRepository().ListActive()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to build sitemap")
	}
	for _, r := range restaurants {
		urlset.URLs = append(urlset.URLs, sitemapURL{
			Loc:     base + "/restaurants/" + r.UUID,
			LastMod: r.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}

	posts, err := repos.GetBlogRepository().GetPublished(0, 500)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to build sitemap")
	}
	for _, p := range posts {
		urlset.URLs = append(urlset.URLs, sitemapURL{
			Loc:     base + "/blog/" + p.Slug,
			LastMod: p.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}

	out, err := xml.MarshalIndent(urlset, "", "  ")
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to build sitemap")
	}

	c.Set(fiber.HeaderContentType, "application/xml; charset=utf-8")
	return c.SendString(xml.Header + string(out))
}
