package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/thejzagency/swfldines/app/models"
	"github.com/thejzagency/swfldines/app/repository"
	"github.com/thejzagency/swfldines/internal/pkg/usercontext"
	"github.com/thejzagency/swfldines/internal/pkg/utils"
)

type blogPostRequest struct {
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Excerpt   string `json:"excerpt"`
	Content   string `json:"content"`
	Published bool   `json:"published"`
}

// HandleListBlogPosts returns published posts, newest first
func HandleListBlogPosts(c *fiber.Ctx) error {
	offset, limit := parsePagination(c, 10, 50)
	posts, err := repository.GetGlobalFactory().GetBlogRepository().GetPublished(offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load posts")
	}
	return c.JSON(fiber.Map{"posts": posts, "offset": offset, "limit": limit})
}

// HandleGetBlogPost returns one post by slug. Drafts are only visible to admins.
func HandleGetBlogPost(c *fiber.Ctx) error {
	post, err := repository.GetGlobalFactory().GetBlogRepository().GetBySlug(c.Params("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Post not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load post")
	}
	if !post.Published && !usercontext.IsAdmin(c) {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Post not found")
	}
	return c.JSON(post)
}

// HandleAdminCreateBlogPost creates a post. A missing slug is derived from
// the title.
func HandleAdminCreateBlogPost(c *fiber.Ctx) error {
	var req blogPostRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if strings.TrimSpace(req.Title) == "" {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", "Title is required")
	}

	slug := req.Slug
	if slug == "" {
		slug = utils.Slugify(req.Title)
	}

	blog := repository.GetGlobalFactory().GetBlogRepository()
	if exists, err := blog.SlugExists(slug); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to check slug")
	} else if exists {
		return jsonError(c, fiber.StatusConflict, "conflict", "A post with this slug already exists")
	}

	post := &models.BlogPost{
		Slug:      slug,
		Title:     req.Title,
		Excerpt:   req.Excerpt,
		Content:   req.Content,
		AuthorID:  usercontext.GetUserID(c),
		Published: req.Published,
	}
	if req.Published {
		now := time.Now()
		post.PublishedAt = &now
	}
	if err := blog.Create(post); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create post")
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// HandleAdminUpdateBlogPost updates a post by slug
func HandleAdminUpdateBlogPost(c *fiber.Ctx) error {
	blog := repository.GetGlobalFactory().GetBlogRepository()
	post, err := blog.GetBySlug(c.Params("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Post not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load post")
	}

	var req blogPostRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	if req.Title != "" {
		post.Title = req.Title
	}
	if req.Excerpt != "" {
		post.Excerpt = req.Excerpt
	}
	if req.Content != "" {
		post.Content = req.Content
	}
	if req.Published && !post.Published {
		now := time.Now()
		post.PublishedAt = &now
	}
	post.Published = req.Published

	if err := blog.Update(post); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save post")
	}
	return c.JSON(post)
}

// HandleAdminDeleteBlogPost soft deletes a post by slug
func HandleAdminDeleteBlogPost(c *fiber.Ctx) error {
	blog := repository.GetGlobalFactory().GetBlogRepository()
	post, err := blog.GetBySlug(c.Params("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Post not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load post")
	}
	if err := blog.Delete(post.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete post")
	}
	return c.JSON(fiber.Map{"ok": true})
}
