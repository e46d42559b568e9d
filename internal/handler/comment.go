package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tudduke/ministry-platform/internal/access"
	"github.com/tudduke/ministry-platform/internal/model"
	"github.com/tudduke/ministry-platform/internal/moderation"
	"github.com/tudduke/ministry-platform/internal/repository"
)

// CommentHandler serves sermon comments. Creation requires any signed-in
// account; reading is public but only against approved sermons.
type CommentHandler struct {
	Comments *repository.CommentRepo
	Sermons  *repository.SermonRepo
}

func NewCommentHandler(c *repository.CommentRepo, s *repository.SermonRepo) *CommentHandler {
	return &CommentHandler{Comments: c, Sermons: s}
}

type commentReq struct {
	Body string `json:"body"`
}

type commentView struct {
	ID         uint64    `json:"id"`
	SermonID   uint64    `json:"sermon_id"`
	AuthorID   uint64    `json:"author_id"`
	AuthorName string    `json:"author_name,omitempty"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// Create appends a comment under an approved sermon.
func (h *CommentHandler) Create(c echo.Context) error {
	id, ok := caller(c)
	if !ok {
		return nil
	}
	sermonID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req commentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Body = strings.TrimSpace(req.Body)
	if req.Body == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "body required"})
	}
	if err := access.Authorize(id, access.OpCreateComment); err != nil {
		return writeDomainErr(c, err, "authorization failed")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Sermons.GetByID(ctx, sermonID)
	if err != nil {
		return writeDomainErr(c, err, "load sermon failed")
	}
	// Unapproved sermons are invisible to everyone but their owner, so
	// commenting on one reads as not found.
	if s.Status != moderation.StatusApproved {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}

	cm := model.Comment{SermonID: sermonID, AuthorID: id.ID, Body: req.Body}
	if err := h.Comments.Create(ctx, &cm); err != nil {
		return writeDomainErr(c, err, "create comment failed")
	}
	return c.JSON(http.StatusCreated, commentView{
		ID:        cm.ID,
		SermonID:  cm.SermonID,
		AuthorID:  cm.AuthorID,
		Body:      cm.Body,
		CreatedAt: time.Now().UTC(),
	})
}

// ListBySermon returns an approved sermon's comments, oldest first.
func (h *CommentHandler) ListBySermon(c echo.Context) error {
	sermonID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Sermons.GetByID(ctx, sermonID)
	if err != nil {
		return writeDomainErr(c, err, "load sermon failed")
	}
	if s.Status != moderation.StatusApproved {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}

	list, err := h.Comments.ListBySermon(ctx, sermonID)
	if err != nil {
		return writeDomainErr(c, err, "list comments failed")
	}
	out := make([]commentView, 0, len(list))
	for _, cm := range list {
		out = append(out, commentView{
			ID:         cm.ID,
			SermonID:   cm.SermonID,
			AuthorID:   cm.AuthorID,
			AuthorName: cm.AuthorName,
			Body:       cm.Body,
			CreatedAt:  cm.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"comments": out})
}
