package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tudduke/ministry-platform/internal/access"
	"github.com/tudduke/ministry-platform/internal/model"
	"github.com/tudduke/ministry-platform/internal/moderation"
	"github.com/tudduke/ministry-platform/internal/queue"
	"github.com/tudduke/ministry-platform/internal/repository"
	"github.com/tudduke/ministry-platform/internal/service"
)

// SermonHandler serves the authenticated sermon CRUD. Public reads live in
// BrowseHandler.
type SermonHandler struct {
	Sermons     *repository.SermonRepo
	Events      *service.Publisher
	AutoApprove bool
}

func NewSermonHandler(s *repository.SermonRepo, pub *service.Publisher, autoApprove bool) *SermonHandler {
	return &SermonHandler{Sermons: s, Events: pub, AutoApprove: autoApprove}
}

type sermonReq struct {
	Title     string `json:"title"`
	Scripture string `json:"scripture"`
	Body      string `json:"body"`
}

type sermonView struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	Scripture string    `json:"scripture"`
	Body      string    `json:"body"`
	OwnerID   uint64    `json:"owner_id"`
	Status    string    `json:"status"`
	ViewCount uint64    `json:"view_count"`
	CreatedAt time.Time `json:"created_at"`
}

func renderSermon(s model.Sermon) sermonView {
	return sermonView{
		ID:        s.ID,
		Title:     s.Title,
		Scripture: s.Scripture,
		Body:      s.Body,
		OwnerID:   s.OwnerID,
		Status:    string(s.Status),
		ViewCount: s.ViewCount,
		CreatedAt: s.CreatedAt,
	}
}

func renderSermons(list []model.Sermon) []sermonView {
	out := make([]sermonView, 0, len(list))
	for _, s := range list {
		out = append(out, renderSermon(s))
	}
	return out
}

// Create stores a new sermon owned by the caller. Non-admin submissions
// enter the review queue as pending.
func (h *SermonHandler) Create(c echo.Context) error {
	id, ok := caller(c)
	if !ok {
		return nil
	}
	var req sermonReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || strings.TrimSpace(req.Body) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/body required"})
	}
	if err := access.Authorize(id, access.OpCreateSermon); err != nil {
		return writeDomainErr(c, err, "authorization failed")
	}

	s := model.Sermon{
		Title:     req.Title,
		Scripture: strings.TrimSpace(req.Scripture),
		Body:      req.Body,
		OwnerID:   id.ID,
		Status:    moderation.InitialStatus(id.Role, h.AutoApprove),
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Sermons.Create(ctx, &s); err != nil {
		return writeDomainErr(c, err, "create sermon failed")
	}

	h.Events.Emit(queue.EventContentCreated, queue.ContentCreatedEvent{
		ContentType: string(moderation.TypeSermon),
		ContentID:   s.ID,
		OwnerID:     s.OwnerID,
		Title:       s.Title,
		Status:      string(s.Status),
	})
	return c.JSON(http.StatusCreated, renderSermon(s))
}

// Update edits a sermon's text. Only the owner may edit; admins moderate
// but do not rewrite other people's sermons. Edits do not reset the
// moderation status.
func (h *SermonHandler) Update(c echo.Context) error {
	id, ok := caller(c)
	if !ok {
		return nil
	}
	sermonID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req sermonReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || strings.TrimSpace(req.Body) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/body required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Sermons.GetByID(ctx, sermonID)
	if err != nil {
		return writeDomainErr(c, err, "load sermon failed")
	}
	if err := access.Authorize(id, access.OpUpdateSermon, s.OwnerID); err != nil {
		return writeDomainErr(c, err, "authorization failed")
	}
	if err := h.Sermons.Update(ctx, sermonID, req.Title, strings.TrimSpace(req.Scripture), req.Body); err != nil {
		return writeDomainErr(c, err, "update sermon failed")
	}

	s.Title, s.Scripture, s.Body = req.Title, strings.TrimSpace(req.Scripture), req.Body
	return c.JSON(http.StatusOK, renderSermon(s))
}

// Delete removes a sermon and, by cascade, its comments and likes.
func (h *SermonHandler) Delete(c echo.Context) error {
	id, ok := caller(c)
	if !ok {
		return nil
	}
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
	if err := access.Authorize(id, access.OpDeleteSermon, s.OwnerID); err != nil {
		return writeDomainErr(c, err, "authorization failed")
	}
	if err := h.Sermons.Delete(ctx, sermonID); err != nil {
		return writeDomainErr(c, err, "delete sermon failed")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMine returns every sermon the caller authored, any status. The route
// requires authentication so an anonymous "mine" can never exist.
func (h *SermonHandler) ListMine(c echo.Context) error {
	id, ok := caller(c)
	if !ok {
		return nil
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Sermons.ListByOwner(ctx, id.ID)
	if err != nil {
		return writeDomainErr(c, err, "list sermons failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"sermons": renderSermons(list)})
}
