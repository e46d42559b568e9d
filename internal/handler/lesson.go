package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tudduke/ministry-platform/internal/access"
	"github.com/tudduke/ministry-platform/internal/model"
	"github.com/tudduke/ministry-platform/internal/repository"
)

// LessonHandler serves the weekly kids lesson CRUD. Lessons skip
// moderation and go live on creation; only teachers and admins author
// them, so the role gate is the whole review.
type LessonHandler struct {
	Lessons *repository.LessonRepo
}

func NewLessonHandler(l *repository.LessonRepo) *LessonHandler {
	return &LessonHandler{Lessons: l}
}

type lessonReq struct {
	WeekNumber int    `json:"week_number"`
	Title      string `json:"title"`
	Content    string `json:"content"`
}

type lessonView struct {
	ID         uint64    `json:"id"`
	WeekNumber int       `json:"week_number"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	OwnerID    uint64    `json:"owner_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func renderLesson(l model.Lesson) lessonView {
	return lessonView{
		ID:         l.ID,
		WeekNumber: l.WeekNumber,
		Title:      l.Title,
		Content:    l.Content,
		OwnerID:    l.OwnerID,
		CreatedAt:  l.CreatedAt,
	}
}

func validateLessonReq(req *lessonReq) string {
	req.Title = strings.TrimSpace(req.Title)
	if req.WeekNumber < 1 {
		return "week_number must be positive"
	}
	if req.Title == "" || strings.TrimSpace(req.Content) == "" {
		return "title/content required"
	}
	return ""
}

// Create publishes a new weekly lesson.
func (h *LessonHandler) Create(c echo.Context) error {
	id, ok := caller(c)
	if !ok {
		return nil
	}
	var req lessonReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := validateLessonReq(&req); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if err := access.Authorize(id, access.OpCreateLesson); err != nil {
		return writeDomainErr(c, err, "authorization failed")
	}

	l := model.Lesson{
		WeekNumber: req.WeekNumber,
		Title:      req.Title,
		Content:    req.Content,
		OwnerID:    id.ID,
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Lessons.Create(ctx, &l); err != nil {
		return writeDomainErr(c, err, "create lesson failed")
	}
	return c.JSON(http.StatusCreated, renderLesson(l))
}

// Update edits a lesson. Only the authoring teacher may edit.
func (h *LessonHandler) Update(c echo.Context) error {
	id, ok := caller(c)
	if !ok {
		return nil
	}
	lessonID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req lessonReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := validateLessonReq(&req); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	l, err := h.Lessons.GetByID(ctx, lessonID)
	if err != nil {
		return writeDomainErr(c, err, "load lesson failed")
	}
	if err := access.Authorize(id, access.OpUpdateLesson, l.OwnerID); err != nil {
		return writeDomainErr(c, err, "authorization failed")
	}
	if err := h.Lessons.Update(ctx, lessonID, req.WeekNumber, req.Title, req.Content); err != nil {
		return writeDomainErr(c, err, "update lesson failed")
	}

	l.WeekNumber, l.Title, l.Content = req.WeekNumber, req.Title, req.Content
	return c.JSON(http.StatusOK, renderLesson(l))
}

// Delete removes a lesson.
func (h *LessonHandler) Delete(c echo.Context) error {
	id, ok := caller(c)
	if !ok {
		return nil
	}
	lessonID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	l, err := h.Lessons.GetByID(ctx, lessonID)
	if err != nil {
		return writeDomainErr(c, err, "load lesson failed")
	}
	if err := access.Authorize(id, access.OpDeleteLesson, l.OwnerID); err != nil {
		return writeDomainErr(c, err, "authorization failed")
	}
	if err := h.Lessons.Delete(ctx, lessonID); err != nil {
		return writeDomainErr(c, err, "delete lesson failed")
	}
	return c.NoContent(http.StatusNoContent)
}
