package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tudduke/ministry-platform/internal/model"
	"github.com/tudduke/ministry-platform/internal/moderation"
	"github.com/tudduke/ministry-platform/internal/repository"
)

// BrowseHandler serves the public, unauthenticated reads. Everything here
// returns approved content only; pending and rejected items do not exist
// as far as these routes are concerned.
type BrowseHandler struct {
	Sermons   *repository.SermonRepo
	Resources *repository.ResourceRepo
	Events    *repository.EventRepo
	Lessons   *repository.LessonRepo
	Kids      *repository.KidsRepo
}

func NewBrowseHandler(s *repository.SermonRepo, r *repository.ResourceRepo, e *repository.EventRepo, l *repository.LessonRepo, k *repository.KidsRepo) *BrowseHandler {
	return &BrowseHandler{Sermons: s, Resources: r, Events: e, Lessons: l, Kids: k}
}

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// ListSermons returns approved sermons, newest first.
func (h *BrowseHandler) ListSermons(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Sermons.ListApproved(ctx, queryLimit(c, defaultListLimit, maxListLimit))
	if err != nil {
		return writeDomainErr(c, err, "list sermons failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"sermons": renderSermons(list)})
}

// GetSermon returns one approved sermon. Pending and rejected sermons
// answer 404 so their existence is not observable from the outside.
func (h *BrowseHandler) GetSermon(c echo.Context) error {
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
	return c.JSON(http.StatusOK, renderSermon(s))
}

// ListResources returns an approved shelf. The audience query parameter
// picks the shelf and is required; there is no combined listing.
func (h *BrowseHandler) ListResources(c echo.Context) error {
	var audience model.ResourceAudience
	switch strings.ToLower(strings.TrimSpace(c.QueryParam("audience"))) {
	case "teacher":
		audience = model.AudienceTeacher
	case "preacher":
		audience = model.AudiencePreacher
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "audience must be teacher or preacher"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Resources.ListApproved(ctx, audience, queryLimit(c, defaultListLimit, maxListLimit))
	if err != nil {
		return writeDomainErr(c, err, "list resources failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"resources": renderResources(list)})
}

// ListEvents returns approved events that have not yet happened, soonest
// first.
func (h *BrowseHandler) ListEvents(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Events.ListApprovedUpcoming(ctx, time.Now().UTC(), queryLimit(c, defaultListLimit, maxListLimit))
	if err != nil {
		return writeDomainErr(c, err, "list events failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"events": renderEvents(list)})
}

// ListLessons returns every weekly lesson; lessons are unmoderated and
// public by construction.
func (h *BrowseHandler) ListLessons(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Lessons.List(ctx)
	if err != nil {
		return writeDomainErr(c, err, "list lessons failed")
	}
	out := make([]lessonView, 0, len(list))
	for _, l := range list {
		out = append(out, renderLesson(l))
	}
	return c.JSON(http.StatusOK, echo.Map{"lessons": out})
}

type verseView struct {
	ID        uint64 `json:"id"`
	Reference string `json:"reference"`
	Text      string `json:"text"`
	DayOfWeek string `json:"day_of_week"`
}

// DailyVerse returns today's memory verse: the verse assigned to the
// current weekday, or a random active one when no assignment exists.
func (h *BrowseHandler) DailyVerse(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	v, err := h.Kids.DailyVerse(ctx, time.Now().UTC().Weekday().String())
	if err != nil {
		return writeDomainErr(c, err, "load verse failed")
	}
	return c.JSON(http.StatusOK, verseView{ID: v.ID, Reference: v.Reference, Text: v.Text, DayOfWeek: v.DayOfWeek})
}

// ListVerses returns all active memory verses.
func (h *BrowseHandler) ListVerses(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Kids.ListActiveVerses(ctx)
	if err != nil {
		return writeDomainErr(c, err, "list verses failed")
	}
	out := make([]verseView, 0, len(list))
	for _, v := range list {
		out = append(out, verseView{ID: v.ID, Reference: v.Reference, Text: v.Text, DayOfWeek: v.DayOfWeek})
	}
	return c.JSON(http.StatusOK, echo.Map{"verses": out})
}

type quizQuestionView struct {
	ID          uint64   `json:"id"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answer_index"`
}

// ListQuizQuestions returns the active quiz. The client grades locally and
// submits a score, so the answer index ships with the question.
func (h *BrowseHandler) ListQuizQuestions(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Kids.ListActiveQuestions(ctx)
	if err != nil {
		return writeDomainErr(c, err, "list questions failed")
	}
	out := make([]quizQuestionView, 0, len(list))
	for _, q := range list {
		out = append(out, quizQuestionView{ID: q.ID, Question: q.Question, Options: q.Options, AnswerIndex: q.AnswerIndex})
	}
	return c.JSON(http.StatusOK, echo.Map{"questions": out})
}
