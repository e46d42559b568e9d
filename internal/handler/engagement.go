package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tudduke/ministry-platform/internal/access"
	"github.com/tudduke/ministry-platform/internal/middleware"
	"github.com/tudduke/ministry-platform/internal/moderation"
	"github.com/tudduke/ministry-platform/internal/queue"
	"github.com/tudduke/ministry-platform/internal/repository"
	"github.com/tudduke/ministry-platform/internal/service"
	"github.com/tudduke/ministry-platform/internal/stats"
)

// EngagementHandler serves view counting, sermon likes and kids quiz
// submissions.
type EngagementHandler struct {
	Engagement *repository.EngagementRepo
	Sermons    *repository.SermonRepo
	Resources  *repository.ResourceRepo
	Lessons    *repository.LessonRepo
	Events     *service.Publisher
}

func NewEngagementHandler(e *repository.EngagementRepo, s *repository.SermonRepo, r *repository.ResourceRepo, l *repository.LessonRepo, pub *service.Publisher) *EngagementHandler {
	return &EngagementHandler{Engagement: e, Sermons: s, Resources: r, Lessons: l, Events: pub}
}

// ViewSermon bumps a sermon's view counter. Anonymous viewers count in
// the aggregate; signed-in viewers additionally leave an audit row for
// the per-user statistics.
func (h *EngagementHandler) ViewSermon(c echo.Context) error {
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
	if err := h.Engagement.IncrementView(ctx, moderation.TypeSermon, sermonID); err != nil {
		return writeDomainErr(c, err, "record view failed")
	}
	if id, ok := middleware.CallerIdentity(c); ok {
		_ = h.Engagement.RecordView(ctx, id.ID, "sermon", &sermonID)
	}
	// Re-read after the bump: concurrent viewers may have moved the
	// counter past our own increment, and the stored value is the truth.
	s, err = h.Sermons.GetByID(ctx, sermonID)
	if err != nil {
		return writeDomainErr(c, err, "load sermon failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"view_count": s.ViewCount})
}

// ViewResource bumps a resource's view counter, same shape as ViewSermon.
func (h *EngagementHandler) ViewResource(c echo.Context) error {
	resID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	r, err := h.Resources.GetByID(ctx, resID)
	if err != nil {
		return writeDomainErr(c, err, "load resource failed")
	}
	if r.Status != moderation.StatusApproved {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	if err := h.Engagement.IncrementView(ctx, moderation.TypeResource, resID); err != nil {
		return writeDomainErr(c, err, "record view failed")
	}
	if id, ok := middleware.CallerIdentity(c); ok {
		_ = h.Engagement.RecordView(ctx, id.ID, "resource", &resID)
	}
	r, err = h.Resources.GetByID(ctx, resID)
	if err != nil {
		return writeDomainErr(c, err, "load resource failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"view_count": r.ViewCount})
}

// ViewLesson records a signed-in view of a lesson. Lessons carry no
// aggregate counter; only the per-user audit rows exist, so anonymous
// views are a no-op by design of the kids corner (kids are signed in).
func (h *EngagementHandler) ViewLesson(c echo.Context) error {
	lessonID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Lessons.GetByID(ctx, lessonID); err != nil {
		return writeDomainErr(c, err, "load lesson failed")
	}
	if id, ok := middleware.CallerIdentity(c); ok {
		if err := h.Engagement.RecordView(ctx, id.ID, "lesson", &lessonID); err != nil {
			return writeDomainErr(c, err, "record view failed")
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// LikeSermon toggles the caller's like on an approved sermon and returns
// the resulting state and count.
func (h *EngagementHandler) LikeSermon(c echo.Context) error {
	id, ok := caller(c)
	if !ok {
		return nil
	}
	sermonID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := access.Authorize(id, access.OpLikeSermon); err != nil {
		return writeDomainErr(c, err, "authorization failed")
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

	liked, err := h.Engagement.ToggleLike(ctx, sermonID, id.ID)
	if err != nil {
		return writeDomainErr(c, err, "toggle like failed")
	}
	count, err := h.Engagement.CountLikes(ctx, sermonID)
	if err != nil {
		return writeDomainErr(c, err, "count likes failed")
	}

	h.Events.Emit(queue.EventSermonLiked, queue.SermonLikedEvent{
		SermonID:  sermonID,
		UserID:    id.ID,
		Liked:     liked,
		LikeCount: count,
	})
	return c.JSON(http.StatusOK, echo.Map{"liked": liked, "like_count": count})
}

type quizSubmitReq struct {
	Score int `json:"score"`
	Total int `json:"total"`
}

// SubmitQuiz records a kid's quiz attempt. Attempts are append-only; a
// kid may retake the quiz any number of times.
func (h *EngagementHandler) SubmitQuiz(c echo.Context) error {
	id, ok := caller(c)
	if !ok {
		return nil
	}
	if err := access.Authorize(id, access.OpSubmitQuiz); err != nil {
		return writeDomainErr(c, err, "authorization failed")
	}
	var req quizSubmitReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Total < 1 || req.Score < 0 || req.Score > req.Total {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "score must be within 0..total"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	result, err := h.Engagement.InsertQuizResult(ctx, id.ID, req.Score, req.Total)
	if err != nil {
		return writeDomainErr(c, err, "save quiz result failed")
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":       result.ID,
		"score":    result.Score,
		"total":    result.Total,
		"taken_at": result.TakenAt,
	})
}

// MyQuizAttempts returns the caller's past attempts, newest first.
func (h *EngagementHandler) MyQuizAttempts(c echo.Context) error {
	id, ok := caller(c)
	if !ok {
		return nil
	}
	if err := access.Authorize(id, access.OpSubmitQuiz); err != nil {
		return writeDomainErr(c, err, "authorization failed")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	attempts, err := h.Engagement.QuizAttemptsByKid(ctx, id.ID)
	if err != nil {
		return writeDomainErr(c, err, "list attempts failed")
	}
	out := make([]echo.Map, 0, len(attempts))
	reduced := make([]stats.QuizAttempt, 0, len(attempts))
	for _, a := range attempts {
		out = append(out, echo.Map{
			"id":       a.ID,
			"score":    a.Score,
			"total":    a.Total,
			"taken_at": a.TakenAt,
		})
		reduced = append(reduced, stats.QuizAttempt{Score: a.Score, Total: a.Total})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"attempts": out,
		"summary":  stats.SummarizeQuiz(reduced),
	})
}
