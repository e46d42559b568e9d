package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tudduke/ministry-platform/internal/access"
	"github.com/tudduke/ministry-platform/internal/config"
	"github.com/tudduke/ministry-platform/internal/moderation"
	"github.com/tudduke/ministry-platform/internal/queue"
	"github.com/tudduke/ministry-platform/internal/repository"
	"github.com/tudduke/ministry-platform/internal/service"
	"github.com/tudduke/ministry-platform/internal/stats"
)

// AdminHandler serves the admin surface: account verification, the content
// review queue, engagement statistics, and class rosters.
type AdminHandler struct {
	Cfg        config.Config
	Users      *repository.UserRepo
	Sermons    *repository.SermonRepo
	Resources  *repository.ResourceRepo
	EventsRepo *repository.EventRepo
	Classes    *repository.ClassRepo
	Engagement *repository.EngagementRepo
	Moderation *moderation.Engine
	Events     *service.Publisher
}

func NewAdminHandler(cfg config.Config, u *repository.UserRepo, s *repository.SermonRepo, r *repository.ResourceRepo, e *repository.EventRepo, cl *repository.ClassRepo, eng *repository.EngagementRepo, mod *moderation.Engine, pub *service.Publisher) *AdminHandler {
	return &AdminHandler{
		Cfg:        cfg,
		Users:      u,
		Sermons:    s,
		Resources:  r,
		EventsRepo: e,
		Classes:    cl,
		Engagement: eng,
		Moderation: mod,
		Events:     pub,
	}
}

// ListUsers returns accounts, optionally filtered by ?role= and
// ?verified=.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	var roleFilter *access.Role
	if raw := c.QueryParam("role"); raw != "" {
		role, ok := access.ParseRole(raw)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
		}
		roleFilter = &role
	}
	var verifiedFilter *bool
	if raw := c.QueryParam("verified"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "verified must be true or false"})
		}
		verifiedFilter = &v
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.Users.List(ctx, roleFilter, verifiedFilter)
	if err != nil {
		return writeDomainErr(c, err, "list users failed")
	}
	out := make([]userPart, 0, len(users))
	for _, u := range users {
		out = append(out, userPart{ID: u.ID, FullName: u.FullName, Email: u.Email, Role: string(u.Role), Verified: u.IsVerified})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}

// VerifyUser marks a pending teacher or preacher account as verified so
// it can log in.
func (h *AdminHandler) VerifyUser(c echo.Context) error {
	id, ok := caller(c)
	if !ok {
		return nil
	}
	userID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return writeDomainErr(c, err, "load user failed")
	}
	if u.IsVerified {
		return c.JSON(http.StatusOK, echo.Map{"verified": true})
	}
	if err := h.Users.SetVerified(ctx, userID, true); err != nil {
		return writeDomainErr(c, err, "verify user failed")
	}

	h.Events.Emit(queue.EventUserVerified, queue.UserVerifiedEvent{
		UserID:     userID,
		Role:       string(u.Role),
		VerifiedBy: id.ID,
	})
	return c.JSON(http.StatusOK, echo.Map{"verified": true})
}

// ContentQueue returns the review queue grouped by content type. The
// ?status= filter defaults to pending; approved and rejected views exist
// so admins can revisit earlier decisions.
func (h *AdminHandler) ContentQueue(c echo.Context) error {
	status := moderation.StatusPending
	if raw := c.QueryParam("status"); raw != "" {
		parsed, ok := moderation.ParseStatus(raw)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be pending, approved or rejected"})
		}
		status = parsed
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	sermons, err := h.Sermons.ListByStatus(ctx, status)
	if err != nil {
		return writeDomainErr(c, err, "list sermons failed")
	}
	resources, err := h.Resources.ListByStatus(ctx, status)
	if err != nil {
		return writeDomainErr(c, err, "list resources failed")
	}
	events, err := h.EventsRepo.ListByStatus(ctx, status)
	if err != nil {
		return writeDomainErr(c, err, "list events failed")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":    string(status),
		"sermons":   renderSermons(sermons),
		"resources": renderResources(resources),
		"events":    renderEvents(events),
	})
}

type verifyContentReq struct {
	Status string `json:"status"`
}

// VerifyContent applies an approve/reject decision to one content item.
// Approving a class event also notifies its roster.
func (h *AdminHandler) VerifyContent(c echo.Context) error {
	id, ok := caller(c)
	if !ok {
		return nil
	}
	contentType, ok := moderation.ParseContentType(c.Param("type"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content type must be sermon, resource or event"})
	}
	contentID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req verifyContentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	target, ok := moderation.ParseStatus(req.Status)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be approved or rejected"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	change, err := h.Moderation.Verify(ctx, id, contentType, contentID, target)
	if err != nil {
		return writeDomainErr(c, err, "verify content failed")
	}

	h.Events.Emit(queue.EventContentVerified, queue.ContentVerifiedEvent{
		ContentType: string(change.Type),
		ContentID:   change.ID,
		From:        string(change.From),
		To:          string(change.To),
		VerifiedBy:  change.VerifierID,
	})
	if change.Type == moderation.TypeEvent && change.To == moderation.StatusApproved {
		h.notifyRoster(c, change.ID)
	}
	return c.JSON(http.StatusOK, change)
}

// notifyRoster emits the scheduling event for a freshly approved class
// event, snapshotting the roster. Failures here degrade silently; the
// verification itself already succeeded.
func (h *AdminHandler) notifyRoster(c echo.Context, eventID uint64) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	e, err := h.EventsRepo.GetByID(ctx, eventID)
	if err != nil {
		return
	}
	var members []uint64
	if e.ClassID != nil {
		if ids, err := h.Classes.MemberIDs(ctx, *e.ClassID); err == nil {
			members = ids
		}
	}
	h.Events.Emit(queue.EventClassScheduled, queue.ClassScheduledEvent{
		EventID:   e.ID,
		Title:     e.Title,
		EventDate: e.EventDate,
		ClassID:   e.ClassID,
		MemberIDs: members,
	})
}

// Stats returns the engagement dashboard: daily view and quiz histograms
// over a trailing window plus the distinct viewer count. ?days= overrides
// the configured default window.
func (h *AdminHandler) Stats(c echo.Context) error {
	days := h.Cfg.StatsDefaultDays
	if raw := c.QueryParam("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 365 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "days must be within 1..365"})
		}
		days = n
	}

	now := time.Now().UTC()
	since := now.AddDate(0, 0, -days)

	ctx, cancel := reqCtx(c)
	defer cancel()

	viewTimes, err := h.Engagement.ViewTimesSince(ctx, since)
	if err != nil {
		return writeDomainErr(c, err, "load view stats failed")
	}
	quizTimes, err := h.Engagement.QuizTimesSince(ctx, since)
	if err != nil {
		return writeDomainErr(c, err, "load quiz stats failed")
	}
	viewerIDs, err := h.Engagement.ViewerIDsSince(ctx, &since)
	if err != nil {
		return writeDomainErr(c, err, "load viewer ids failed")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"window_days":      days,
		"views_per_day":    stats.DailyBuckets(viewTimes, days, now, time.UTC),
		"quizzes_per_day":  stats.DailyBuckets(quizTimes, days, now, time.UTC),
		"distinct_viewers": stats.DistinctActors(viewerIDs),
	})
}

// ListClasses returns every Sabbath school class with its roster size.
// Teachers see only their own classes through the teacher route; this is
// the admin view.
func (h *AdminHandler) ListClasses(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	classes, err := h.Classes.ListAll(ctx)
	if err != nil {
		return writeDomainErr(c, err, "list classes failed")
	}
	out := make([]echo.Map, 0, len(classes))
	for _, cl := range classes {
		members, err := h.Classes.MemberIDs(ctx, cl.ID)
		if err != nil {
			return writeDomainErr(c, err, "load roster failed")
		}
		out = append(out, echo.Map{
			"id":         cl.ID,
			"name":       cl.Name,
			"age_group":  cl.AgeGroup,
			"teacher_id": cl.TeacherID,
			"members":    len(members),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"classes": out})
}

// MyClasses returns the classes the calling teacher leads, rosters
// included.
func (h *AdminHandler) MyClasses(c echo.Context) error {
	id, ok := caller(c)
	if !ok {
		return nil
	}
	if err := access.Authorize(id, access.OpListClasses); err != nil {
		return writeDomainErr(c, err, "authorization failed")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	classes, err := h.Classes.ListByTeacher(ctx, id.ID)
	if err != nil {
		return writeDomainErr(c, err, "list classes failed")
	}
	out := make([]echo.Map, 0, len(classes))
	for _, cl := range classes {
		members, err := h.Classes.MemberIDs(ctx, cl.ID)
		if err != nil {
			return writeDomainErr(c, err, "load roster failed")
		}
		out = append(out, echo.Map{
			"id":         cl.ID,
			"name":       cl.Name,
			"age_group":  cl.AgeGroup,
			"member_ids": members,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"classes": out})
}
