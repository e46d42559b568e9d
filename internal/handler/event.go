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

// EventHandler serves the authenticated class event CRUD. Events may be
// tied to a class so approval can notify the roster.
type EventHandler struct {
	Repo        *repository.EventRepo
	Classes     *repository.ClassRepo
	Events      *service.Publisher
	AutoApprove bool
}

func NewEventHandler(r *repository.EventRepo, classes *repository.ClassRepo, pub *service.Publisher, autoApprove bool) *EventHandler {
	return &EventHandler{Repo: r, Classes: classes, Events: pub, AutoApprove: autoApprove}
}

type eventReq struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"event_date"`
	ClassID     *uint64   `json:"class_id"`
}

type eventView struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"event_date"`
	ClassID     *uint64   `json:"class_id,omitempty"`
	OwnerID     uint64    `json:"owner_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func renderEvent(e model.ClassEvent) eventView {
	return eventView{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		EventDate:   e.EventDate,
		ClassID:     e.ClassID,
		OwnerID:     e.OwnerID,
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt,
	}
}

func renderEvents(list []model.ClassEvent) []eventView {
	out := make([]eventView, 0, len(list))
	for _, e := range list {
		out = append(out, renderEvent(e))
	}
	return out
}

// validateEventReq trims and checks the shared create/update fields.
func validateEventReq(req *eventReq) string {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if req.Title == "" {
		return "title required"
	}
	if req.EventDate.IsZero() {
		return "event_date required"
	}
	return ""
}

// Create schedules a new event owned by the caller, pending approval
// unless admin-authored with auto-approve on. When an admin-authored event
// lands approved directly, the roster notification fires immediately.
func (h *EventHandler) Create(c echo.Context) error {
	id, ok := caller(c)
	if !ok {
		return nil
	}
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := validateEventReq(&req); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if err := access.Authorize(id, access.OpCreateEvent); err != nil {
		return writeDomainErr(c, err, "authorization failed")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if req.ClassID != nil {
		if _, err := h.Classes.GetByID(ctx, *req.ClassID); err != nil {
			return writeDomainErr(c, err, "load class failed")
		}
	}

	e := model.ClassEvent{
		Title:       req.Title,
		Description: req.Description,
		EventDate:   req.EventDate,
		ClassID:     req.ClassID,
		OwnerID:     id.ID,
		Status:      moderation.InitialStatus(id.Role, h.AutoApprove),
	}
	if err := h.Repo.Create(ctx, &e); err != nil {
		return writeDomainErr(c, err, "create event failed")
	}

	h.Events.Emit(queue.EventContentCreated, queue.ContentCreatedEvent{
		ContentType: string(moderation.TypeEvent),
		ContentID:   e.ID,
		OwnerID:     e.OwnerID,
		Title:       e.Title,
		Status:      string(e.Status),
	})
	if e.Status == moderation.StatusApproved {
		h.emitScheduled(c, e)
	}
	return c.JSON(http.StatusCreated, renderEvent(e))
}

// emitScheduled snapshots the roster and emits the scheduling event. A
// roster read failure degrades to an empty member list rather than
// blocking the response.
func (h *EventHandler) emitScheduled(c echo.Context, e model.ClassEvent) {
	var members []uint64
	if e.ClassID != nil {
		ctx, cancel := reqCtx(c)
		defer cancel()
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

// Update edits an event. Only the owner may edit.
func (h *EventHandler) Update(c echo.Context) error {
	id, ok := caller(c)
	if !ok {
		return nil
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := validateEventReq(&req); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	e, err := h.Repo.GetByID(ctx, eventID)
	if err != nil {
		return writeDomainErr(c, err, "load event failed")
	}
	if err := access.Authorize(id, access.OpUpdateEvent, e.OwnerID); err != nil {
		return writeDomainErr(c, err, "authorization failed")
	}
	if req.ClassID != nil {
		if _, err := h.Classes.GetByID(ctx, *req.ClassID); err != nil {
			return writeDomainErr(c, err, "load class failed")
		}
	}
	if err := h.Repo.Update(ctx, eventID, req.Title, req.Description, req.EventDate, req.ClassID); err != nil {
		return writeDomainErr(c, err, "update event failed")
	}

	e.Title, e.Description, e.EventDate, e.ClassID = req.Title, req.Description, req.EventDate, req.ClassID
	return c.JSON(http.StatusOK, renderEvent(e))
}

// Delete removes an event.
func (h *EventHandler) Delete(c echo.Context) error {
	id, ok := caller(c)
	if !ok {
		return nil
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	e, err := h.Repo.GetByID(ctx, eventID)
	if err != nil {
		return writeDomainErr(c, err, "load event failed")
	}
	if err := access.Authorize(id, access.OpDeleteEvent, e.OwnerID); err != nil {
		return writeDomainErr(c, err, "authorization failed")
	}
	if err := h.Repo.Delete(ctx, eventID); err != nil {
		return writeDomainErr(c, err, "delete event failed")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMine returns the caller's events in any status.
func (h *EventHandler) ListMine(c echo.Context) error {
	id, ok := caller(c)
	if !ok {
		return nil
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Repo.ListByOwner(ctx, id.ID)
	if err != nil {
		return writeDomainErr(c, err, "list events failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"events": renderEvents(list)})
}
