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

// ResourceHandler serves the authenticated resource CRUD. Resources are
// shelved by audience: teachers upload to the teacher shelf, preachers to
// the preacher shelf, admins to either.
type ResourceHandler struct {
	Resources   *repository.ResourceRepo
	Events      *service.Publisher
	AutoApprove bool
}

func NewResourceHandler(r *repository.ResourceRepo, pub *service.Publisher, autoApprove bool) *ResourceHandler {
	return &ResourceHandler{Resources: r, Events: pub, AutoApprove: autoApprove}
}

type resourceReq struct {
	Title       string `json:"title"`
	Kind        string `json:"kind"`
	Audience    string `json:"audience"`
	FileKey     string `json:"file_key"`
	Description string `json:"description"`
}

type resourceView struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Kind        string    `json:"kind"`
	Audience    string    `json:"audience"`
	FileKey     string    `json:"file_key"`
	Description string    `json:"description"`
	OwnerID     uint64    `json:"owner_id"`
	Status      string    `json:"status"`
	ViewCount   uint64    `json:"view_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func renderResource(r model.Resource) resourceView {
	return resourceView{
		ID:          r.ID,
		Title:       r.Title,
		Kind:        r.Kind,
		Audience:    string(r.Audience),
		FileKey:     r.FileKey,
		Description: r.Description,
		OwnerID:     r.OwnerID,
		Status:      string(r.Status),
		ViewCount:   r.ViewCount,
		CreatedAt:   r.CreatedAt,
	}
}

func renderResources(list []model.Resource) []resourceView {
	out := make([]resourceView, 0, len(list))
	for _, r := range list {
		out = append(out, renderResource(r))
	}
	return out
}

// resourceAudienceFor resolves the shelf a caller may upload to. Teachers
// and preachers are pinned to their own shelf regardless of the request;
// admins choose via the audience field.
func resourceAudienceFor(id access.Identity, requested string) (model.ResourceAudience, bool) {
	switch id.Role {
	case access.RoleTeacher:
		return model.AudienceTeacher, true
	case access.RolePreacher:
		return model.AudiencePreacher, true
	case access.RoleAdmin:
		switch strings.ToLower(strings.TrimSpace(requested)) {
		case "teacher":
			return model.AudienceTeacher, true
		case "preacher":
			return model.AudiencePreacher, true
		}
	}
	return "", false
}

// Create registers an uploaded file. The file itself lives in external
// blob storage; only the opaque key is stored here.
func (h *ResourceHandler) Create(c echo.Context) error {
	id, ok := caller(c)
	if !ok {
		return nil
	}
	var req resourceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	req.FileKey = strings.TrimSpace(req.FileKey)
	if req.Title == "" || req.FileKey == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/file_key required"})
	}
	if err := access.Authorize(id, access.OpUploadResource); err != nil {
		return writeDomainErr(c, err, "authorization failed")
	}
	audience, ok := resourceAudienceFor(id, req.Audience)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "audience must be teacher or preacher"})
	}

	res := model.Resource{
		Title:       req.Title,
		Kind:        normalizeKind(req.Kind),
		Audience:    audience,
		FileKey:     req.FileKey,
		Description: strings.TrimSpace(req.Description),
		OwnerID:     id.ID,
		Status:      moderation.InitialStatus(id.Role, h.AutoApprove),
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Resources.Create(ctx, &res); err != nil {
		return writeDomainErr(c, err, "create resource failed")
	}

	h.Events.Emit(queue.EventContentCreated, queue.ContentCreatedEvent{
		ContentType: string(moderation.TypeResource),
		ContentID:   res.ID,
		OwnerID:     res.OwnerID,
		Title:       res.Title,
		Status:      string(res.Status),
	})
	return c.JSON(http.StatusCreated, renderResource(res))
}

func normalizeKind(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "pdf":
		return "pdf"
	case "video":
		return "video"
	case "audio":
		return "audio"
	case "image":
		return "image"
	}
	return "other"
}

// Update edits resource metadata. Audience and owner are fixed at upload.
func (h *ResourceHandler) Update(c echo.Context) error {
	id, ok := caller(c)
	if !ok {
		return nil
	}
	resID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req resourceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	req.FileKey = strings.TrimSpace(req.FileKey)
	if req.Title == "" || req.FileKey == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/file_key required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Resources.GetByID(ctx, resID)
	if err != nil {
		return writeDomainErr(c, err, "load resource failed")
	}
	if err := access.Authorize(id, access.OpUpdateResource, res.OwnerID); err != nil {
		return writeDomainErr(c, err, "authorization failed")
	}
	if err := h.Resources.Update(ctx, resID, req.Title, normalizeKind(req.Kind), req.FileKey, strings.TrimSpace(req.Description)); err != nil {
		return writeDomainErr(c, err, "update resource failed")
	}

	res.Title, res.Kind, res.FileKey, res.Description = req.Title, normalizeKind(req.Kind), req.FileKey, strings.TrimSpace(req.Description)
	return c.JSON(http.StatusOK, renderResource(res))
}

// Delete removes a resource row. Cleaning up the blob itself is handled by
// a storage janitor, not here.
func (h *ResourceHandler) Delete(c echo.Context) error {
	id, ok := caller(c)
	if !ok {
		return nil
	}
	resID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Resources.GetByID(ctx, resID)
	if err != nil {
		return writeDomainErr(c, err, "load resource failed")
	}
	if err := access.Authorize(id, access.OpDeleteResource, res.OwnerID); err != nil {
		return writeDomainErr(c, err, "authorization failed")
	}
	if err := h.Resources.Delete(ctx, resID); err != nil {
		return writeDomainErr(c, err, "delete resource failed")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMine returns the caller's uploads in any status.
func (h *ResourceHandler) ListMine(c echo.Context) error {
	id, ok := caller(c)
	if !ok {
		return nil
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Resources.ListByOwner(ctx, id.ID)
	if err != nil {
		return writeDomainErr(c, err, "list resources failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"resources": renderResources(list)})
}
