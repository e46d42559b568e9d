package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tudduke/ministry-platform/internal/access"
	"github.com/tudduke/ministry-platform/internal/model"
	"github.com/tudduke/ministry-platform/internal/repository"
)

// KidsHandler is the authoring side of the kids corner: teachers and
// admins create, edit and retire memory verses and quiz questions. The
// public reads live on BrowseHandler; retired rows never appear there.
type KidsHandler struct {
	Kids *repository.KidsRepo
}

func NewKidsHandler(k *repository.KidsRepo) *KidsHandler {
	return &KidsHandler{Kids: k}
}

type verseReq struct {
	Reference string `json:"reference"`
	Text      string `json:"text"`
	DayOfWeek string `json:"day_of_week"` // "Monday".."Sunday" or empty
}

var weekdays = map[string]bool{
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
}

func validateVerseReq(req *verseReq) string {
	req.Reference = strings.TrimSpace(req.Reference)
	req.Text = strings.TrimSpace(req.Text)
	if day := strings.ToLower(strings.TrimSpace(req.DayOfWeek)); day == "" {
		req.DayOfWeek = ""
	} else {
		req.DayOfWeek = strings.ToUpper(day[:1]) + day[1:]
	}
	if req.Reference == "" || req.Text == "" {
		return "reference/text required"
	}
	if req.DayOfWeek != "" && !weekdays[req.DayOfWeek] {
		return "day_of_week must be Monday..Sunday"
	}
	return ""
}

// CreateVerse adds a memory verse, active immediately. Verses skip the
// moderation queue: only trusted roles can reach this operation.
func (h *KidsHandler) CreateVerse(c echo.Context) error {
	id, ok := caller(c)
	if !ok {
		return nil
	}
	if err := access.Authorize(id, access.OpManageVerses); err != nil {
		return writeDomainErr(c, err, "authorization failed")
	}
	var req verseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := validateVerseReq(&req); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	v := model.MemoryVerse{
		Reference: req.Reference,
		Text:      req.Text,
		DayOfWeek: req.DayOfWeek,
		CreatedBy: &id.ID,
	}
	if err := h.Kids.CreateVerse(ctx, &v); err != nil {
		return writeDomainErr(c, err, "create verse failed")
	}
	return c.JSON(http.StatusCreated, renderVerse(v))
}

// UpdateVerse rewrites a verse's text fields.
func (h *KidsHandler) UpdateVerse(c echo.Context) error {
	id, ok := caller(c)
	if !ok {
		return nil
	}
	if err := access.Authorize(id, access.OpManageVerses); err != nil {
		return writeDomainErr(c, err, "authorization failed")
	}
	verseID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req verseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := validateVerseReq(&req); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Kids.UpdateVerse(ctx, verseID, req.Reference, req.Text, req.DayOfWeek); err != nil {
		return writeDomainErr(c, err, "update verse failed")
	}
	v, err := h.Kids.GetVerse(ctx, verseID)
	if err != nil {
		return writeDomainErr(c, err, "load verse failed")
	}
	return c.JSON(http.StatusOK, renderVerse(v))
}

type activeReq struct {
	Active *bool `json:"active"`
}

// SetVerseActive retires or reactivates a verse. Retiring is the delete of
// the kids corner so old daily picks stay resolvable.
func (h *KidsHandler) SetVerseActive(c echo.Context) error {
	id, ok := caller(c)
	if !ok {
		return nil
	}
	if err := access.Authorize(id, access.OpManageVerses); err != nil {
		return writeDomainErr(c, err, "authorization failed")
	}
	verseID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req activeReq
	if err := c.Bind(&req); err != nil || req.Active == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "active required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Kids.SetVerseActive(ctx, verseID, *req.Active); err != nil {
		return writeDomainErr(c, err, "update verse failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"id": verseID, "active": *req.Active})
}

// ListVerses is the authoring list: every verse, retired included.
func (h *KidsHandler) ListVerses(c echo.Context) error {
	id, ok := caller(c)
	if !ok {
		return nil
	}
	if err := access.Authorize(id, access.OpManageVerses); err != nil {
		return writeDomainErr(c, err, "authorization failed")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Kids.ListAllVerses(ctx)
	if err != nil {
		return writeDomainErr(c, err, "list verses failed")
	}
	out := make([]echo.Map, 0, len(list))
	for _, v := range list {
		out = append(out, renderVerse(v))
	}
	return c.JSON(http.StatusOK, echo.Map{"verses": out})
}

func renderVerse(v model.MemoryVerse) echo.Map {
	return echo.Map{
		"id":          v.ID,
		"reference":   v.Reference,
		"text":        v.Text,
		"day_of_week": v.DayOfWeek,
		"created_by":  v.CreatedBy,
		"active":      v.IsActive,
		"created_at":  v.CreatedAt,
	}
}

type quizQuestionReq struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answer_index"`
}

func validateQuestionReq(req *quizQuestionReq) string {
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		return "question required"
	}
	if len(req.Options) < 2 {
		return "at least two options required"
	}
	for i, o := range req.Options {
		req.Options[i] = strings.TrimSpace(o)
		if req.Options[i] == "" {
			return "options must not be empty"
		}
	}
	if req.AnswerIndex < 0 || req.AnswerIndex >= len(req.Options) {
		return "answer_index must point at an option"
	}
	return ""
}

// CreateQuestion adds a quiz question, active immediately.
func (h *KidsHandler) CreateQuestion(c echo.Context) error {
	id, ok := caller(c)
	if !ok {
		return nil
	}
	if err := access.Authorize(id, access.OpManageQuiz); err != nil {
		return writeDomainErr(c, err, "authorization failed")
	}
	var req quizQuestionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := validateQuestionReq(&req); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	q := model.QuizQuestion{
		Question:    req.Question,
		Options:     req.Options,
		AnswerIndex: req.AnswerIndex,
	}
	if err := h.Kids.CreateQuestion(ctx, &q); err != nil {
		return writeDomainErr(c, err, "create question failed")
	}
	return c.JSON(http.StatusCreated, renderQuestion(q))
}

// UpdateQuestion rewrites a question, its options and the answer index.
func (h *KidsHandler) UpdateQuestion(c echo.Context) error {
	id, ok := caller(c)
	if !ok {
		return nil
	}
	if err := access.Authorize(id, access.OpManageQuiz); err != nil {
		return writeDomainErr(c, err, "authorization failed")
	}
	questionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req quizQuestionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := validateQuestionReq(&req); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Kids.UpdateQuestion(ctx, questionID, req.Question, req.Options, req.AnswerIndex); err != nil {
		return writeDomainErr(c, err, "update question failed")
	}
	q, err := h.Kids.GetQuestion(ctx, questionID)
	if err != nil {
		return writeDomainErr(c, err, "load question failed")
	}
	return c.JSON(http.StatusOK, renderQuestion(q))
}

// SetQuestionActive retires or reactivates a quiz question.
func (h *KidsHandler) SetQuestionActive(c echo.Context) error {
	id, ok := caller(c)
	if !ok {
		return nil
	}
	if err := access.Authorize(id, access.OpManageQuiz); err != nil {
		return writeDomainErr(c, err, "authorization failed")
	}
	questionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req activeReq
	if err := c.Bind(&req); err != nil || req.Active == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "active required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Kids.SetQuestionActive(ctx, questionID, *req.Active); err != nil {
		return writeDomainErr(c, err, "update question failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"id": questionID, "active": *req.Active})
}

// ListQuestions is the authoring list: every question, retired included.
func (h *KidsHandler) ListQuestions(c echo.Context) error {
	id, ok := caller(c)
	if !ok {
		return nil
	}
	if err := access.Authorize(id, access.OpManageQuiz); err != nil {
		return writeDomainErr(c, err, "authorization failed")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Kids.ListAllQuestions(ctx)
	if err != nil {
		return writeDomainErr(c, err, "list questions failed")
	}
	out := make([]echo.Map, 0, len(list))
	for _, q := range list {
		out = append(out, renderQuestion(q))
	}
	return c.JSON(http.StatusOK, echo.Map{"questions": out})
}

func renderQuestion(q model.QuizQuestion) echo.Map {
	return echo.Map{
		"id":           q.ID,
		"question":     q.Question,
		"options":      q.Options,
		"answer_index": q.AnswerIndex,
		"active":       q.IsActive,
	}
}
