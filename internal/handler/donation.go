package handler

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tudduke/ministry-platform/internal/model"
	"github.com/tudduke/ministry-platform/internal/repository"
)

// DonationHandler serves the public give/contact forms and their
// admin-only listings. No payment processing happens here; donations are
// recorded as pledged and reconciled out of band.
type DonationHandler struct {
	Donations *repository.DonationRepo
}

func NewDonationHandler(d *repository.DonationRepo) *DonationHandler {
	return &DonationHandler{Donations: d}
}

type donationReq struct {
	DonorName string `json:"donor_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Method    string `json:"method"`
	Reference string `json:"reference"`
	Notes     string `json:"notes"`
}

// amountPattern accepts a plain decimal with up to two fraction digits.
var amountPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// CreateDonation records a donation pledge from the public give form.
func (h *DonationHandler) CreateDonation(c echo.Context) error {
	var req donationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.DonorName = strings.TrimSpace(req.DonorName)
	req.Amount = strings.TrimSpace(req.Amount)
	if req.DonorName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "donor_name required"})
	}
	if !amountPattern.MatchString(req.Amount) || strings.Trim(req.Amount, "0.") == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be a positive decimal"})
	}

	d := model.Donation{
		DonorName: req.DonorName,
		Email:     optional(req.Email),
		Phone:     optional(req.Phone),
		Amount:    req.Amount,
		Currency:  strings.ToUpper(strings.TrimSpace(req.Currency)),
		Method:    strings.TrimSpace(req.Method),
		Reference: optional(req.Reference),
		Notes:     optional(req.Notes),
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Donations.CreateDonation(ctx, &d); err != nil {
		return writeDomainErr(c, err, "record donation failed")
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":       d.ID,
		"amount":   d.Amount,
		"currency": d.Currency,
		"status":   d.Status,
	})
}

// ListDonations returns recorded donations, newest first. Admin only.
func (h *DonationHandler) ListDonations(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Donations.ListDonations(ctx, queryLimit(c, defaultListLimit, maxListLimit))
	if err != nil {
		return writeDomainErr(c, err, "list donations failed")
	}
	out := make([]echo.Map, 0, len(list))
	for _, d := range list {
		out = append(out, echo.Map{
			"id":         d.ID,
			"donor_name": d.DonorName,
			"email":      d.Email,
			"phone":      d.Phone,
			"amount":     d.Amount,
			"currency":   d.Currency,
			"method":     d.Method,
			"reference":  d.Reference,
			"notes":      d.Notes,
			"status":     d.Status,
			"created_at": d.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"donations": out})
}

type contactReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type contactView struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateMessage records a message from the public contact form.
func (h *DonationHandler) CreateMessage(c echo.Context) error {
	var req contactReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" || req.Email == "" || req.Message == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/email/message required"})
	}

	m := model.ContactMessage{Name: req.Name, Email: req.Email, Message: req.Message}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Donations.CreateMessage(ctx, &m); err != nil {
		return writeDomainErr(c, err, "save message failed")
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": m.ID})
}

// ListMessages returns contact messages, newest first. Admin only.
func (h *DonationHandler) ListMessages(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Donations.ListMessages(ctx, queryLimit(c, defaultListLimit, maxListLimit))
	if err != nil {
		return writeDomainErr(c, err, "list messages failed")
	}
	out := make([]contactView, 0, len(list))
	for _, m := range list {
		out = append(out, contactView{ID: m.ID, Name: m.Name, Email: m.Email, Message: m.Message, CreatedAt: m.CreatedAt})
	}
	return c.JSON(http.StatusOK, echo.Map{"messages": out})
}

// optional converts a trimmed string to a nullable pointer.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
