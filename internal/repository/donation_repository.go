package repository

import (
	"context"
	"database/sql"

	"github.com/tudduke/ministry-platform/internal/model"
)

// DonationRepo records donations and contact messages. Donations are
// recorded, never processed; every row is written with status "pending"
// and reconciled out of band.
type DonationRepo struct{ DB *sql.DB }

func NewDonationRepo(db *sql.DB) *DonationRepo { return &DonationRepo{DB: db} }

// CreateDonation records a donation and returns its id.
func (r *DonationRepo) CreateDonation(ctx context.Context, d *model.Donation) error {
	if d.Currency == "" {
		d.Currency = "UGX"
	}
	d.Status = "pending"
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO donations (donor_name, email, phone, amount, currency, method, reference, notes, status) VALUES (?,?,?,?,?,?,?,?,?)",
		d.DonorName, d.Email, d.Phone, d.Amount, d.Currency, d.Method, d.Reference, d.Notes, d.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	return nil
}

// ListDonations returns recorded donations newest first, capped at limit.
func (r *DonationRepo) ListDonations(ctx context.Context, limit int) ([]model.Donation, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, donor_name, email, phone, amount, currency, method, reference, notes, status, created_at FROM donations ORDER BY created_at DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Donation, 0)
	for rows.Next() {
		var d model.Donation
		if err := rows.Scan(&d.ID, &d.DonorName, &d.Email, &d.Phone, &d.Amount,
			&d.Currency, &d.Method, &d.Reference, &d.Notes, &d.Status, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// CreateMessage records a contact form submission.
func (r *DonationRepo) CreateMessage(ctx context.Context, m *model.ContactMessage) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO contact_messages (name, email, message) VALUES (?,?,?)",
		m.Name, m.Email, m.Message)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// ListMessages returns contact messages newest first.
func (r *DonationRepo) ListMessages(ctx context.Context, limit int) ([]model.ContactMessage, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, email, message, created_at FROM contact_messages ORDER BY created_at DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.ContactMessage, 0)
	for rows.Next() {
		var m model.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
