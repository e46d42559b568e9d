package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/tudduke/ministry-platform/internal/access"
	"github.com/tudduke/ministry-platform/internal/model"
	"github.com/tudduke/ministry-platform/internal/utils"
)

// UserRepo provides access to the users table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id, full_name, email, password_hash, role, is_verified, guardian_name, guardian_phone, profile_image, created_at"

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	var role string
	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &role,
		&u.IsVerified, &u.GuardianName, &u.GuardianPhone, &u.ProfileImage, &u.CreatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.Role = access.Role(role)
	return u, nil
}

// Create inserts a user and returns its id. The verification flag is
// derived from the role: teacher and preacher accounts start unverified
// and wait for an admin; everyone else may log in immediately.
func (r *UserRepo) Create(ctx context.Context, fullName, email, password string, role access.Role, guardianName, guardianPhone *string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	verified := !access.RequiresVerification(role)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (full_name, email, password_hash, role, is_verified, guardian_name, guardian_phone) VALUES (?,?,?,?,?,?,?)",
		fullName, email, hash, string(role), verified, guardianName, guardianPhone)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrConflict
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email))
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// SetVerified flips the verification flag. Only the admin verify-user
// operation calls this; there is no self-service path.
func (r *UserRepo) SetVerified(ctx context.Context, id uint64, verified bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_verified=? WHERE id=?", verified, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish missing user from an already-matching flag.
		var exists int
		if err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id=?", id).Scan(&exists); err == sql.ErrNoRows {
			return ErrNotFound
		} else if err != nil {
			return err
		}
	}
	return nil
}

// List returns users, optionally filtered by role and/or verification
// state. Intended for the admin dashboard.
func (r *UserRepo) List(ctx context.Context, role *access.Role, verified *bool) ([]model.User, error) {
	q := "SELECT " + userCols + " FROM users"
	var where []string
	var args []any
	if role != nil {
		where = append(where, "role=?")
		args = append(args, string(*role))
	}
	if verified != nil {
		where = append(where, "is_verified=?")
		args = append(args, *verified)
	}
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
