package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/agamjotsodhi/curated/internal/model"
	"github.com/agamjotsodhi/curated/internal/utils"
)

// UserRepo persists application users.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,username,email,password_hash,first_name,image_url,created_at,updated_at"

// Create hashes the password and inserts a new user, returning its ID.
// Duplicate username/email collisions surface as ErrUsernameExists or
// ErrEmailExists so signup can show a precise message.
func (r *UserRepo) Create(ctx context.Context, username, email, password string, firstName, imageURL *string, cost int) (uint64, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, first_name, image_url) VALUES (?,?,?,?,?)",
		username, email, hash, firstName, imageURL)
	if err != nil {
		return 0, dupKeyError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Authenticate verifies username/password and returns the user on success.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (r *UserRepo) Authenticate(ctx context.Context, username, password string) (model.User, error) {
	u, err := r.GetByUsername(ctx, username)
	if err != nil {
		return model.User{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

// GetByUsername fetches a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1",
		strings.TrimSpace(username))
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
	return scanUser(row)
}

// UpdateProfile overwrites the editable profile fields. Nil firstName or
// imageURL clears the stored value rather than keeping the old one, matching
// the edit form which always submits the full set of fields.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, username, email string, firstName, imageURL *string) error {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET username=?, email=?, first_name=?, image_url=? WHERE id=?",
		username, email, firstName, imageURL, id)
	if err != nil {
		return dupKeyError(err)
	}
	return nil
}

func scanUser(row *sql.Row) (model.User, error) {
	var (
		u         model.User
		firstName sql.NullString
		imageURL  sql.NullString
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &firstName, &imageURL, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	if firstName.Valid {
		u.FirstName = &firstName.String
	}
	if imageURL.Valid {
		u.ImageURL = &imageURL.String
	}
	return u, nil
}

// dupKeyError converts MySQL duplicate-key errors (1062) into the matching
// sentinel based on which unique index was violated.
func dupKeyError(err error) error {
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "1062") {
		return err
	}
	if strings.Contains(msg, "uq_users_email") {
		return ErrEmailExists
	}
	return ErrUsernameExists
}
