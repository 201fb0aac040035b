package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/NagasuriRaviTeja/movie-magic/internal/utils"
)

// User mirrors the 'users' table. Password always holds a bcrypt hash,
// never the clear text.
type User struct {
	Email    string
	Name     string
	Password string
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create hashes the password and inserts the account. The email is the
// primary key; a duplicate insert maps to ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, email, name, password string, cost int) error {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO users (email, name, password) VALUES (?,?,?)",
		email, name, hash)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u User
	err := r.DB.QueryRowContext(ctx,
		"SELECT email,name,password FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.Email, &u.Name, &u.Password)
	return u, err
}
