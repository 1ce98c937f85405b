package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"vetclinic-dashboard/internal/adapters/auth/local"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

// UserStore persiste los usuarios del provider local en auth_users.
type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

type userRow struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Metadata     string    `db:"metadata"`
	CreatedAt    time.Time `db:"created_at"`
}

func (s *UserStore) CreateUser(ctx context.Context, u local.User) error {
	meta, err := json.Marshal(u.Metadata)
	if err != nil {
		return err
	}
	if u.Metadata == nil {
		meta = []byte("{}")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO auth_users (id, email, password_hash, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, u.ID, u.Email, u.PasswordHash, meta, u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return local.ErrUserExists
		}
		return err
	}
	return nil
}

func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (local.User, error) {
	var r userRow
	err := s.db.GetContext(ctx, &r, `
		SELECT id::text AS id, email, password_hash, metadata::text AS metadata, created_at
		FROM auth_users
		WHERE email = $1
	`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return local.User{}, local.ErrUserNotFound
		}
		return local.User{}, err
	}

	u := local.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
	if len(r.Metadata) > 0 {
		if err := json.Unmarshal([]byte(r.Metadata), &u.Metadata); err != nil {
			return local.User{}, err
		}
	}
	return u, nil
}
