package infra_postgres_user

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/humanbelnik/moviemingle/internal/model"
	service_identity "github.com/humanbelnik/moviemingle/internal/service/identity"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type Driver struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Driver {
	return &Driver{db: db}
}

type userDTO struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	PasswordHash []byte    `db:"password_hash"`
	Confirmed    bool      `db:"confirmed"`
	CreatedAt    time.Time `db:"created_at"`
}

func (u userDTO) toModel() model.User {
	return model.User{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Confirmed:    u.Confirmed,
		CreatedAt:    u.CreatedAt,
	}
}

func (d *Driver) Create(ctx context.Context, u model.User) error {
	dto := userDTO{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Confirmed:    u.Confirmed,
		CreatedAt:    u.CreatedAt,
	}

	query := `
		INSERT INTO users (id, email, password_hash, confirmed, created_at)
		VALUES (:id, :email, :password_hash, :confirmed, :created_at)
	`

	_, err := d.db.NamedExecContext(ctx, query, dto)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return service_identity.ErrUserExists
		}
		return err
	}
	return nil
}

func (d *Driver) ByEmail(ctx context.Context, email string) (model.User, error) {
	return d.one(ctx, `
		SELECT id, email, password_hash, confirmed, created_at
		FROM users
		WHERE email = $1
	`, email)
}

func (d *Driver) ByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	return d.one(ctx, `
		SELECT id, email, password_hash, confirmed, created_at
		FROM users
		WHERE id = $1
	`, id)
}

func (d *Driver) MarkConfirmed(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET confirmed = TRUE WHERE id = $1`

	res, err := d.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return service_identity.ErrUserNotFound
	}
	return nil
}

func (d *Driver) one(ctx context.Context, query string, arg any) (model.User, error) {
	var dto userDTO

	if err := d.db.GetContext(ctx, &dto, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, service_identity.ErrUserNotFound
		}
		return model.User{}, err
	}
	return dto.toModel(), nil
}
