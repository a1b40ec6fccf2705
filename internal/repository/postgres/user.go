package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"rentinspect-backend/internal/domain"
	"rentinspect-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, email, name, role, created_on, updated_on FROM users WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedOn, &u.UpdatedOn)
	if err == sql.ErrNoRows {
		return nil, domain.NewError(domain.KindNotFound, fmt.Sprintf("user %d not found", id))
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, email, name, role, created_on, updated_on FROM users WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedOn, &u.UpdatedOn)
	if err == sql.ErrNoRows {
		return nil, domain.NewError(domain.KindNotFound, fmt.Sprintf("user %s not found", email))
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
