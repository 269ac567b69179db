package repositories

import (
	"context"
	"database/sql"
	"strings"

	"github.com/andyriles/meal-ordering-service-backend/internal/domain"
	"github.com/andyriles/meal-ordering-service-backend/internal/domain/models"
	"github.com/andyriles/meal-ordering-service-backend/internal/pagination"
)

var userTable = table[models.User]{
	name:     "users",
	resource: "user",
	columns:  []string{"id", "name", "email", "role", "password_hash", "created_at", "updated_at"},
	fields: map[string]string{
		"id":        "id",
		"name":      "name",
		"email":     "email",
		"role":      "role",
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	},
	scan: scanUser,
	id:   func(u models.User) string { return u.ID },
}

func scanUser(s rowScanner) (models.User, error) {
	var (
		u    models.User
		role string
	)
	err := s.Scan(&u.ID, &u.Name, &u.Email, &role, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	u.Role = domain.Role(role)
	return u, err
}

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) Collection() pagination.Collection[models.User] {
	return newCollection(r.DB, userTable, nil)
}

func (r UserRepository) Insert(ctx context.Context, u models.User) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (id, name, email, role, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.Name, strings.ToLower(u.Email), string(u.Role), u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	return storeErr(userTable.resource, err)
}

func (r UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	return getByID(ctx, r.DB, userTable, id)
}

func (r UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userTable.selectList()+" FROM users WHERE email = ? LIMIT 1",
		strings.ToLower(strings.TrimSpace(email)))
	u, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, domain.NotFoundError{Resource: "user", Err: err}
		}
		return models.User{}, storeErr(userTable.resource, err)
	}
	return u, nil
}

func (r UserRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(email))).Scan(&n)
	if err != nil {
		return false, storeErr(userTable.resource, err)
	}
	return n > 0, nil
}

func populateUsers(ctx context.Context, q querier, refs []*models.Ref[models.User]) error {
	return populateRefs(ctx, q, userTable, refs)
}
