package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/evolver/backend/internal/domain"
)

const userColumns = `id, username, password_hash, full_name, email, role, is_active, created_at, version`

// scanUser 的列顺序与 userColumns 一致
func scanUser(scan func(dst ...any) error) (*domain.User, error) {
	user := &domain.User{}
	if err := scan(&user.ID, &user.Username, &user.PasswordHash, &user.FullName, &user.Email, &user.Role, &user.IsActive, &user.CreatedAt, &user.Version); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *Repository) getUserBy(column string, value any) (*domain.User, error) {
	// column 只来自本文件内的常量
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanUser(r.dbpool.QueryRowContext(ctx, query, value).Scan)
}

func (r *Repository) GetUserByID(id int64) (*domain.User, error) {
	return r.getUserBy("id", id)
}

// GetUserByUsername 用于登录
func (r *Repository) GetUserByUsername(username string) (*domain.User, error) {
	return r.getUserBy("username", username)
}

func (r *Repository) GetAllUsers() ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// CreateUser 新用户默认处于启用状态，id 等由数据库生成后回填
func (r *Repository) CreateUser(user *domain.User) error {
	query := `
		INSERT INTO users (username, password_hash, full_name, email, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_active, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{user.Username, user.PasswordHash, user.FullName, user.Email, user.Role}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&user.ID, &user.IsActive, &user.CreatedAt, &user.Version)
}
