package repositories

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"go-task-tracker/backend/internal/models"
)

// UserRepository はユーザーテーブルを操作します。
type UserRepository struct {
	DB *sql.DB
}

// NewUserRepository は新しいUserRepositoryインスタンスを作成します。
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = "id, github_username, display_name, created_at, updated_at"

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.GitHubUsername, &u.DisplayName, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create は新しいユーザーを挿入します。github_username が重複する場合は ErrDuplicateIdentity を返します。
func (r *UserRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	ts := now()
	result, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (github_username, display_name, created_at, updated_at) VALUES (?, ?, ?, ?)",
		u.GitHubUsername, u.DisplayName, ts, ts)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicateIdentity
		}
		return nil, errors.Wrap(err, "could not insert user")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "could not get last insert ID")
	}
	return r.FindByID(ctx, int(id))
}

// FindByID はIDでユーザーを検索します。
func (r *UserRepository) FindByID(ctx context.Context, id int) (*models.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrapf(err, "could not query user %d", id)
	}
	return u, nil
}

// FindByGitHubUsername はプロバイダーのログイン名でユーザーを検索します。
func (r *UserRepository) FindByGitHubUsername(ctx context.Context, login string) (*models.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE github_username = ?", login))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrapf(err, "could not query user %q", login)
	}
	return u, nil
}

// FindAll は表示名順にすべてのユーザーを返します。
func (r *UserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY display_name ASC, id ASC")
	if err != nil {
		return nil, errors.Wrap(err, "could not query users")
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, errors.Wrap(err, "could not scan user")
		}
		users = append(users, *u)
	}
	return users, errors.WithStack(rows.Err())
}

// UpdateDisplayName は表示名を更新します。
func (r *UserRepository) UpdateDisplayName(ctx context.Context, id int, displayName string) (*models.User, error) {
	res, err := r.DB.ExecContext(ctx, "UPDATE users SET display_name = ?, updated_at = ? WHERE id = ?", displayName, now(), id)
	if err != nil {
		return nil, errors.Wrapf(err, "could not update user %d", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if n == 0 {
		return nil, ErrUserNotFound
	}
	return r.FindByID(ctx, id)
}

// Delete はユーザーを削除します。担当タスクとメモの参照は外部キーにより NULL になります。
func (r *UserRepository) Delete(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return errors.Wrapf(err, "could not delete user %d", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}
