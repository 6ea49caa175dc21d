package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Deymos01/git-slackin/internal/domains"
	"github.com/Deymos01/git-slackin/internal/repository"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

const userColumns = `id, display_name, github_handle, slack_id, requestable, notifications_enabled, is_merger, review_action`

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Storage) CreateUser(ctx context.Context, user *domains.User) error {
	const op = "repository.postgres.user.CreateUser"

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.ReviewAction == "" {
		user.ReviewAction = domains.ReviewActionRespond
	}

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID, user.DisplayName, user.GitHubHandle, user.SlackID,
		user.Requestable, user.NotificationsEnabled, user.IsMerger, string(user.ReviewAction))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return repository.ErrUserExists
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) UserByGitHubHandle(ctx context.Context, handle string) (*domains.User, error) {
	const op = "repository.postgres.user.UserByGitHubHandle"

	query := `SELECT ` + userColumns + ` FROM users WHERE lower(github_handle) = lower($1)`

	user, err := scanUser(s.db.QueryRowContext(ctx, query, handle))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (s *Storage) UserBySlackID(ctx context.Context, slackID string) (*domains.User, error) {
	const op = "repository.postgres.user.UserBySlackID"

	query := `SELECT ` + userColumns + ` FROM users WHERE slack_id = $1`

	user, err := scanUser(s.db.QueryRowContext(ctx, query, slackID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// UpdateUsers applies update to every user matching filter and returns the number of rows changed.
func (s *Storage) UpdateUsers(ctx context.Context, filter domains.UserFilter, update domains.UserUpdate) (int64, error) {
	const op = "repository.postgres.user.UpdateUsers"

	if update.Empty() {
		return 0, nil
	}

	set, args := buildSet(update)
	where, whereArgs := buildWhere(filter, len(args))
	args = append(args, whereArgs...)

	query := `UPDATE users SET ` + set + `, updated_at = NOW()` + where

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return affected, nil
}

func (s *Storage) ListUsers(ctx context.Context, filter domains.UserFilter) ([]*domains.User, error) {
	const op = "repository.postgres.user.ListUsers"

	where, args := buildWhere(filter, 0)
	query := `SELECT ` + userColumns + ` FROM users` + where + ` ORDER BY display_name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var users []*domains.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return users, nil
}

func scanUser(row rowScanner) (*domains.User, error) {
	var (
		user         domains.User
		reviewAction string
	)

	err := row.Scan(&user.ID, &user.DisplayName, &user.GitHubHandle, &user.SlackID,
		&user.Requestable, &user.NotificationsEnabled, &user.IsMerger, &reviewAction)
	if err != nil {
		return nil, err
	}
	user.ReviewAction = domains.ReviewAction(reviewAction)

	return &user, nil
}

// buildWhere renders filter as a WHERE clause whose placeholders start after offset.
func buildWhere(filter domains.UserFilter, offset int) (string, []any) {
	var (
		conds []string
		args  []any
	)

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, offset+len(args)))
	}

	if filter.ID != nil {
		add("id = $%d", *filter.ID)
	}
	if filter.GitHubHandle != nil {
		add("lower(github_handle) = lower($%d)", *filter.GitHubHandle)
	}
	if filter.SlackID != nil {
		add("slack_id = $%d", *filter.SlackID)
	}
	if filter.Requestable != nil {
		add("requestable = $%d", *filter.Requestable)
	}

	if len(conds) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

func buildSet(update domains.UserUpdate) (string, []any) {
	var (
		sets []string
		args []any
	)

	if update.Requestable != nil {
		args = append(args, *update.Requestable)
		sets = append(sets, fmt.Sprintf("requestable = $%d", len(args)))
	}
	if update.NotificationsEnabled != nil {
		args = append(args, *update.NotificationsEnabled)
		sets = append(sets, fmt.Sprintf("notifications_enabled = $%d", len(args)))
	}

	return strings.Join(sets, ", "), args
}
