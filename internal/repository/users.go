package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/hvtran/accounting-bot/constants"
	"github.com/hvtran/accounting-bot/internal/common"
	"github.com/hvtran/accounting-bot/internal/entity"
)

const userColumns = `id, telegram_user_id, username, first_name, last_name, role, department,
	is_active, total_submitted, total_approved, created_at, last_activity`

// UserRepository persists Telegram users and their submission counters.
type UserRepository struct {
	db     *DB
	logger *slog.Logger
}

// NewUserRepository creates a user repository over the shared store.
func NewUserRepository(db *DB, logger *slog.Logger) *UserRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserRepository{db: db, logger: logger}
}

// UpsertFromTelegram registers a user on first contact and refreshes profile
// fields and last_activity on every later one. Role and counters are kept.
func (r *UserRepository) UpsertFromTelegram(ctx context.Context, telegramID int64, username, firstName, lastName string) (*entity.User, error) {
	now := time.Now()

	existing, err := r.GetByTelegramID(ctx, telegramID)
	switch {
	case err == nil:
		query := r.db.rebind(`UPDATE users
			SET username = ?, first_name = ?, last_name = ?, last_activity = ?
			WHERE telegram_user_id = ?`)
		if _, err := r.db.sql.ExecContext(ctx, query, username, firstName, lastName, now, telegramID); err != nil {
			return nil, common.WrapError(err, "failed to refresh user")
		}
		existing.Username = username
		existing.FirstName = firstName
		existing.LastName = lastName
		existing.LastActivity = now
		return existing, nil
	case errors.Is(err, common.ErrNotFound):
		// first contact, fall through to insert
	default:
		return nil, err
	}

	u := &entity.User{
		TelegramUserID: telegramID,
		Username:       username,
		FirstName:      firstName,
		LastName:       lastName,
		Role:           constants.RoleUser,
		IsActive:       true,
		CreatedAt:      now,
		LastActivity:   now,
	}

	query := r.db.rebind(`INSERT INTO users (telegram_user_id, username, first_name, last_name,
		role, department, is_active, total_submitted, total_approved, created_at, last_activity)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, 0, ?, ?)`)
	args := []any{telegramID, username, firstName, lastName, string(u.Role), u.Department, u.IsActive, now, now}

	if r.db.driver == driverPostgres {
		if err := r.db.sql.QueryRowContext(ctx, query+" RETURNING id", args...).Scan(&u.ID); err != nil {
			r.logger.Error("user.upsert.error", "telegram_user_id", telegramID, "error", err)
			return nil, common.WrapError(err, "failed to create user")
		}
		r.logger.Info("user.registered", "telegram_user_id", telegramID, "username", username)
		return u, nil
	}

	res, err := r.db.sql.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("user.upsert.error", "telegram_user_id", telegramID, "error", err)
		return nil, common.WrapError(err, "failed to create user")
	}
	if u.ID, err = res.LastInsertId(); err != nil {
		return nil, common.WrapError(err, "failed to read inserted user id")
	}
	r.logger.Info("user.registered", "telegram_user_id", telegramID, "username", username)
	return u, nil
}

// GetByTelegramID fetches one user or common.ErrNotFound.
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*entity.User, error) {
	query := r.db.rebind(`SELECT ` + userColumns + ` FROM users WHERE telegram_user_id = ?`)
	u, err := scanUser(r.db.sql.QueryRowContext(ctx, query, telegramID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.WrapError(err, "failed to read user")
	}
	return u, nil
}

// List returns all users ordered by registration time.
func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.db.sql.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, common.WrapError(err, "failed to list users")
	}
	defer rows.Close()

	var out []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, common.WrapError(err, "failed to scan user row")
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdateRole changes a user's role by Telegram id.
func (r *UserRepository) UpdateRole(ctx context.Context, telegramID int64, role constants.Role) error {
	query := r.db.rebind(`UPDATE users SET role = ?, last_activity = ? WHERE telegram_user_id = ?`)
	res, err := r.db.sql.ExecContext(ctx, query, string(role), time.Now(), telegramID)
	if err != nil {
		r.logger.Error("user.update_role.error", "telegram_user_id", telegramID, "error", err)
		return common.WrapError(err, "failed to update role")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return common.WrapError(err, "failed to read affected rows")
	}
	if n == 0 {
		return common.ErrNotFound
	}
	r.logger.Info("user.role_updated", "telegram_user_id", telegramID, "role", string(role))
	return nil
}

// IncrementSubmitted bumps the submission counter after a saved invoice.
func (r *UserRepository) IncrementSubmitted(ctx context.Context, telegramID int64) error {
	return r.increment(ctx, telegramID, "total_submitted")
}

// IncrementApproved bumps the approval counter after an approve action.
func (r *UserRepository) IncrementApproved(ctx context.Context, telegramID int64) error {
	return r.increment(ctx, telegramID, "total_approved")
}

func (r *UserRepository) increment(ctx context.Context, telegramID int64, column string) error {
	query := r.db.rebind(`UPDATE users SET ` + column + ` = ` + column + ` + 1, last_activity = ? WHERE telegram_user_id = ?`)
	_, err := r.db.sql.ExecContext(ctx, query, time.Now(), telegramID)
	if err != nil {
		return common.WrapError(err, "failed to increment "+column)
	}
	return nil
}

func scanUser(row rowScanner) (*entity.User, error) {
	var (
		u    entity.User
		role string
	)
	err := row.Scan(
		&u.ID, &u.TelegramUserID, &u.Username, &u.FirstName, &u.LastName, &role,
		&u.Department, &u.IsActive, &u.TotalSubmitted, &u.TotalApproved,
		&u.CreatedAt, &u.LastActivity,
	)
	if err != nil {
		return nil, err
	}
	u.Role = constants.Role(role)
	return &u, nil
}
