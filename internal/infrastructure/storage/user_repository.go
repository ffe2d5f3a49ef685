package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/agoraforge/agora/internal/domain/repository"
	"github.com/agoraforge/agora/internal/infrastructure/storage/models"
	pkgmodels "github.com/agoraforge/agora/pkg/models"
)

var _ repository.UserRepository = (*UserRepository)(nil)

// UserRepository implements repository.UserRepository using Bun.
type UserRepository struct {
	db bun.IDB
}

func NewUserRepository(db bun.IDB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *pkgmodels.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	row := models.FromUserDomain(user)
	_, err := r.db.NewInsert().Model(row).Exec(ctx)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	*user = *models.ToUserDomain(row)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*pkgmodels.User, error) {
	row := &models.UserModel{}
	err := r.db.NewSelect().Model(row).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkgmodels.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return models.ToUserDomain(row), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*pkgmodels.User, error) {
	row := &models.UserModel{}
	err := r.db.NewSelect().Model(row).Where("LOWER(email) = LOWER(?)", email).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkgmodels.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return models.ToUserDomain(row), nil
}

func (r *UserRepository) Update(ctx context.Context, user *pkgmodels.User) error {
	user.UpdatedAt = time.Now()
	row := models.FromUserDomain(user)
	res, err := r.db.NewUpdate().
		Model(row).
		Column("display_name", "notifications_last_viewed_at", "updated_at").
		Where("id = ?", row.ID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pkgmodels.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) ApplyKarmaDeltas(ctx context.Context, userID string, pioneerDelta, builderDelta, criticDelta float64) error {
	res, err := r.db.NewUpdate().
		Model((*models.UserModel)(nil)).
		Set("pioneer_karma = pioneer_karma + ?", pioneerDelta).
		Set("builder_karma = builder_karma + ?", builderDelta).
		Set("critic_karma = critic_karma + ?", criticDelta).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("apply karma deltas: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pkgmodels.ErrUserNotFound
	}
	return nil
}

// RecomputeEpistemicScore refreshes the denormalized epistemic_score column from the three
// underlying karma tracks using the same weighting the gamification batch job reports.
func (r *UserRepository) RecomputeEpistemicScore(ctx context.Context, userID string) error {
	res, err := r.db.NewUpdate().
		Model((*models.UserModel)(nil)).
		Set("epistemic_score = (pioneer_karma + builder_karma + critic_karma)").
		Set("updated_at = ?", time.Now()).
		Where("id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("recompute epistemic score: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pkgmodels.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateNotificationsLastViewedAt(ctx context.Context, userID string) error {
	res, err := r.db.NewUpdate().
		Model((*models.UserModel)(nil)).
		Set("notifications_last_viewed_at = ?", time.Now()).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update notifications last viewed at: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pkgmodels.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) ListTopByKarma(ctx context.Context, limit int) ([]*pkgmodels.User, error) {
	var rows []*models.UserModel
	err := r.db.NewSelect().
		Model(&rows).
		OrderExpr("(pioneer_karma + builder_karma + critic_karma) DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list top users by karma: %w", err)
	}
	out := make([]*pkgmodels.User, len(rows))
	for i, row := range rows {
		out[i] = models.ToUserDomain(row)
	}
	return out, nil
}
