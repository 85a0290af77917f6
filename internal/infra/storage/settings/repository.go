package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

const tableName = "slot_settings"

var settingsColumns = []string{
	"id",
	"feature",
	"branch_id",
	"slot_duration_minutes",
	"default_capacity",
	"day_start",
	"created_at",
	"updated_at",
}

// Repository репозиторий настроек слотов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новые настройки
func (r *Repository) Create(ctx context.Context, s *domain.SlotSettings) (*domain.SlotSettings, error) {
	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"feature",
			"branch_id",
			"slot_duration_minutes",
			"default_capacity",
			"day_start",
		).
		Values(
			s.Feature,
			s.BranchID,
			s.SlotDurationMinutes,
			s.DefaultCapacity,
			s.DayStart,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&s.ID, &createdAt, &updatedAt)
	if isUniqueViolation(err) {
		return nil, ErrSettingsAlreadyExists
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return s, nil
}

// GetByFeatureAndBranch получает настройки ровно одного уровня:
// branchID == nil - настройки фичи, иначе настройки конкретного филиала
func (r *Repository) GetByFeatureAndBranch(ctx context.Context, feature domain.Feature, branchID *int64) (*domain.SlotSettings, error) {
	selectBuilder := psqlbuilder.Select(settingsColumns...).
		From(tableName).
		Where(squirrel.Eq{"feature": feature})

	// Фильтрация по branch_id (NULL или конкретное значение)
	if branchID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"branch_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"branch_id": *branchID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFeatureAndBranch - build select query: %v", ErrBuildQuery, err)
	}

	s, err := scanSettings(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFeatureAndBranch - scan settings: %v", ErrScanRow, err)
	}

	return s, nil
}

// GetWithHierarchy получает настройки с учетом иерархии приоритетов:
// 1. Настройки филиала
// 2. Настройки фичи для всех филиалов
//
// Если настройки не найдены ни на одном уровне, возвращает ErrSettingsNotFound
func (r *Repository) GetWithHierarchy(ctx context.Context, feature domain.Feature, branchID int64) (*domain.SlotSettings, error) {
	s, err := r.GetByFeatureAndBranch(ctx, feature, &branchID)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, ErrSettingsNotFound) {
		return nil, fmt.Errorf("%w: GetWithHierarchy - level 1 (branch): %v", ErrExecQuery, err)
	}

	s, err = r.GetByFeatureAndBranch(ctx, feature, nil)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, ErrSettingsNotFound) {
		return nil, fmt.Errorf("%w: GetWithHierarchy - level 2 (feature): %v", ErrExecQuery, err)
	}

	return nil, ErrSettingsNotFound
}

// Update обновляет настройки
func (r *Repository) Update(ctx context.Context, id int64, s *domain.SlotSettings) (*domain.SlotSettings, error) {
	query, args, err := psqlbuilder.Update(tableName).
		Set("slot_duration_minutes", s.SlotDurationMinutes).
		Set("default_capacity", s.DefaultCapacity).
		Set("day_start", s.DayStart).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	s.ID = id
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return s, nil
}

// Delete удаляет настройки
func (r *Repository) Delete(ctx context.Context, id int64) error {
	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrSettingsNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSettings(row rowScanner) (*domain.SlotSettings, error) {
	var (
		s                    domain.SlotSettings
		feature, dayStart    string
		branchID             sql.NullInt64
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&s.ID,
		&feature,
		&branchID,
		&s.SlotDurationMinutes,
		&s.DefaultCapacity,
		&dayStart,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Feature = domain.Feature(feature)
	if branchID.Valid {
		s.BranchID = &branchID.Int64
	}
	s.DayStart = types.TimeString(dayStart)
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

// uniqueViolation код ошибки PostgreSQL при нарушении уникального индекса
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
