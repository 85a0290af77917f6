package draft

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SlotScheduler/pkg/slotengine"
)

const tableName = "slot_drafts"

var draftColumns = []string{
	"id",
	"feature",
	"branch_id",
	"slot_date",
	"existing_slots",
	"edits",
	"version",
	"submit_attempts",
	"last_submit_error",
	"created_at",
	"updated_at",
}

// Repository репозиторий черновиков слотов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория черновиков
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новый черновик.
// На одну дату филиала допускается только один черновик.
func (r *Repository) Create(ctx context.Context, d *domain.Draft) (*domain.Draft, error) {
	existing, edits, err := encodeSlots(d.Existing, d.Edits)
	if err != nil {
		return nil, err
	}

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"feature",
			"branch_id",
			"slot_date",
			"existing_slots",
			"edits",
		).
		Values(
			d.Feature,
			d.BranchID,
			d.Date,
			existing,
			edits,
		).
		Suffix("ON CONFLICT (feature, branch_id, slot_date) DO NOTHING RETURNING " + joinColumns()).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	created, err := scanDraft(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDraftAlreadyExists
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return created, nil
}

// GetByKey получает черновик филиала на дату
func (r *Repository) GetByKey(ctx context.Context, key domain.DraftKey) (*domain.Draft, error) {
	query, args, err := psqlbuilder.Select(draftColumns...).
		From(tableName).
		Where(squirrel.Eq{
			"feature":   key.Feature,
			"branch_id": key.BranchID,
			"slot_date": key.Date,
		}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByKey - build select query: %v", ErrBuildQuery, err)
	}

	d, err := scanDraft(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByKey - scan draft: %v", ErrScanRow, err)
	}

	return d, nil
}

// ListByBranch получает все открытые черновики филиала, упорядоченные по дате
func (r *Repository) ListByBranch(ctx context.Context, feature domain.Feature, branchID int64) ([]*domain.Draft, error) {
	query, args, err := psqlbuilder.Select(draftColumns...).
		From(tableName).
		Where(squirrel.Eq{"feature": feature, "branch_id": branchID}).
		OrderBy("slot_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByBranch - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBranch - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	drafts := make([]*domain.Draft, 0)
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByBranch - scan draft: %v", ErrScanRow, err)
		}
		drafts = append(drafts, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByBranch - iterate rows: %v", ErrScanRow, err)
	}

	return drafts, nil
}

// UpdateEdits сохраняет правки черновика, если его версия не изменилась с момента чтения.
// При успехе версия черновика увеличивается.
func (r *Repository) UpdateEdits(ctx context.Context, d *domain.Draft) (*domain.Draft, error) {
	_, edits, err := encodeSlots(nil, d.Edits)
	if err != nil {
		return nil, err
	}

	query, args, err := psqlbuilder.Update(tableName).
		Set("edits", edits).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": d.ID, "version": d.Version}).
		Suffix("RETURNING " + joinColumns()).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateEdits - build update query: %v", ErrBuildQuery, err)
	}

	updated, err := scanDraft(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.missingOrConflict(ctx, d.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateEdits - execute update: %v", ErrExecQuery, err)
	}

	return updated, nil
}

// RecordSubmitFailure увеличивает счетчик попыток отправки и запоминает ошибку.
// Правки черновика не затрагиваются.
func (r *Repository) RecordSubmitFailure(ctx context.Context, id int64, submitErr string) error {
	query, args, err := psqlbuilder.Update(tableName).
		Set("submit_attempts", squirrel.Expr("submit_attempts + 1")).
		Set("last_submit_error", submitErr).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: RecordSubmitFailure - build update query: %v", ErrBuildQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: RecordSubmitFailure - execute update: %v", ErrExecQuery, err)
	}

	return requireAffected(result, "RecordSubmitFailure")
}

// Delete удаляет черновик
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

	return requireAffected(result, "Delete")
}

func (r *Repository) missingOrConflict(ctx context.Context, id int64) error {
	query, args, err := psqlbuilder.Select("1").
		From(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateEdits - build select query: %v", ErrBuildQuery, err)
	}

	var exists int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrDraftNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: UpdateEdits - check draft: %v", ErrScanRow, err)
	}
	return ErrVersionConflict
}

func requireAffected(result sql.Result, op string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - rows affected: %v", ErrExecQuery, op, err)
	}
	if affected == 0 {
		return ErrDraftNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDraft(row rowScanner) (*domain.Draft, error) {
	var (
		d                    domain.Draft
		feature              string
		existing, edits      []byte
		lastSubmitError      sql.NullString
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&d.ID,
		&feature,
		&d.BranchID,
		&d.Date,
		&existing,
		&edits,
		&d.Version,
		&d.SubmitAttempts,
		&lastSubmitError,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	d.Feature = domain.Feature(feature)
	if lastSubmitError.Valid {
		d.LastSubmitError = &lastSubmitError.String
	}
	d.CreatedAt = createdAt.Time
	d.UpdatedAt = updatedAt.Time

	if err := decodeSlots(existing, edits, &d); err != nil {
		return nil, err
	}

	return &d, nil
}

// encodeSlots возвращает jsonb значения строками: lib/pq передает []byte как bytea
func encodeSlots(existing []slotengine.Slot, edits slotengine.SlotEdits) (string, string, error) {
	if existing == nil {
		existing = []slotengine.Slot{}
	}

	existingJSON, err := json.Marshal(existing)
	if err != nil {
		return "", "", fmt.Errorf("%w: existing slots: %v", ErrEncode, err)
	}

	editsJSON, err := json.Marshal(edits)
	if err != nil {
		return "", "", fmt.Errorf("%w: edits: %v", ErrEncode, err)
	}

	return string(existingJSON), string(editsJSON), nil
}

func decodeSlots(existing, edits []byte, d *domain.Draft) error {
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &d.Existing); err != nil {
			return fmt.Errorf("decode existing slots: %w", err)
		}
	}
	if len(edits) > 0 {
		if err := json.Unmarshal(edits, &d.Edits); err != nil {
			return fmt.Errorf("decode edits: %w", err)
		}
	}
	return nil
}

func joinColumns() string {
	return strings.Join(draftColumns, ", ")
}
