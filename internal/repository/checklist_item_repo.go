package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-checklist-api/internal/model"
)

type ChecklistItemRepository struct {
	pool *pgxpool.Pool
}

func NewChecklistItemRepository(pool *pgxpool.Pool) *ChecklistItemRepository {
	return &ChecklistItemRepository{pool: pool}
}

const itemSelect = `SELECT i.id, i.name, i.checklist_id, i.status, i.created_at, i.updated_at,
        c.id, c.name, c.created_at, c.updated_at
 FROM checklist_items i
 JOIN checklists c ON c.id = i.checklist_id`

func scanItem(row pgx.Row) (model.ChecklistItem, error) {
	var item model.ChecklistItem
	var c model.Checklist
	err := row.Scan(&item.ID, &item.Name, &item.ChecklistID, &item.Status, &item.CreatedAt, &item.UpdatedAt,
		&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return model.ChecklistItem{}, err
	}
	item.Checklist = &c
	return item, nil
}

func (r *ChecklistItemRepository) List(ctx context.Context, checklistID int64, limit int, offset int) ([]model.ChecklistItem, int, error) {
	where := ""
	args := make([]any, 0, 3)
	if checklistID > 0 {
		where = "WHERE i.checklist_id = $1"
		args = append(args, checklistID)
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM checklist_items i "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count checklist items: %w", err)
	}

	dataQuery := fmt.Sprintf("%s %s ORDER BY i.id LIMIT $%d OFFSET $%d", itemSelect, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list checklist items: %w", err)
	}
	defer rows.Close()

	items := make([]model.ChecklistItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan checklist item: %w", err)
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

func (r *ChecklistItemRepository) FindByID(ctx context.Context, id int64) (model.ChecklistItem, error) {
	item, err := scanItem(r.pool.QueryRow(ctx, itemSelect+" WHERE i.id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ChecklistItem{}, model.ErrChecklistItemNotFound
	}
	if err != nil {
		return model.ChecklistItem{}, fmt.Errorf("find checklist item: %w", err)
	}
	return item, nil
}

func (r *ChecklistItemRepository) Create(ctx context.Context, item model.ChecklistItem) (model.ChecklistItem, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO checklist_items (name, checklist_id, status)
		 VALUES ($1, $2, $3) RETURNING id`,
		item.Name, item.ChecklistID, item.Status).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return model.ChecklistItem{}, model.ErrChecklistNotFound
		}
		return model.ChecklistItem{}, fmt.Errorf("create checklist item: %w", err)
	}
	return r.FindByID(ctx, id)
}

func (r *ChecklistItemRepository) UpdateStatus(ctx context.Context, id int64, status model.ChecklistItemStatus) (model.ChecklistItem, error) {
	return r.update(ctx, `UPDATE checklist_items SET status = $2, updated_at = $3 WHERE id = $1`, id, status)
}

func (r *ChecklistItemRepository) Rename(ctx context.Context, id int64, name string) (model.ChecklistItem, error) {
	return r.update(ctx, `UPDATE checklist_items SET name = $2, updated_at = $3 WHERE id = $1`, id, name)
}

func (r *ChecklistItemRepository) update(ctx context.Context, query string, id int64, value any) (model.ChecklistItem, error) {
	tag, err := r.pool.Exec(ctx, query, id, value, time.Now().UTC())
	if err != nil {
		return model.ChecklistItem{}, fmt.Errorf("update checklist item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ChecklistItem{}, model.ErrChecklistItemNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *ChecklistItemRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM checklist_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete checklist item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrChecklistItemNotFound
	}
	return nil
}
