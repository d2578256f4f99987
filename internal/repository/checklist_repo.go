package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-checklist-api/internal/model"
)

const foreignKeyViolation = "23503"

type ChecklistRepository struct {
	pool *pgxpool.Pool
}

func NewChecklistRepository(pool *pgxpool.Pool) *ChecklistRepository {
	return &ChecklistRepository{pool: pool}
}

func (r *ChecklistRepository) List(ctx context.Context, filter string, limit int, offset int) ([]model.Checklist, int, error) {
	where := ""
	args := make([]any, 0, 3)
	if filter = strings.TrimSpace(filter); filter != "" {
		where = "WHERE name ILIKE $1"
		args = append(args, "%"+escapeLike(filter)+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM checklists "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count checklists: %w", err)
	}

	dataQuery := fmt.Sprintf(
		`SELECT id, name, created_at, updated_at
		 FROM checklists %s
		 ORDER BY id
		 LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list checklists: %w", err)
	}
	defer rows.Close()

	checklists := make([]model.Checklist, 0)
	for rows.Next() {
		var c model.Checklist
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan checklist: %w", err)
		}
		checklists = append(checklists, c)
	}
	return checklists, total, rows.Err()
}

func (r *ChecklistRepository) FindByID(ctx context.Context, id int64) (model.Checklist, error) {
	var c model.Checklist
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM checklists WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Checklist{}, model.ErrChecklistNotFound
	}
	if err != nil {
		return model.Checklist{}, fmt.Errorf("find checklist: %w", err)
	}
	return c, nil
}

func (r *ChecklistRepository) Create(ctx context.Context, name string) (model.Checklist, error) {
	var c model.Checklist
	err := r.pool.QueryRow(ctx,
		`INSERT INTO checklists (name) VALUES ($1)
		 RETURNING id, name, created_at, updated_at`, name).
		Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return model.Checklist{}, fmt.Errorf("create checklist: %w", err)
	}
	return c, nil
}

func (r *ChecklistRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM checklists WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return model.ErrChecklistInUse
		}
		return fmt.Errorf("delete checklist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrChecklistNotFound
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
