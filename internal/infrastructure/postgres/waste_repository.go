package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/inventariox/inventariox-api/internal/domain"
	"github.com/inventariox/inventariox-api/internal/domain/entity"
	"github.com/inventariox/inventariox-api/internal/domain/repository"
)

var _ repository.WasteRepository = (*WasteRepo)(nil)

// WasteRepo implementación de WasteRepository (usable con pool o tx).
// Sin Update: las mermas son inmutables una vez registradas.
type WasteRepo struct {
	q Querier
}

// NewWasteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWasteRepository(q Querier) *WasteRepo {
	return &WasteRepo{q: q}
}

const wasteColumns = `id, product_id, product_name, quantity, reason, unit_cost, total_value, date, observation, session_id, created_at`

// Create persiste una nueva merma.
func (r *WasteRepo) Create(waste *entity.Waste) error {
	query := `
		INSERT INTO wastes (id, product_id, product_name, quantity, reason, unit_cost, total_value, date, observation, session_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		waste.ID, waste.ProductID, waste.ProductName, waste.Quantity, waste.Reason,
		waste.UnitCost, waste.TotalValue, waste.Date, waste.Observation,
		waste.SessionID, waste.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert waste: %w", err)
	}
	return nil
}

// GetByID obtiene una merma por ID.
func (r *WasteRepo) GetByID(id string) (*entity.Waste, error) {
	query := `SELECT ` + wasteColumns + ` FROM wastes WHERE id = $1`
	var w entity.Waste
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&w.ID, &w.ProductID, &w.ProductName, &w.Quantity, &w.Reason, &w.UnitCost,
		&w.TotalValue, &w.Date, &w.Observation, &w.SessionID, &w.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get waste: %w", err)
	}
	return &w, nil
}

// List lista mermas con filtro opcional por rango de fechas, de la más reciente
// a la más antigua.
func (r *WasteRepo) List(from, to *time.Time, limit, offset int) ([]*entity.Waste, error) {
	query := `SELECT ` + wasteColumns + `
		FROM wastes
		WHERE ($1::timestamptz IS NULL OR date >= $1)
		  AND ($2::timestamptz IS NULL OR date < $2)
		ORDER BY date DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list wastes: %w", err)
	}
	defer rows.Close()
	return scanWastes(rows)
}

// ListBySession lista las mermas generadas por una sesión de auditoría.
func (r *WasteRepo) ListBySession(sessionID string) ([]*entity.Waste, error) {
	query := `SELECT ` + wasteColumns + ` FROM wastes WHERE session_id = $1 ORDER BY date DESC`
	rows, err := r.q.Query(context.Background(), query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list wastes by session: %w", err)
	}
	defer rows.Close()
	return scanWastes(rows)
}

// Delete elimina una merma por ID. No revierte la existencia del producto.
func (r *WasteRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM wastes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete waste: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanWastes(rows pgx.Rows) ([]*entity.Waste, error) {
	var list []*entity.Waste
	for rows.Next() {
		var w entity.Waste
		if err := rows.Scan(&w.ID, &w.ProductID, &w.ProductName, &w.Quantity, &w.Reason,
			&w.UnitCost, &w.TotalValue, &w.Date, &w.Observation, &w.SessionID, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan waste: %w", err)
		}
		list = append(list, &w)
	}
	return list, rows.Err()
}
