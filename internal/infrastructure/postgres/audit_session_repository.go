package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/inventariox/inventariox-api/internal/domain"
	"github.com/inventariox/inventariox-api/internal/domain/entity"
	"github.com/inventariox/inventariox-api/internal/domain/repository"
)

var _ repository.AuditSessionRepository = (*AuditSessionRepo)(nil)

// AuditSessionRepo implementación de AuditSessionRepository (usable con pool o tx).
// Las líneas de la sesión se guardan como JSONB: son una foto inmutable tomada
// al cierre, sin Update posible.
type AuditSessionRepo struct {
	q Querier
}

// NewAuditSessionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditSessionRepository(q Querier) *AuditSessionRepo {
	return &AuditSessionRepo{q: q}
}

const auditSessionColumns = `id, employee, type, started_at, closed_at, items, shortage_units, surplus_units, shortage_value, surplus_value, net_value, items_with_difference, created_at`

// Create persiste una sesión cerrada.
func (r *AuditSessionRepo) Create(session *entity.AuditSession) error {
	items, err := json.Marshal(session.Items)
	if err != nil {
		return fmt.Errorf("marshal audit items: %w", err)
	}
	query := `
		INSERT INTO audit_sessions (id, employee, type, started_at, closed_at, items, shortage_units, surplus_units, shortage_value, surplus_value, net_value, items_with_difference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err = r.q.Exec(context.Background(), query,
		session.ID, session.Employee, session.Type, session.StartedAt, session.ClosedAt,
		items, session.ShortageUnits, session.SurplusUnits, session.ShortageValue,
		session.SurplusValue, session.NetValue, session.ItemsWithDifference, session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit session: %w", err)
	}
	return nil
}

// GetByID obtiene una sesión por ID.
func (r *AuditSessionRepo) GetByID(id string) (*entity.AuditSession, error) {
	query := `SELECT ` + auditSessionColumns + ` FROM audit_sessions WHERE id = $1`
	s, err := scanAuditSession(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get audit session: %w", err)
	}
	return s, nil
}

// GetByTypeAndDate busca una sesión del mismo tipo cerrada dentro del día de
// la fecha dada (en la zona horaria de la fecha).
func (r *AuditSessionRepo) GetByTypeAndDate(sessionType string, day time.Time) (*entity.AuditSession, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	query := `SELECT ` + auditSessionColumns + `
		FROM audit_sessions
		WHERE type = $1 AND closed_at >= $2 AND closed_at < $3
		ORDER BY closed_at DESC LIMIT 1`
	s, err := scanAuditSession(r.q.QueryRow(context.Background(), query, sessionType, dayStart, dayEnd))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get audit session by type and date: %w", err)
	}
	return s, nil
}

// List lista sesiones de la más reciente a la más antigua.
func (r *AuditSessionRepo) List(limit, offset int) ([]*entity.AuditSession, error) {
	query := `SELECT ` + auditSessionColumns + `
		FROM audit_sessions ORDER BY closed_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit sessions: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditSession
	for rows.Next() {
		s, err := scanAuditSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit session: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Delete elimina una sesión por ID (acción de limpieza; no revierte ajustes).
func (r *AuditSessionRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM audit_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete audit session: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanAuditSession(row pgx.Row) (*entity.AuditSession, error) {
	var (
		s     entity.AuditSession
		items []byte
	)
	err := row.Scan(&s.ID, &s.Employee, &s.Type, &s.StartedAt, &s.ClosedAt, &items,
		&s.ShortageUnits, &s.SurplusUnits, &s.ShortageValue, &s.SurplusValue,
		&s.NetValue, &s.ItemsWithDifference, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &s.Items); err != nil {
			return nil, fmt.Errorf("unmarshal audit items: %w", err)
		}
	}
	return &s, nil
}
