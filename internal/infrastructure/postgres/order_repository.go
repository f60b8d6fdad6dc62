package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/inventariox/inventariox-api/internal/domain"
	"github.com/inventariox/inventariox-api/internal/domain/entity"
	"github.com/inventariox/inventariox-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository (usable con pool o tx).
// Las líneas de la orden se guardan como JSONB: son una foto materializada de
// los productos al crear la orden, no referencias vivas.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, supplier_id, supplier_name, status, items, notes, created_by, created_at, sent_at, received_at`

// Create persiste una nueva orden de compra.
func (r *OrderRepo) Create(order *entity.PurchaseOrder) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}
	query := `
		INSERT INTO purchase_orders (id, supplier_id, supplier_name, status, items, notes, created_by, created_at, sent_at, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = r.q.Exec(context.Background(), query,
		order.ID, order.SupplierID, order.SupplierName, order.Status, items,
		order.Notes, order.CreatedBy, order.CreatedAt, order.SentAt, order.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID.
func (r *OrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM purchase_orders WHERE id = $1`
	o, err := scanOrder(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// Update actualiza estado, notas y marcas de tiempo de la orden.
func (r *OrderRepo) Update(order *entity.PurchaseOrder) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}
	query := `
		UPDATE purchase_orders
		SET status = $2, items = $3, notes = $4, sent_at = $5, received_at = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		order.ID, order.Status, items, order.Notes, order.SentAt, order.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista órdenes con filtro opcional por estado, de la más reciente a la más antigua.
func (r *OrderRepo) List(status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if status != "" {
		query := `SELECT ` + orderColumns + `
			FROM purchase_orders WHERE status = $1
			ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		rows, err = r.q.Query(context.Background(), query, status, limit, offset)
	} else {
		query := `SELECT ` + orderColumns + `
			FROM purchase_orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		rows, err = r.q.Query(context.Background(), query, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// Delete elimina una orden por ID.
func (r *OrderRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM purchase_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var (
		o     entity.PurchaseOrder
		items []byte
	)
	err := row.Scan(&o.ID, &o.SupplierID, &o.SupplierName, &o.Status, &items,
		&o.Notes, &o.CreatedBy, &o.CreatedAt, &o.SentAt, &o.ReceivedAt)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("unmarshal order items: %w", err)
		}
	}
	return &o, nil
}
