package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/inventariox/inventariox-api/internal/domain"
	"github.com/inventariox/inventariox-api/internal/domain/entity"
	"github.com/inventariox/inventariox-api/internal/domain/repository"
	"github.com/inventariox/inventariox-api/pkg/textutil"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
// La columna name_folded guarda el nombre normalizado (minúsculas, sin tildes)
// para que la búsqueda funcione con o sin diacríticos.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, name, supplier_name, unit_measure, unit_cost, quantity, min_quantity, target_quantity, created_at, updated_at`

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, name_folded, supplier_name, unit_measure, unit_cost, quantity, min_quantity, target_quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, textutil.Fold(product.Name), product.SupplierName,
		product.UnitMeasure, product.UnitCost, product.Quantity, product.MinQuantity,
		product.TargetQuantity, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get product")
}

// GetByName obtiene un producto por nombre exacto (insensible a tildes y mayúsculas).
func (r *ProductRepo) GetByName(name string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE name_folded = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, textutil.Fold(name)), "get product by name")
}

// Update actualiza un producto existente. No toca Quantity: la existencia se
// muta solo vía UpdateQuantity para que todo cambio quede trazado en movimientos.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, name_folded = $3, supplier_name = $4, unit_measure = $5,
		    unit_cost = $6, min_quantity = $7, target_quantity = $8, updated_at = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, textutil.Fold(product.Name), product.SupplierName,
		product.UnitMeasure, product.UnitCost, product.MinQuantity, product.TargetQuantity,
		product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateQuantity fija directamente la existencia del producto (motor de
// conciliación y ajustes rápidos).
func (r *ProductRepo) UpdateQuantity(productID string, quantity decimal.Decimal) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE products SET quantity = $2, updated_at = now() WHERE id = $1`,
		productID, quantity,
	)
	if err != nil {
		return fmt.Errorf("update product quantity: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos con búsqueda opcional por nombre y paginación.
func (r *ProductRepo) List(search string, limit, offset int) ([]*entity.Product, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if search != "" {
		query := `SELECT ` + productColumns + `
			FROM products WHERE name_folded LIKE '%' || $1 || '%'
			ORDER BY name ASC LIMIT $2 OFFSET $3`
		rows, err = r.q.Query(context.Background(), query, textutil.Fold(search), limit, offset)
	} else {
		query := `SELECT ` + productColumns + `
			FROM products ORDER BY name ASC LIMIT $1 OFFSET $2`
		rows, err = r.q.Query(context.Background(), query, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// ListBelowMinimum lista los productos cuya existencia está por debajo de su
// umbral mínimo, ordenados por el tamaño del faltante.
func (r *ProductRepo) ListBelowMinimum() ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products WHERE quantity < min_quantity
		ORDER BY (min_quantity - quantity) DESC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list products below minimum: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) scanOne(row pgx.Row, op string) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.SupplierName, &p.UnitMeasure, &p.UnitCost,
		&p.Quantity, &p.MinQuantity, &p.TargetQuantity, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

func (r *ProductRepo) scanMany(rows pgx.Rows) ([]*entity.Product, error) {
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.SupplierName, &p.UnitMeasure, &p.UnitCost,
			&p.Quantity, &p.MinQuantity, &p.TargetQuantity, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
