package database

import (
	"database/sql"
)

// InsertProduct inserts a product and returns its ID.
func (db *DB) InsertProduct(name string, currentInventory, avgSales, leadTime int) (int64, error) {
	result, err := db.conn.Exec(
		`INSERT INTO products (name, current_inventory, avg_sales, lead_time)
		VALUES (?, ?, ?, ?)`,
		name, currentInventory, avgSales, leadTime,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetAllProducts returns the whole catalog ordered by id. The order is the
// stable fetch order downstream analysis relies on.
func (db *DB) GetAllProducts() ([]Product, error) {
	rows, err := db.conn.Query(
		`SELECT id, name, current_inventory, avg_sales, lead_time, created_at, updated_at
		FROM products ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

// GetProductByID returns a single product, or nil if it does not exist.
func (db *DB) GetProductByID(id int64) (*Product, error) {
	row := db.conn.QueryRow(
		`SELECT id, name, current_inventory, avg_sales, lead_time, created_at, updated_at
		FROM products WHERE id = ?`, id,
	)
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.CurrentInventory, &p.AvgSales, &p.LeadTime,
		&p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CountProducts returns the number of products in the catalog.
func (db *DB) CountProducts() (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM products").Scan(&count)
	return count, err
}

// DeleteAllProducts wipes the catalog. Used before re-seeding.
func (db *DB) DeleteAllProducts() error {
	_, err := db.conn.Exec("DELETE FROM products")
	return err
}

// GetStats returns aggregate statistics about the catalog.
func (db *DB) GetStats() (*Stats, error) {
	s := &Stats{}
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM products").Scan(&s.TotalProducts); err != nil {
		return nil, err
	}
	if err := db.conn.QueryRow(
		"SELECT COUNT(*) FROM products WHERE current_inventory = 0",
	).Scan(&s.OutOfStock); err != nil {
		return nil, err
	}
	return s, nil
}

func scanProducts(rows *sql.Rows) ([]Product, error) {
	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.CurrentInventory, &p.AvgSales,
			&p.LeadTime, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
