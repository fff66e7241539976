package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	_ "github.com/mattn/go-sqlite3"
	"github.com/yourusername/catalog-admin/internal/domain/entity"
	"github.com/yourusername/catalog-admin/internal/domain/repository"
)

var docJSON = jsoniter.ConfigCompatibleWithStandardLibrary

type sqliteProductStore struct {
	db *sql.DB
}

// NewSQLiteProductStore SQLite asosidagi hujjat ombori.
// Har bir mahsulot bitta JSON hujjat sifatida saqlanadi.
func NewSQLiteProductStore(dbPath string) (repository.ProductStore, error) {
	if dbPath == "" {
		return nil, errors.New("db path bo'sh bo'lmasligi kerak")
	}

	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("db papkasini yaratib bo'lmadi: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite ochilmadi: %w", err)
	}
	// :memory: har bir ulanishda alohida baza ochadi
	db.SetMaxOpenConns(1)

	if err := createProductSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteProductStore{db: db}, nil
}

func createProductSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS products (
	id TEXT PRIMARY KEY,
	data TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	seq INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_products_seq ON products (seq);
`
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("schema yaratib bo'lmadi: %w", err)
	}
	return nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: sqlite %s: %v", repository.ErrStore, op, err)
}

func encodeDocument(product entity.Product) (string, error) {
	product.ID = ""
	raw, err := docJSON.MarshalToString(product)
	if err != nil {
		return "", err
	}
	return raw, nil
}

// Create hujjat yaratish
func (s *sqliteProductStore) Create(ctx context.Context, product entity.Product) (string, error) {
	raw, err := encodeDocument(product)
	if err != nil {
		return "", storeErr("encode", err)
	}

	createdAt := product.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	id := uuid.New().String()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO products (id, data, created_at, seq) VALUES (?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM products))`,
		id, raw, createdAt.UTC())
	if err != nil {
		return "", storeErr("insert", err)
	}
	return id, nil
}

// List barcha hujjatlarni yaratilish tartibida olish
func (s *sqliteProductStore) List(ctx context.Context) ([]entity.Product, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, data FROM products ORDER BY seq ASC`)
	if err != nil {
		return nil, storeErr("query", err)
	}
	defer rows.Close()

	products := []entity.Product{}
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, storeErr("scan", err)
		}
		var product entity.Product
		if err := docJSON.UnmarshalFromString(raw, &product); err != nil {
			return nil, storeErr("decode "+id, err)
		}
		product.ID = id
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("rows", err)
	}
	return products, nil
}

// Delete hujjatni o'chirish
func (s *sqliteProductStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id); err != nil {
		return storeErr("delete", err)
	}
	return nil
}

// Replace hujjatni to'liq almashtirish
func (s *sqliteProductStore) Replace(ctx context.Context, product entity.Product) error {
	raw, err := encodeDocument(product)
	if err != nil {
		return storeErr("encode", err)
	}

	res, err := s.db.ExecContext(ctx, `UPDATE products SET data = ? WHERE id = ?`, raw, product.ID)
	if err != nil {
		return storeErr("update", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("update", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %w: %s", repository.ErrStore, repository.ErrProductNotFound, product.ID)
	}
	return nil
}

// Close bazani yopish
func (s *sqliteProductStore) Close() error {
	return s.db.Close()
}
