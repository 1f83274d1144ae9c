// Package store keeps the reuse-stock inventory in SQLite.
//
// Usage:
//
//	inv, err := store.Open("~/.beamcut/inventory.db", catalog)
//	defer inv.Close()
//	item, err := inv.Add(ctx, model.NewStockItem("HEA 300", 6000, true, price))
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/piwi3910/BeamCut/internal/model"
)

// ErrNotFound is returned when a stock item ID does not exist.
var ErrNotFound = errors.New("store: stock item not found")

const schema = `
CREATE TABLE IF NOT EXISTS stock_items (
	id              TEXT PRIMARY KEY,
	profile_name    TEXT    NOT NULL,
	length_mm       INTEGER NOT NULL CHECK (length_mm > 0),
	harvested       INTEGER NOT NULL DEFAULT 0,
	origin_building TEXT    NOT NULL DEFAULT '',
	source_element  TEXT    NOT NULL DEFAULT '',
	status          TEXT    NOT NULL DEFAULT 'available',
	location        TEXT    NOT NULL DEFAULT '',
	sale_price      TEXT    NOT NULL DEFAULT '0',
	certified       INTEGER NOT NULL DEFAULT 0,
	added_at        TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_stock_profile ON stock_items(profile_name, status);
CREATE INDEX IF NOT EXISTS idx_stock_length ON stock_items(length_mm);
`

const columns = `id, profile_name, length_mm, harvested, origin_building, source_element,
	status, location, sale_price, certified, added_at`

// Inventory is a SQLite-backed stock register. It is safe for concurrent use.
type Inventory struct {
	db      *sql.DB
	catalog *model.Catalog
}

// Open opens (or creates) the inventory database at path. ":memory:" gives a
// private in-memory database. A nil catalog uses the built-in tables.
func Open(path string, catalog *model.Catalog) (*Inventory, error) {
	if catalog == nil {
		catalog = model.BuiltInCatalog()
	}

	memory := path == ":memory:"
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("store: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	if memory {
		// Each connection to ":memory:" is a separate database.
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{"PRAGMA busy_timeout = 10000", "PRAGMA foreign_keys = ON"}
	if !memory {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL", "PRAGMA synchronous = NORMAL")
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: %s: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: schema: %w", err)
	}
	return &Inventory{db: db, catalog: catalog}, nil
}

// Close releases the database.
func (inv *Inventory) Close() error {
	return inv.db.Close()
}

// Ping checks the database is reachable.
func (inv *Inventory) Ping(ctx context.Context) error {
	return inv.db.PingContext(ctx)
}

func canonical(name string) string {
	if t, size, ok := model.ParseProfileName(name); ok {
		return model.ProfileName(t, size)
	}
	return name
}

// Add stores an item. Missing ID, status and timestamp are filled in and the
// profile name is stored in canonical form. The stored item is returned.
func (inv *Inventory) Add(ctx context.Context, item model.StockItem) (model.StockItem, error) {
	if item.Length <= 0 {
		return model.StockItem{}, fmt.Errorf("store: add %q: length must be positive", item.ProfileName)
	}
	if item.ID == "" {
		item.ID = uuid.New().String()[:8]
	}
	if item.Status == "" {
		item.Status = model.StockAvailable
	}
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now().UTC()
	}
	item.ProfileName = canonical(item.ProfileName)

	_, err := inv.db.ExecContext(ctx,
		`INSERT INTO stock_items (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.ProfileName, item.Length, item.Harvested, item.OriginBuilding, item.SourceElement,
		string(item.Status), item.Location, item.SalePrice.String(), item.Certified,
		item.AddedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return model.StockItem{}, fmt.Errorf("store: add %s: %w", item.ID, err)
	}
	return item, nil
}

// Get returns one item by ID.
func (inv *Inventory) Get(ctx context.Context, id string) (model.StockItem, error) {
	row := inv.db.QueryRowContext(ctx, `SELECT `+columns+` FROM stock_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.StockItem{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.StockItem{}, fmt.Errorf("store: get %s: %w", id, err)
	}
	return item, nil
}

// Remove deletes an item.
func (inv *Inventory) Remove(ctx context.Context, id string) error {
	res, err := inv.db.ExecContext(ctx, `DELETE FROM stock_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: remove %s: %w", id, err)
	}
	return expectOne(res, "remove", id)
}

// SetStatus moves an item through the sales flow.
func (inv *Inventory) SetStatus(ctx context.Context, id string, status model.StockStatus) error {
	if _, ok := model.ParseStockStatus(string(status)); !ok {
		return fmt.Errorf("store: set status %s: unknown status %q", id, status)
	}
	res, err := inv.db.ExecContext(ctx, `UPDATE stock_items SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("store: set status %s: %w", id, err)
	}
	return expectOne(res, "set status", id)
}

func expectOne(res sql.Result, op, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: %s %s: %w", op, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", op, id, ErrNotFound)
	}
	return nil
}

// All returns every item, longest first.
func (inv *Inventory) All(ctx context.Context) ([]model.StockItem, error) {
	return inv.query(ctx, `SELECT `+columns+` FROM stock_items ORDER BY length_mm DESC, id`)
}

// FindByProfile returns items of one profile, longest first.
func (inv *Inventory) FindByProfile(ctx context.Context, profile string, onlyAvailable bool) ([]model.StockItem, error) {
	q := `SELECT ` + columns + ` FROM stock_items WHERE profile_name = ?`
	args := []any{canonical(profile)}
	if onlyAvailable {
		q += ` AND status = ?`
		args = append(args, string(model.StockAvailable))
	}
	q += ` ORDER BY length_mm DESC, id`
	return inv.query(ctx, q, args...)
}

// FindByLength returns available items with minLen <= length <= maxLen.
// A maxLen of 0 means no upper bound; an empty profile matches all.
func (inv *Inventory) FindByLength(ctx context.Context, minLen, maxLen int, profile string) ([]model.StockItem, error) {
	q := `SELECT ` + columns + ` FROM stock_items WHERE status = ? AND length_mm >= ?`
	args := []any{string(model.StockAvailable), minLen}
	if maxLen > 0 {
		q += ` AND length_mm <= ?`
		args = append(args, maxLen)
	}
	if profile != "" {
		q += ` AND profile_name = ?`
		args = append(args, canonical(profile))
	}
	q += ` ORDER BY length_mm ASC, id`
	return inv.query(ctx, q, args...)
}

// ProfileTotal summarises available stock of one profile.
type ProfileTotal struct {
	ProfileName string          `json:"profile_name"`
	Count       int             `json:"count"`
	LengthMM    int             `json:"length_mm"`
	WeightKg    float64         `json:"weight_kg"`
	Value       decimal.Decimal `json:"value"`
}

// Totals returns count, length, mass and sale value of available stock per
// profile, ordered by profile name.
func (inv *Inventory) Totals(ctx context.Context) ([]ProfileTotal, error) {
	rows, err := inv.db.QueryContext(ctx,
		`SELECT profile_name, length_mm, sale_price FROM stock_items WHERE status = ?`,
		string(model.StockAvailable))
	if err != nil {
		return nil, fmt.Errorf("store: totals: %w", err)
	}
	defer rows.Close()

	byProfile := make(map[string]*ProfileTotal)
	for rows.Next() {
		var name, price string
		var length int
		if err := rows.Scan(&name, &length, &price); err != nil {
			return nil, fmt.Errorf("store: totals: %w", err)
		}
		t, ok := byProfile[name]
		if !ok {
			t = &ProfileTotal{ProfileName: name, Value: decimal.Zero}
			byProfile[name] = t
		}
		t.Count++
		t.LengthMM += length
		if p, ok := inv.catalog.Find(name); ok {
			t.WeightKg += model.MassKg(length, p.WeightPerMeter)
		}
		if d, err := decimal.NewFromString(price); err == nil {
			t.Value = t.Value.Add(d)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: totals: %w", err)
	}

	out := make([]ProfileTotal, 0, len(byProfile))
	for _, t := range byProfile {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProfileName < out[j].ProfileName })
	return out, nil
}

func (inv *Inventory) query(ctx context.Context, q string, args ...any) ([]model.StockItem, error) {
	rows, err := inv.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query: %w", err)
	}
	defer rows.Close()

	items := []model.StockItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: query: %w", err)
	}
	return items, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (model.StockItem, error) {
	var (
		item             model.StockItem
		status, price    string
		added            string
		harvested, certd bool
	)
	err := s.Scan(&item.ID, &item.ProfileName, &item.Length, &harvested, &item.OriginBuilding,
		&item.SourceElement, &status, &item.Location, &price, &certd, &added)
	if err != nil {
		return model.StockItem{}, err
	}
	item.Harvested = harvested
	item.Certified = certd
	item.Status, _ = model.ParseStockStatus(status)
	if item.SalePrice, err = decimal.NewFromString(price); err != nil {
		return model.StockItem{}, fmt.Errorf("sale price %q: %w", price, err)
	}
	if item.AddedAt, err = time.Parse(time.RFC3339Nano, added); err != nil {
		return model.StockItem{}, fmt.Errorf("added_at %q: %w", added, err)
	}
	return item, nil
}
