package anniversaries

import (
	"context"
	"database/sql"
	"errors"
)

// AnniversaryRepository defines persistence operations for collections and
// anniversaries. Lookups return (nil, nil) when the row does not exist.
type AnniversaryRepository interface {
	// Collections.
	CreateCollection(ctx context.Context, col *Collection) error
	GetCollection(ctx context.Context, id string) (*Collection, error)
	ListCollections(ctx context.Context) ([]Collection, error)
	UpdateCollection(ctx context.Context, col *Collection) error
	DeleteCollection(ctx context.Context, id string) error

	// Anniversaries.
	Create(ctx context.Context, a *Anniversary) error
	GetByID(ctx context.Context, id int64) (*Anniversary, error)
	ListByCollection(ctx context.Context, collectionID string) ([]Anniversary, error)
	ListVisible(ctx context.Context) ([]Anniversary, error)
	Update(ctx context.Context, a *Anniversary) error
	Delete(ctx context.Context, id int64) error
}

// anniversaryRepo is the MariaDB implementation of AnniversaryRepository.
type anniversaryRepo struct {
	db *sql.DB
}

// NewAnniversaryRepository creates a new MariaDB-backed repository.
func NewAnniversaryRepository(db *sql.DB) AnniversaryRepository {
	return &anniversaryRepo{db: db}
}

const collectionCols = `id, name, description, is_visible, sort_order, created_at, updated_at`

// anniversary_date is read back as text so no time zone touches it.
const anniversaryCols = `a.id, a.collection_id, a.name, DATE_FORMAT(a.anniversary_date, '%Y-%m-%d'),
        a.description, a.created_at, a.updated_at`

type scanner interface{ Scan(...any) error }

func scanCollection(s scanner) (*Collection, error) {
	col := &Collection{}
	err := s.Scan(&col.ID, &col.Name, &col.Description, &col.IsVisible, &col.SortOrder,
		&col.CreatedAt, &col.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return col, err
}

func scanAnniversary(s scanner) (*Anniversary, error) {
	a := &Anniversary{}
	err := s.Scan(&a.ID, &a.CollectionID, &a.Name, &a.Date, &a.Description,
		&a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

func (r *anniversaryRepo) CreateCollection(ctx context.Context, col *Collection) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO collections (id, name, description, is_visible, sort_order)
		 VALUES (?, ?, ?, ?, ?)`,
		col.ID, col.Name, col.Description, col.IsVisible, col.SortOrder,
	)
	return err
}

func (r *anniversaryRepo) GetCollection(ctx context.Context, id string) (*Collection, error) {
	return scanCollection(r.db.QueryRowContext(ctx,
		`SELECT `+collectionCols+` FROM collections WHERE id = ?`, id))
}

// ListCollections returns every collection in display order.
func (r *anniversaryRepo) ListCollections(ctx context.Context) ([]Collection, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+collectionCols+` FROM collections ORDER BY sort_order, created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Collection
	for rows.Next() {
		col, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *col)
	}
	return out, rows.Err()
}

func (r *anniversaryRepo) UpdateCollection(ctx context.Context, col *Collection) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE collections SET name = ?, description = ?, is_visible = ?, sort_order = ?
		 WHERE id = ?`,
		col.Name, col.Description, col.IsVisible, col.SortOrder, col.ID,
	)
	return err
}

// DeleteCollection removes a collection; its anniversaries cascade by FK.
func (r *anniversaryRepo) DeleteCollection(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM collections WHERE id = ?`, id)
	return err
}

// Create inserts an anniversary and sets its generated ID.
func (r *anniversaryRepo) Create(ctx context.Context, a *Anniversary) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO anniversaries (collection_id, name, anniversary_date, description)
		 VALUES (?, ?, ?, ?)`,
		a.CollectionID, a.Name, a.Date, a.Description,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = id
	return nil
}

func (r *anniversaryRepo) GetByID(ctx context.Context, id int64) (*Anniversary, error) {
	return scanAnniversary(r.db.QueryRowContext(ctx,
		`SELECT `+anniversaryCols+` FROM anniversaries a WHERE a.id = ?`, id))
}

func (r *anniversaryRepo) ListByCollection(ctx context.Context, collectionID string) ([]Anniversary, error) {
	return r.list(ctx,
		`SELECT `+anniversaryCols+` FROM anniversaries a
		 WHERE a.collection_id = ?
		 ORDER BY MONTH(a.anniversary_date), DAY(a.anniversary_date), a.id`, collectionID)
}

// ListVisible returns anniversaries whose collection is visible.
func (r *anniversaryRepo) ListVisible(ctx context.Context) ([]Anniversary, error) {
	return r.list(ctx,
		`SELECT `+anniversaryCols+` FROM anniversaries a
		 JOIN collections c ON c.id = a.collection_id
		 WHERE c.is_visible = TRUE
		 ORDER BY c.sort_order, c.created_at, a.id`)
}

func (r *anniversaryRepo) list(ctx context.Context, query string, args ...any) ([]Anniversary, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Anniversary
	for rows.Next() {
		a, err := scanAnniversary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *anniversaryRepo) Update(ctx context.Context, a *Anniversary) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE anniversaries SET collection_id = ?, name = ?, anniversary_date = ?, description = ?
		 WHERE id = ?`,
		a.CollectionID, a.Name, a.Date, a.Description, a.ID,
	)
	return err
}

func (r *anniversaryRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM anniversaries WHERE id = ?`, id)
	return err
}
