package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Photo represents one entry in the texture atlas catalog. The image bytes
// live in the atlas itself; the database only records which cell belongs to
// which photo.
type Photo struct {
	ID        string
	Label     string
	CellX     float64
	CellY     float64
	CreatedAt time.Time
}

// PhotoRepository provides CRUD operations for the photo catalog.
type PhotoRepository struct {
	db *sql.DB
}

// Photos returns the photo repository for this store.
func (s *Store) Photos() *PhotoRepository {
	return &PhotoRepository{db: s.db}
}

// Create inserts a new photo into the catalog.
func (r *PhotoRepository) Create(p *Photo) error {
	p.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO photos (id, label, cell_x, cell_y, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Label, p.CellX, p.CellY, p.CreatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a photo by its ID.
func (r *PhotoRepository) GetByID(id string) (*Photo, error) {
	p := &Photo{}

	err := r.db.QueryRow(
		`SELECT id, label, cell_x, cell_y, created_at
		 FROM photos WHERE id = ?`,
		id,
	).Scan(&p.ID, &p.Label, &p.CellX, &p.CellY, &p.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return p, nil
}

// List retrieves all photos from the catalog in insertion order.
func (r *PhotoRepository) List() ([]*Photo, error) {
	rows, err := r.db.Query(
		`SELECT id, label, cell_x, cell_y, created_at
		 FROM photos ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []*Photo
	for rows.Next() {
		p := &Photo{}

		err := rows.Scan(&p.ID, &p.Label, &p.CellX, &p.CellY, &p.CreatedAt)
		if err != nil {
			return nil, err
		}

		photos = append(photos, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return photos, nil
}

// Delete removes a photo from the catalog by its ID.
func (r *PhotoRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM photos WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
