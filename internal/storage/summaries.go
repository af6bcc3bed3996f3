package storage

import (
	"database/sql"
	"fmt"

	"github.com/SeamusWaldron/gocube_tables/internal/cube"
	"github.com/SeamusWaldron/gocube_tables/internal/tables"
)

// DistanceRepository stores the rows of generated distance tables.
type DistanceRepository struct {
	db *DB
}

// NewDistanceRepository creates a new distance repository.
func NewDistanceRepository(db *DB) *DistanceRepository {
	return &DistanceRepository{db: db}
}

// SaveTable stores every pair of a distance table under a run.
func (r *DistanceRepository) SaveTable(runID string, t *tables.DistanceTable) error {
	return r.db.Transaction(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO distances (run_id, from_pos, to_pos, distance)
			VALUES (?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare distance insert: %w", err)
		}
		defer stmt.Close()

		for _, a := range t.Positions() {
			for _, b := range t.Positions() {
				d, _ := t.Get(a, b)
				if _, err := stmt.Exec(runID, a.Index(), b.Index(), d); err != nil {
					return fmt.Errorf("failed to insert distance %s: %w", tables.PairLiteral(a, b), err)
				}
			}
		}
		return nil
	})
}

// Get returns the stored distance for one pair.
func (r *DistanceRepository) Get(runID string, from, to cube.Position) (int, error) {
	var d int
	err := r.db.QueryRow(`
		SELECT distance FROM distances
		WHERE run_id = ? AND from_pos = ? AND to_pos = ?
	`, runID, from.Index(), to.Index()).Scan(&d)
	if err != nil {
		return 0, fmt.Errorf("failed to get distance: %w", err)
	}
	return d, nil
}

// Histogram counts pairs per distance for a run.
func (r *DistanceRepository) Histogram(runID string) (map[int]int, error) {
	rows, err := r.db.Query(`
		SELECT distance, COUNT(*) FROM distances
		WHERE run_id = ?
		GROUP BY distance
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get distance histogram: %w", err)
	}
	defer rows.Close()

	hist := make(map[int]int)
	for rows.Next() {
		var d, n int
		if err := rows.Scan(&d, &n); err != nil {
			return nil, fmt.Errorf("failed to scan histogram row: %w", err)
		}
		hist[d] = n
	}
	return hist, rows.Err()
}

// PathCount is the number of sequences of one length for a pair.
type PathCount struct {
	From      cube.Position
	To        cube.Position
	Length    int
	Sequences int
}

// PathCountRepository stores per-length sequence counts of path tables.
// The sequences themselves stay in the table file.
type PathCountRepository struct {
	db *DB
}

// NewPathCountRepository creates a new path count repository.
func NewPathCountRepository(db *DB) *PathCountRepository {
	return &PathCountRepository{db: db}
}

// SaveTable stores the sequence count of every pair and length under a run.
func (r *PathCountRepository) SaveTable(runID string, t *tables.PathTable) error {
	return r.db.Transaction(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO path_counts (run_id, from_pos, to_pos, length, sequences)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare path count insert: %w", err)
		}
		defer stmt.Close()

		for _, a := range t.Positions() {
			for _, b := range t.Positions() {
				for _, l := range t.Lengths(a, b) {
					n := len(t.Sequences(a, b, l))
					if _, err := stmt.Exec(runID, a.Index(), b.Index(), l, n); err != nil {
						return fmt.Errorf("failed to insert path count %s: %w", tables.PairLiteral(a, b), err)
					}
				}
			}
		}
		return nil
	})
}

// ForPair returns the counts for one pair ordered by length.
func (r *PathCountRepository) ForPair(runID string, from, to cube.Position) ([]PathCount, error) {
	rows, err := r.db.Query(`
		SELECT from_pos, to_pos, length, sequences FROM path_counts
		WHERE run_id = ? AND from_pos = ? AND to_pos = ?
		ORDER BY length
	`, runID, from.Index(), to.Index())
	if err != nil {
		return nil, fmt.Errorf("failed to get path counts: %w", err)
	}
	defer rows.Close()

	var counts []PathCount
	for rows.Next() {
		var c PathCount
		var f, t int
		if err := rows.Scan(&f, &t, &c.Length, &c.Sequences); err != nil {
			return nil, fmt.Errorf("failed to scan path count: %w", err)
		}
		c.From = cube.PositionFromIndex(f)
		c.To = cube.PositionFromIndex(t)
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// TotalsByLength sums sequence counts per length over all pairs of a run.
func (r *PathCountRepository) TotalsByLength(runID string) (map[int]int64, error) {
	rows, err := r.db.Query(`
		SELECT length, SUM(sequences) FROM path_counts
		WHERE run_id = ?
		GROUP BY length
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get path totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[int]int64)
	for rows.Next() {
		var l int
		var n int64
		if err := rows.Scan(&l, &n); err != nil {
			return nil, fmt.Errorf("failed to scan path total: %w", err)
		}
		totals[l] = n
	}
	return totals, rows.Err()
}
