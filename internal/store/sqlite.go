package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/Loop3D/loopresources/internal/types"
)

// SQLite is the persistent file backend. Reads are scoped per hole so a
// query for one hole never loads whole tables into memory.
type SQLite struct {
	db     *sql.DB
	dbPath string
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS collars (
	hole_id     TEXT PRIMARY KEY,
	x           REAL NOT NULL,
	y           REAL NOT NULL,
	z           REAL NOT NULL,
	total_depth REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS survey_stations (
	hole_id TEXT NOT NULL REFERENCES collars(hole_id),
	depth   REAL NOT NULL,
	azimuth REAL NOT NULL,
	dip     REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_survey_hole ON survey_stations(hole_id, depth);
CREATE TABLE IF NOT EXISTS interval_rows (
	table_name TEXT NOT NULL,
	hole_id    TEXT NOT NULL REFERENCES collars(hole_id),
	from_depth REAL NOT NULL,
	to_depth   REAL NOT NULL,
	value      TEXT
);
CREATE INDEX IF NOT EXISTS idx_interval_table_hole ON interval_rows(table_name, hole_id, from_depth);
CREATE TABLE IF NOT EXISTS point_rows (
	table_name TEXT NOT NULL,
	hole_id    TEXT NOT NULL REFERENCES collars(hole_id),
	depth      REAL NOT NULL,
	value      TEXT
);
CREATE INDEX IF NOT EXISTS idx_point_table_hole ON point_rows(table_name, hole_id, depth);
CREATE TABLE IF NOT EXISTS contacts (
	set_name    TEXT NOT NULL,
	hole_id     TEXT NOT NULL,
	depth       REAL NOT NULL,
	litho_above TEXT,
	litho_below TEXT,
	x REAL, y REAL, z REAL
);
CREATE TABLE IF NOT EXISTS oriented_contacts (
	set_name    TEXT NOT NULL,
	hole_id     TEXT NOT NULL,
	depth       REAL NOT NULL,
	litho_above TEXT,
	litho_below TEXT,
	x REAL, y REAL, z REAL,
	nx REAL, ny REAL, nz REAL,
	dip_deg REAL, azimuth_deg REAL,
	n_neighbors INTEGER
);
`

// NewSQLite opens (or creates) a drillhole database file.
func NewSQLite(dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &SQLite{db: db, dbPath: dbPath}, nil
}

// PutCollars loads the collar table, rejecting duplicate hole ids.
func (s *SQLite) PutCollars(collars []types.Collar) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, c := range collars {
		var n int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM collars WHERE hole_id = ?`, c.HoleID).Scan(&n); err != nil {
			return fmt.Errorf("failed to check collar %s: %w", c.HoleID, err)
		}
		if n > 0 {
			return fmt.Errorf("hole %s: %w", c.HoleID, ErrDuplicateHole)
		}
		if _, err := tx.Exec(`INSERT INTO collars (hole_id, x, y, z, total_depth) VALUES (?, ?, ?, ?, ?)`,
			c.HoleID, c.X, c.Y, c.Z, c.TotalDepth); err != nil {
			return fmt.Errorf("failed to insert collar %s: %w", c.HoleID, err)
		}
	}
	return tx.Commit()
}

// PutSurvey loads survey stations after checking their holes exist.
// Degree-valued angle columns are normalized to radians, as in the memory
// backend.
func (s *SQLite) PutSurvey(rows []types.SurveyRow) error {
	rows = normalizeAngles(rows)
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, r := range rows {
		var n int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM collars WHERE hole_id = ?`, r.HoleID).Scan(&n); err != nil {
			return fmt.Errorf("failed to check hole %s: %w", r.HoleID, err)
		}
		if n == 0 {
			return fmt.Errorf("survey row for hole %s: %w", r.HoleID, ErrUnknownHole)
		}
		if _, err := tx.Exec(`INSERT INTO survey_stations (hole_id, depth, azimuth, dip) VALUES (?, ?, ?, ?)`,
			r.HoleID, r.Depth, r.Azimuth, r.Dip); err != nil {
			return fmt.Errorf("failed to insert survey row for %s: %w", r.HoleID, err)
		}
	}
	return tx.Commit()
}

// AddIntervalTable registers rows of a named interval table.
func (s *SQLite) AddIntervalTable(name string, rows []types.IntervalRow) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, r := range rows {
		var n int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM collars WHERE hole_id = ?`, r.HoleID).Scan(&n); err != nil {
			return fmt.Errorf("failed to check hole %s: %w", r.HoleID, err)
		}
		if n == 0 {
			return fmt.Errorf("interval table %s, hole %s: %w", name, r.HoleID, ErrUnknownHole)
		}
		if _, err := tx.Exec(`INSERT INTO interval_rows (table_name, hole_id, from_depth, to_depth, value) VALUES (?, ?, ?, ?, ?)`,
			name, r.HoleID, r.From, r.To, r.Value); err != nil {
			return fmt.Errorf("failed to insert interval row: %w", err)
		}
	}
	return tx.Commit()
}

// AddPointTable registers rows of a named point table.
func (s *SQLite) AddPointTable(name string, rows []types.PointRow) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, r := range rows {
		var n int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM collars WHERE hole_id = ?`, r.HoleID).Scan(&n); err != nil {
			return fmt.Errorf("failed to check hole %s: %w", r.HoleID, err)
		}
		if n == 0 {
			return fmt.Errorf("point table %s, hole %s: %w", name, r.HoleID, ErrUnknownHole)
		}
		if _, err := tx.Exec(`INSERT INTO point_rows (table_name, hole_id, depth, value) VALUES (?, ?, ?, ?)`,
			name, r.HoleID, r.Depth, r.Value); err != nil {
			return fmt.Errorf("failed to insert point row: %w", err)
		}
	}
	return tx.Commit()
}

// ListHoles returns all hole ids, sorted.
func (s *SQLite) ListHoles() ([]string, error) {
	rows, err := s.db.Query(`SELECT hole_id FROM collars ORDER BY hole_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query holes: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan hole id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Collar returns the collar record for one hole.
func (s *SQLite) Collar(holeID string) (types.Collar, error) {
	var c types.Collar
	err := s.db.QueryRow(`SELECT hole_id, x, y, z, total_depth FROM collars WHERE hole_id = ?`, holeID).
		Scan(&c.HoleID, &c.X, &c.Y, &c.Z, &c.TotalDepth)
	if err == sql.ErrNoRows {
		return types.Collar{}, fmt.Errorf("hole %s: %w", holeID, ErrUnknownHole)
	}
	if err != nil {
		return types.Collar{}, fmt.Errorf("failed to query collar %s: %w", holeID, err)
	}
	return c, nil
}

// Collars returns all collar records.
func (s *SQLite) Collars() ([]types.Collar, error) {
	rows, err := s.db.Query(`SELECT hole_id, x, y, z, total_depth FROM collars ORDER BY hole_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query collars: %w", err)
	}
	defer rows.Close()

	var out []types.Collar
	for rows.Next() {
		var c types.Collar
		if err := rows.Scan(&c.HoleID, &c.X, &c.Y, &c.Z, &c.TotalDepth); err != nil {
			return nil, fmt.Errorf("failed to scan collar: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Survey returns one hole's stations ordered by depth. Only that hole's
// rows are fetched.
func (s *SQLite) Survey(holeID string) ([]types.SurveyRow, error) {
	if _, err := s.Collar(holeID); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(`SELECT hole_id, depth, azimuth, dip FROM survey_stations WHERE hole_id = ? ORDER BY depth`, holeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query survey for %s: %w", holeID, err)
	}
	defer rows.Close()

	var out []types.SurveyRow
	for rows.Next() {
		var r types.SurveyRow
		if err := rows.Scan(&r.HoleID, &r.Depth, &r.Azimuth, &r.Dip); err != nil {
			return nil, fmt.Errorf("failed to scan survey row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// IntervalTable returns one hole's rows of a named interval table.
func (s *SQLite) IntervalTable(name, holeID string) ([]types.IntervalRow, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM interval_rows WHERE table_name = ?`, name).Scan(&n); err != nil {
		return nil, fmt.Errorf("failed to check interval table %s: %w", name, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("interval table %s: %w", name, ErrUnknownTable)
	}

	rows, err := s.db.Query(`SELECT hole_id, from_depth, to_depth, value FROM interval_rows WHERE table_name = ? AND hole_id = ? ORDER BY from_depth`, name, holeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query interval table %s for %s: %w", name, holeID, err)
	}
	defer rows.Close()

	var out []types.IntervalRow
	for rows.Next() {
		var r types.IntervalRow
		if err := rows.Scan(&r.HoleID, &r.From, &r.To, &r.Value); err != nil {
			return nil, fmt.Errorf("failed to scan interval row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// PointTable returns one hole's rows of a named point table.
func (s *SQLite) PointTable(name, holeID string) ([]types.PointRow, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM point_rows WHERE table_name = ?`, name).Scan(&n); err != nil {
		return nil, fmt.Errorf("failed to check point table %s: %w", name, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("point table %s: %w", name, ErrUnknownTable)
	}

	rows, err := s.db.Query(`SELECT hole_id, depth, value FROM point_rows WHERE table_name = ? AND hole_id = ? ORDER BY depth`, name, holeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query point table %s for %s: %w", name, holeID, err)
	}
	defer rows.Close()

	var out []types.PointRow
	for rows.Next() {
		var r types.PointRow
		if err := rows.Scan(&r.HoleID, &r.Depth, &r.Value); err != nil {
			return nil, fmt.Errorf("failed to scan point row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Extent returns the bounding box of all collar locations.
func (s *SQLite) Extent() (Extent, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM collars`).Scan(&n); err != nil {
		return Extent{}, fmt.Errorf("failed to count collars: %w", err)
	}
	if n == 0 {
		return Extent{}, nil
	}
	var e Extent
	err := s.db.QueryRow(`SELECT MIN(x), MAX(x), MIN(y), MAX(y), MIN(z), MAX(z) FROM collars`).
		Scan(&e.XMin, &e.XMax, &e.YMin, &e.YMax, &e.ZMin, &e.ZMax)
	if err != nil {
		return Extent{}, fmt.Errorf("failed to query extent: %w", err)
	}
	return e, nil
}

// SaveContacts replaces a named contact result set.
func (s *SQLite) SaveContacts(name string, contacts []types.ContactPoint) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM contacts WHERE set_name = ?`, name); err != nil {
		return fmt.Errorf("failed to clear contact set %s: %w", name, err)
	}
	for _, c := range contacts {
		if _, err := tx.Exec(`INSERT INTO contacts (set_name, hole_id, depth, litho_above, litho_below, x, y, z) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			name, c.HoleID, c.Depth, c.Above, c.Below, c.X, c.Y, c.Z); err != nil {
			return fmt.Errorf("failed to insert contact: %w", err)
		}
	}
	return tx.Commit()
}

// SaveOrientedContacts replaces a named oriented contact result set.
func (s *SQLite) SaveOrientedContacts(name string, oriented []types.OrientedContact) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM oriented_contacts WHERE set_name = ?`, name); err != nil {
		return fmt.Errorf("failed to clear oriented contact set %s: %w", name, err)
	}
	for _, o := range oriented {
		if _, err := tx.Exec(`INSERT INTO oriented_contacts (set_name, hole_id, depth, litho_above, litho_below, x, y, z, nx, ny, nz, dip_deg, azimuth_deg, n_neighbors) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			name, o.HoleID, o.Depth, o.Above, o.Below, o.X, o.Y, o.Z,
			o.NX, o.NY, o.NZ, o.DipDeg, o.AzimuthDeg, o.NNeighbors); err != nil {
			return fmt.Errorf("failed to insert oriented contact: %w", err)
		}
	}
	return tx.Commit()
}

// Contacts returns a previously saved contact result set.
func (s *SQLite) Contacts(name string) ([]types.ContactPoint, error) {
	rows, err := s.db.Query(`SELECT hole_id, depth, litho_above, litho_below, x, y, z FROM contacts WHERE set_name = ? ORDER BY hole_id, depth`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query contact set %s: %w", name, err)
	}
	defer rows.Close()

	var out []types.ContactPoint
	for rows.Next() {
		var c types.ContactPoint
		if err := rows.Scan(&c.HoleID, &c.Depth, &c.Above, &c.Below, &c.X, &c.Y, &c.Z); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// OrientedContacts returns a previously saved oriented contact result set.
func (s *SQLite) OrientedContacts(name string) ([]types.OrientedContact, error) {
	rows, err := s.db.Query(`SELECT hole_id, depth, litho_above, litho_below, x, y, z, nx, ny, nz, dip_deg, azimuth_deg, n_neighbors FROM oriented_contacts WHERE set_name = ? ORDER BY hole_id, depth`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query oriented contact set %s: %w", name, err)
	}
	defer rows.Close()

	var out []types.OrientedContact
	for rows.Next() {
		var o types.OrientedContact
		if err := rows.Scan(&o.HoleID, &o.Depth, &o.Above, &o.Below, &o.X, &o.Y, &o.Z,
			&o.NX, &o.NY, &o.NZ, &o.DipDeg, &o.AzimuthDeg, &o.NNeighbors); err != nil {
			return nil, fmt.Errorf("failed to scan oriented contact: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Close closes the underlying database file.
func (s *SQLite) Close() error { return s.db.Close() }
