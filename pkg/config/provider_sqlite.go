package config

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// sqliteConfigSchema holds one project's configuration in a handful of
// small tables, so site tooling can edit it with any SQLite client.
const sqliteConfigSchema = `
CREATE TABLE IF NOT EXISTS project_config (
	id              INTEGER PRIMARY KEY CHECK (id = 1),
	lithology_table TEXT NOT NULL,
	tie_policy      TEXT NOT NULL DEFAULT '',
	desurvey_step   REAL NOT NULL DEFAULT 0,
	search_radius   REAL NOT NULL DEFAULT 0,
	min_neighbors   INTEGER NOT NULL DEFAULT 0,
	workers         INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS stratigraphy (
	position  INTEGER PRIMARY KEY,
	lithology TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS column_map (
	field       TEXT PRIMARY KEY,
	column_name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS input_files (
	kind       TEXT NOT NULL,
	table_name TEXT NOT NULL DEFAULT '',
	path       TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS storage_config (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// SQLiteProvider implements ConfigProvider for SQLite configuration databases
type SQLiteProvider struct {
	db     *sql.DB
	config *ConfigData
}

// NewSQLiteProvider creates a new SQLite configuration provider, creating
// the schema when the file is new.
func NewSQLiteProvider(filename string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", filename)
	if err != nil {
		return nil, fmt.Errorf("opening config database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to config database: %w", err)
	}
	if _, err := db.Exec(sqliteConfigSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating config schema: %w", err)
	}
	return &SQLiteProvider{db: db}, nil
}

// LoadConfig loads the complete configuration from the database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}

	row := s.db.QueryRow(`SELECT lithology_table, tie_policy, desurvey_step,
		search_radius, min_neighbors, workers FROM project_config WHERE id = 1`)
	err := row.Scan(&config.Project.LithologyTable, &config.Project.TiePolicy,
		&config.Project.DesurveyStep, &config.Project.SearchRadius,
		&config.Project.MinNeighbors, &config.Project.Workers)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("reading project config: %w", err)
	}

	rows, err := s.db.Query(`SELECT lithology FROM stratigraphy ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("reading stratigraphy: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		config.Project.StratigraphicOrder = append(config.Project.StratigraphicOrder, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadColumns(config); err != nil {
		return nil, err
	}
	if err := s.loadInputs(config); err != nil {
		return nil, err
	}
	if err := s.loadStorage(config); err != nil {
		return nil, err
	}

	s.config = config
	return config, nil
}

func (s *SQLiteProvider) loadColumns(config *ConfigData) error {
	rows, err := s.db.Query(`SELECT field, column_name FROM column_map`)
	if err != nil {
		return fmt.Errorf("reading column map: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var field, name string
		if err := rows.Scan(&field, &name); err != nil {
			return err
		}
		switch field {
		case "hole_id":
			config.Columns.HoleID = name
		case "x":
			config.Columns.X = name
		case "y":
			config.Columns.Y = name
		case "z":
			config.Columns.Z = name
		case "total_depth":
			config.Columns.TotalDepth = name
		case "depth":
			config.Columns.Depth = name
		case "azimuth":
			config.Columns.Azimuth = name
		case "dip":
			config.Columns.Dip = name
		case "from":
			config.Columns.From = name
		case "to":
			config.Columns.To = name
		case "value":
			config.Columns.Value = name
		}
	}
	return rows.Err()
}

func (s *SQLiteProvider) loadInputs(config *ConfigData) error {
	rows, err := s.db.Query(`SELECT kind, table_name, path FROM input_files`)
	if err != nil {
		return fmt.Errorf("reading input files: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var kind, table, path string
		if err := rows.Scan(&kind, &table, &path); err != nil {
			return err
		}
		switch kind {
		case "collars":
			config.Input.Collars = path
		case "survey":
			config.Input.Survey = path
		case "interval":
			if config.Input.Intervals == nil {
				config.Input.Intervals = make(map[string]string)
			}
			config.Input.Intervals[table] = path
		case "point":
			if config.Input.Points == nil {
				config.Input.Points = make(map[string]string)
			}
			config.Input.Points[table] = path
		}
	}
	return rows.Err()
}

func (s *SQLiteProvider) loadStorage(config *ConfigData) error {
	rows, err := s.db.Query(`SELECT key, value FROM storage_config`)
	if err != nil {
		return fmt.Errorf("reading storage config: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return err
		}
		switch key {
		case "sqlite_path":
			config.Storage.SQLite = &SQLiteData{Path: value}
		case "postgres_connection_string":
			config.Storage.Postgres = &PostgresData{ConnectionString: value}
		case "contact_set":
			config.Storage.Outputs.ContactSet = value
		case "oriented_set":
			config.Storage.Outputs.OrientedSet = value
		case "contact_file":
			config.Storage.Outputs.ContactFile = value
		case "oriented_file":
			config.Storage.Outputs.OrientedFile = value
		}
	}
	return rows.Err()
}

// SaveConfig writes a complete configuration, replacing what is stored.
func (s *SQLiteProvider) SaveConfig(config *ConfigData) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"project_config", "stratigraphy", "column_map", "input_files", "storage_config"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	_, err = tx.Exec(`INSERT INTO project_config
		(id, lithology_table, tie_policy, desurvey_step, search_radius, min_neighbors, workers)
		VALUES (1, ?, ?, ?, ?, ?, ?)`,
		config.Project.LithologyTable, config.Project.TiePolicy, config.Project.DesurveyStep,
		config.Project.SearchRadius, config.Project.MinNeighbors, config.Project.Workers)
	if err != nil {
		return fmt.Errorf("writing project config: %w", err)
	}

	for i, name := range config.Project.StratigraphicOrder {
		if _, err := tx.Exec(`INSERT INTO stratigraphy (position, lithology) VALUES (?, ?)`, i, name); err != nil {
			return fmt.Errorf("writing stratigraphy: %w", err)
		}
	}

	columns := map[string]string{
		"hole_id": config.Columns.HoleID, "x": config.Columns.X, "y": config.Columns.Y,
		"z": config.Columns.Z, "total_depth": config.Columns.TotalDepth,
		"depth": config.Columns.Depth, "azimuth": config.Columns.Azimuth,
		"dip": config.Columns.Dip, "from": config.Columns.From,
		"to": config.Columns.To, "value": config.Columns.Value,
	}
	for field, name := range columns {
		if name == "" {
			continue
		}
		if _, err := tx.Exec(`INSERT INTO column_map (field, column_name) VALUES (?, ?)`, field, name); err != nil {
			return fmt.Errorf("writing column map: %w", err)
		}
	}

	if config.Input.Collars != "" {
		if _, err := tx.Exec(`INSERT INTO input_files (kind, path) VALUES ('collars', ?)`, config.Input.Collars); err != nil {
			return err
		}
	}
	if config.Input.Survey != "" {
		if _, err := tx.Exec(`INSERT INTO input_files (kind, path) VALUES ('survey', ?)`, config.Input.Survey); err != nil {
			return err
		}
	}
	for table, path := range config.Input.Intervals {
		if _, err := tx.Exec(`INSERT INTO input_files (kind, table_name, path) VALUES ('interval', ?, ?)`, table, path); err != nil {
			return err
		}
	}
	for table, path := range config.Input.Points {
		if _, err := tx.Exec(`INSERT INTO input_files (kind, table_name, path) VALUES ('point', ?, ?)`, table, path); err != nil {
			return err
		}
	}

	storage := map[string]string{
		"contact_set":   config.Storage.Outputs.ContactSet,
		"oriented_set":  config.Storage.Outputs.OrientedSet,
		"contact_file":  config.Storage.Outputs.ContactFile,
		"oriented_file": config.Storage.Outputs.OrientedFile,
	}
	if config.Storage.SQLite != nil {
		storage["sqlite_path"] = config.Storage.SQLite.Path
	}
	if config.Storage.Postgres != nil {
		storage["postgres_connection_string"] = config.Storage.Postgres.ConnectionString
	}
	for key, value := range storage {
		if value == "" {
			continue
		}
		if _, err := tx.Exec(`INSERT INTO storage_config (key, value) VALUES (?, ?)`, key, value); err != nil {
			return fmt.Errorf("writing storage config: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.config = config
	return nil
}

// GetProject returns the project section
func (s *SQLiteProvider) GetProject() (*ProjectData, error) {
	if s.config == nil {
		_, err := s.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &s.config.Project, nil
}

// GetColumns returns the column mapping section
func (s *SQLiteProvider) GetColumns() (*ColumnsData, error) {
	if s.config == nil {
		_, err := s.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &s.config.Columns, nil
}

// GetInputs returns the input file section
func (s *SQLiteProvider) GetInputs() (*InputData, error) {
	if s.config == nil {
		_, err := s.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &s.config.Input, nil
}

// GetStorage returns storage configuration
func (s *SQLiteProvider) GetStorage() (*StorageData, error) {
	if s.config == nil {
		_, err := s.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &s.config.Storage, nil
}

// IsReadOnly returns false since SQLite configurations can be modified
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	return s.db.Close()
}
