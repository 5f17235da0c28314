package config

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetProject() (*ProjectData, error)
	GetColumns() (*ColumnsData, error)
	GetInputs() (*InputData, error)
	GetStorage() (*StorageData, error)

	// Configuration management
	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Project ProjectData `json:"project"`
	Columns ColumnsData `json:"columns,omitempty"`
	Input   InputData   `json:"input,omitempty"`
	Storage StorageData `json:"storage,omitempty"`
}

// ProjectData holds the geometry and extraction settings of one project
type ProjectData struct {
	LithologyTable     string   `json:"lithology_table"`
	StratigraphicOrder []string `json:"stratigraphic_order,omitempty"`
	TiePolicy          string   `json:"tie_policy,omitempty"` // "shallowest" or "deepest"
	DesurveyStep       float64  `json:"desurvey_step,omitempty"`
	SearchRadius       float64  `json:"search_radius,omitempty"`
	MinNeighbors       int      `json:"min_neighbors,omitempty"`
	Workers            int      `json:"workers,omitempty"`
}

// ColumnsData maps logical fields to the CSV column names of the source
// export. Empty fields fall back to the conventional names.
type ColumnsData struct {
	HoleID     string `json:"hole_id,omitempty"`
	X          string `json:"x,omitempty"`
	Y          string `json:"y,omitempty"`
	Z          string `json:"z,omitempty"`
	TotalDepth string `json:"total_depth,omitempty"`
	Depth      string `json:"depth,omitempty"`
	Azimuth    string `json:"azimuth,omitempty"`
	Dip        string `json:"dip,omitempty"`
	From       string `json:"from,omitempty"`
	To         string `json:"to,omitempty"`
	Value      string `json:"value,omitempty"`
}

// InputData names the CSV sources to import
type InputData struct {
	Collars   string            `json:"collars"`
	Survey    string            `json:"survey,omitempty"`
	Intervals map[string]string `json:"intervals,omitempty"`
	Points    map[string]string `json:"points,omitempty"`
}

// StorageData holds the configuration for various storage backends
type StorageData struct {
	SQLite   *SQLiteData   `json:"sqlite,omitempty"`
	Postgres *PostgresData `json:"postgres,omitempty"`
	Outputs  OutputData    `json:"outputs,omitempty"`
}

// SQLiteData configures the file-backed drillhole store
type SQLiteData struct {
	Path string `json:"path"`
}

// PostgresData configures the shared results database
type PostgresData struct {
	ConnectionString string `json:"connection_string"`
}

// OutputData names the result sets and export files a run writes
type OutputData struct {
	ContactSet   string `json:"contact_set,omitempty"`
	OrientedSet  string `json:"oriented_set,omitempty"`
	ContactFile  string `json:"contact_file,omitempty"`
	OrientedFile string `json:"oriented_file,omitempty"`
}
