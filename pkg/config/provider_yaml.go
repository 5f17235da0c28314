package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	// Load into temporary struct with YAML tags
	var yamlConfig struct {
		Project ProjectYAML `yaml:"project"`
		Columns ColumnsYAML `yaml:"columns,omitempty"`
		Input   InputYAML   `yaml:"input,omitempty"`
		Storage StorageYAML `yaml:"storage,omitempty"`
	}

	err = yaml.Unmarshal(cfgFile, &yamlConfig)
	if err != nil {
		return nil, err
	}

	// Convert to our internal format
	config := &ConfigData{
		Project: ProjectData{
			LithologyTable:     yamlConfig.Project.LithologyTable,
			StratigraphicOrder: yamlConfig.Project.StratigraphicOrder,
			TiePolicy:          yamlConfig.Project.TiePolicy,
			DesurveyStep:       yamlConfig.Project.DesurveyStep,
			SearchRadius:       yamlConfig.Project.SearchRadius,
			MinNeighbors:       yamlConfig.Project.MinNeighbors,
			Workers:            yamlConfig.Project.Workers,
		},
		Columns: ColumnsData{
			HoleID:     yamlConfig.Columns.HoleID,
			X:          yamlConfig.Columns.X,
			Y:          yamlConfig.Columns.Y,
			Z:          yamlConfig.Columns.Z,
			TotalDepth: yamlConfig.Columns.TotalDepth,
			Depth:      yamlConfig.Columns.Depth,
			Azimuth:    yamlConfig.Columns.Azimuth,
			Dip:        yamlConfig.Columns.Dip,
			From:       yamlConfig.Columns.From,
			To:         yamlConfig.Columns.To,
			Value:      yamlConfig.Columns.Value,
		},
		Input: InputData{
			Collars:   yamlConfig.Input.Collars,
			Survey:    yamlConfig.Input.Survey,
			Intervals: yamlConfig.Input.Intervals,
			Points:    yamlConfig.Input.Points,
		},
	}

	config.Storage = StorageData{
		Outputs: OutputData{
			ContactSet:   yamlConfig.Storage.Outputs.ContactSet,
			OrientedSet:  yamlConfig.Storage.Outputs.OrientedSet,
			ContactFile:  yamlConfig.Storage.Outputs.ContactFile,
			OrientedFile: yamlConfig.Storage.Outputs.OrientedFile,
		},
	}
	if yamlConfig.Storage.SQLite != nil {
		config.Storage.SQLite = &SQLiteData{
			Path: yamlConfig.Storage.SQLite.Path,
		}
	}
	if yamlConfig.Storage.Postgres != nil {
		config.Storage.Postgres = &PostgresData{
			ConnectionString: yamlConfig.Storage.Postgres.ConnectionString,
		}
	}

	y.config = config
	return config, nil
}

// GetProject returns the project section
func (y *YAMLProvider) GetProject() (*ProjectData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &y.config.Project, nil
}

// GetColumns returns the column mapping section
func (y *YAMLProvider) GetColumns() (*ColumnsData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &y.config.Columns, nil
}

// GetInputs returns the input file section
func (y *YAMLProvider) GetInputs() (*InputData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &y.config.Input, nil
}

// GetStorage returns storage configuration
func (y *YAMLProvider) GetStorage() (*StorageData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &y.config.Storage, nil
}

// IsReadOnly returns true since YAML files are read-only through this interface
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

// YAML-specific structs with proper YAML tags for parsing the file format
type ProjectYAML struct {
	LithologyTable     string   `yaml:"lithology-table"`
	StratigraphicOrder []string `yaml:"stratigraphic-order,omitempty"`
	TiePolicy          string   `yaml:"tie-policy,omitempty"`
	DesurveyStep       float64  `yaml:"desurvey-step,omitempty"`
	SearchRadius       float64  `yaml:"search-radius,omitempty"`
	MinNeighbors       int      `yaml:"min-neighbors,omitempty"`
	Workers            int      `yaml:"workers,omitempty"`
}

type ColumnsYAML struct {
	HoleID     string `yaml:"hole-id,omitempty"`
	X          string `yaml:"x,omitempty"`
	Y          string `yaml:"y,omitempty"`
	Z          string `yaml:"z,omitempty"`
	TotalDepth string `yaml:"total-depth,omitempty"`
	Depth      string `yaml:"depth,omitempty"`
	Azimuth    string `yaml:"azimuth,omitempty"`
	Dip        string `yaml:"dip,omitempty"`
	From       string `yaml:"from,omitempty"`
	To         string `yaml:"to,omitempty"`
	Value      string `yaml:"value,omitempty"`
}

type InputYAML struct {
	Collars   string            `yaml:"collars"`
	Survey    string            `yaml:"survey,omitempty"`
	Intervals map[string]string `yaml:"intervals,omitempty"`
	Points    map[string]string `yaml:"points,omitempty"`
}

type StorageYAML struct {
	SQLite   *SQLiteYAML   `yaml:"sqlite,omitempty"`
	Postgres *PostgresYAML `yaml:"postgres,omitempty"`
	Outputs  OutputYAML    `yaml:"outputs,omitempty"`
}

type SQLiteYAML struct {
	Path string `yaml:"path"`
}

type PostgresYAML struct {
	ConnectionString string `yaml:"connection-string"`
}

type OutputYAML struct {
	ContactSet   string `yaml:"contact-set,omitempty"`
	OrientedSet  string `yaml:"oriented-set,omitempty"`
	ContactFile  string `yaml:"contact-file,omitempty"`
	OrientedFile string `yaml:"oriented-file,omitempty"`
}
