package database

import "time"

// ContactRecord is one desurveyed lithology contact as stored.
type ContactRecord struct {
	ID         int       `gorm:"primaryKey;autoIncrement;column:id"`
	RunID      string    `gorm:"column:run_id;index;not null"`
	HoleID     string    `gorm:"column:hole_id;index;not null"`
	Depth      float64   `gorm:"column:depth;not null"`
	LithoAbove string    `gorm:"column:litho_above"`
	LithoBelow string    `gorm:"column:litho_below"`
	X          float64   `gorm:"column:x"`
	Y          float64   `gorm:"column:y"`
	Z          float64   `gorm:"column:z"`
	CreatedAt  time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
}

// TableName specifies the table name for ContactRecord
func (ContactRecord) TableName() string {
	return "drillhole_contacts"
}

// OrientedContactRecord is one plane-fitted contact as stored.
type OrientedContactRecord struct {
	ID         int       `gorm:"primaryKey;autoIncrement;column:id"`
	RunID      string    `gorm:"column:run_id;index;not null"`
	HoleID     string    `gorm:"column:hole_id;index;not null"`
	Depth      float64   `gorm:"column:depth;not null"`
	LithoAbove string    `gorm:"column:litho_above"`
	LithoBelow string    `gorm:"column:litho_below"`
	X          float64   `gorm:"column:x"`
	Y          float64   `gorm:"column:y"`
	Z          float64   `gorm:"column:z"`
	NX         float64   `gorm:"column:nx"`
	NY         float64   `gorm:"column:ny"`
	NZ         float64   `gorm:"column:nz"`
	DipDeg     float64   `gorm:"column:dip_deg"`
	AzimuthDeg float64   `gorm:"column:azimuth_deg"`
	NNeighbors int       `gorm:"column:n_neighbors"`
	CreatedAt  time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
}

// TableName specifies the table name for OrientedContactRecord
func (OrientedContactRecord) TableName() string {
	return "drillhole_oriented_contacts"
}
