// Package database writes pipeline results to a shared relational
// database, for sites that centralize contact picks from many projects.
package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Loop3D/loopresources/internal/log"
	"github.com/Loop3D/loopresources/internal/types"
)

// Client holds the connection to the results database.
type Client struct {
	DB     *gorm.DB
	logger *zap.SugaredLogger
}

// NewClient connects to Postgres and migrates the result tables.
func NewClient(connectionString string, zlog *zap.SugaredLogger) (*Client, error) {
	dbLogger := logger.New(
		zap.NewStdLog(log.GetZapLogger()),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(postgres.Open(connectionString), &gorm.Config{Logger: dbLogger})
	if err != nil {
		return nil, fmt.Errorf("unable to connect to results database: %w", err)
	}
	if err := db.AutoMigrate(&ContactRecord{}, &OrientedContactRecord{}); err != nil {
		return nil, fmt.Errorf("unable to migrate result tables: %w", err)
	}

	return &Client{DB: db, logger: zlog}, nil
}

// SaveContacts inserts a batch of contact points under a run id.
func (c *Client) SaveContacts(runID uuid.UUID, contacts []types.ContactPoint) error {
	if len(contacts) == 0 {
		return nil
	}
	records := make([]ContactRecord, len(contacts))
	for i, p := range contacts {
		records[i] = ContactRecord{
			RunID:      runID.String(),
			HoleID:     p.HoleID,
			Depth:      p.Depth,
			LithoAbove: p.Above,
			LithoBelow: p.Below,
			X:          p.X,
			Y:          p.Y,
			Z:          p.Z,
		}
	}
	if err := c.DB.Create(&records).Error; err != nil {
		return fmt.Errorf("error inserting contact batch: %w", err)
	}
	c.logger.Infof("stored %d contacts for run %s", len(records), runID)
	return nil
}

// SaveOrientedContacts inserts a batch of oriented contacts under a run id.
func (c *Client) SaveOrientedContacts(runID uuid.UUID, oriented []types.OrientedContact) error {
	if len(oriented) == 0 {
		return nil
	}
	records := make([]OrientedContactRecord, len(oriented))
	for i, o := range oriented {
		records[i] = OrientedContactRecord{
			RunID:      runID.String(),
			HoleID:     o.HoleID,
			Depth:      o.Depth,
			LithoAbove: o.Above,
			LithoBelow: o.Below,
			X:          o.X,
			Y:          o.Y,
			Z:          o.Z,
			NX:         o.NX,
			NY:         o.NY,
			NZ:         o.NZ,
			DipDeg:     o.DipDeg,
			AzimuthDeg: o.AzimuthDeg,
			NNeighbors: o.NNeighbors,
		}
	}
	if err := c.DB.Create(&records).Error; err != nil {
		return fmt.Errorf("error inserting oriented contact batch: %w", err)
	}
	c.logger.Infof("stored %d oriented contacts for run %s", len(records), runID)
	return nil
}
