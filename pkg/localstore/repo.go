package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	pkgerrors "github.com/mesaeats/mesa-client/pkg/errors"
	"github.com/mesaeats/mesa-client/pkg/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const sessionRowID = 1

// Repository persists sessions and menu snapshots.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires the repository to a local store connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SaveSession upserts the single persisted session.
func (r *Repository) SaveSession(ctx context.Context, session types.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode session")
	}
	record := SessionRecord{ID: sessionRowID, Payload: payload, UpdatedAt: time.Now().UTC()}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&record).Error
}

// LoadSession returns the persisted session, or NotFound when absent.
func (r *Repository) LoadSession(ctx context.Context) (*types.Session, error) {
	var record SessionRecord
	if err := r.db.WithContext(ctx).First(&record, sessionRowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no saved session")
		}
		return nil, err
	}
	var session types.Session
	if err := json.Unmarshal(record.Payload, &session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode session")
	}
	return &session, nil
}

// ClearSession drops the persisted session, if any.
func (r *Repository) ClearSession(ctx context.Context) error {
	return r.db.WithContext(ctx).Delete(&SessionRecord{}, sessionRowID).Error
}

// SaveMenuSnapshot upserts the last-known-good menu for a vendor.
func (r *Repository) SaveMenuSnapshot(ctx context.Context, vendorID string, menu []types.MenuItem, updatedAt time.Time) error {
	if vendorID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	payload, err := json.Marshal(menu)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode menu snapshot")
	}
	record := MenuSnapshotRecord{VendorID: vendorID, Payload: payload, UpdatedAt: updatedAt}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "vendor_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&record).Error
}

// LoadMenuSnapshot returns the cached menu and its timestamp, or NotFound.
func (r *Repository) LoadMenuSnapshot(ctx context.Context, vendorID string) ([]types.MenuItem, time.Time, error) {
	var record MenuSnapshotRecord
	if err := r.db.WithContext(ctx).First(&record, "vendor_id = ?", vendorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, time.Time{}, pkgerrors.New(pkgerrors.CodeNotFound, "no menu snapshot")
		}
		return nil, time.Time{}, err
	}
	var menu []types.MenuItem
	if err := json.Unmarshal(record.Payload, &menu); err != nil {
		return nil, time.Time{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode menu snapshot")
	}
	if menu == nil {
		menu = []types.MenuItem{}
	}
	return menu, record.UpdatedAt, nil
}
