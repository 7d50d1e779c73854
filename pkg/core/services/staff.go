package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/engine"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/db"
)

// staffFile is the YAML layout accepted by ImportStaff
type staffFile struct {
	Staff []model.Staff `yaml:"staff"`
}

// ParseStaffYAML reads a staff roster from YAML
func ParseStaffYAML(data []byte) ([]model.Staff, error) {
	var file staffFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse staff file: %w", err)
	}
	return file.Staff, nil
}

// ListStaff returns the stored roster
func ListStaff(ctx context.Context, store db.StaffStore, logger *zap.Logger) ([]model.Staff, error) {
	logger.Debug("Fetching staff")
	staff, err := store.ListStaff(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch staff: %w", err)
	}
	logger.Debug("Found staff", zap.Int("count", len(staff)))
	return staff, nil
}

// ImportStaff validates a roster and upserts it. Nothing is written when any
// record is invalid.
func ImportStaff(ctx context.Context, store db.StaffStore, logger *zap.Logger, staff []model.Staff) error {
	if len(staff) == 0 {
		return fmt.Errorf("%w: no staff to import", engine.ErrInvalidInput)
	}

	var errs []error
	seen := make(map[string]bool, len(staff))
	for i := range staff {
		if err := staff[i].Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if seen[staff[i].ID] {
			errs = append(errs, fmt.Errorf("duplicate staff id %q", staff[i].ID))
		}
		seen[staff[i].ID] = true
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", engine.ErrInvalidInput, errors.Join(errs...))
	}

	if err := store.UpsertStaff(ctx, staff); err != nil {
		return fmt.Errorf("failed to import staff: %w", err)
	}

	logger.Info("Staff imported", zap.Int("count", len(staff)))
	return nil
}
