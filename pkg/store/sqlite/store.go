package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/untillpro/goutils/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"github.com/goliatone/go-eavform/pkg/model"
)

var (
	// ErrOwnerRequired is returned when Load or Save receive an empty owner.
	ErrOwnerRequired = errors.New("store: owner id is required")
	// ErrUnknownAttribute is returned when a submission names an attribute
	// the definition does not have.
	ErrUnknownAttribute = errors.New("store: unknown attribute")
	// ErrForeignValue is returned when a submitted value id belongs to
	// another owner or attribute.
	ErrForeignValue = errors.New("store: value belongs to another record")
)

// Store reads and writes the values of EAV records.
type Store struct {
	db    *gorm.DB
	newID func() string
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides how ids of new values are generated. Defaults to
// random UUIDs.
func WithIDGenerator(generate func() string) Option {
	return func(s *Store) {
		if generate != nil {
			s.newID = generate
		}
	}
}

// Open connects to the SQLite database at path using the modernc driver.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path,
	}, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	return db, nil
}

// New wraps db. Call RunMigrations once before the first Load or Save.
func New(db *gorm.DB, options ...Option) *Store {
	s := &Store{
		db:    db,
		newID: uuid.NewString,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// SaveOption configures a single Save call.
type SaveOption func(*saveConfig)

type saveConfig struct {
	replace map[string]struct{}
}

// Replacing marks codes whose stored values are replaced even when the
// submission carries no value for them, which is how a cleared attribute is
// deleted.
func Replacing(codes ...string) SaveOption {
	return func(cfg *saveConfig) {
		for _, code := range codes {
			cfg.replace[code] = struct{}{}
		}
	}
}

// Load returns the stored values of owner for def. Confidential payloads are
// replaced by model.ConfidentialSentinel.
func (s *Store) Load(ctx context.Context, ownerID string, def model.Definition) ([]model.Value, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrOwnerRequired
	}

	rows := make([]valueModel, 0)
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND definition_key = ?", ownerID, def.Key()).
		Order("attribute_code, seq").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("store: load %s/%s: %w", def.Key(), ownerID, err)
	}

	out := make([]model.Value, 0, len(rows))
	for _, row := range rows {
		value, err := toValue(row, def)
		if err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	return out, nil
}

// Save applies a submission for owner and returns every stored value of the
// record afterwards, masked the way Load returns them.
//
// Values with an id update that row; values without one are inserted under a
// new id. For each submitted attribute, rows beyond the submitted set are
// deleted. Attributes absent from the submission are left alone unless
// named through Replacing, so an untouched secret keeps its payload.
func (s *Store) Save(ctx context.Context, ownerID string, def model.Definition, values []model.Value, options ...SaveOption) ([]model.Value, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrOwnerRequired
	}
	cfg := saveConfig{replace: make(map[string]struct{})}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	groups, codes, err := groupSubmission(def, values)
	if err != nil {
		return nil, err
	}
	for code := range cfg.replace {
		if _, ok := groups[code]; ok {
			continue
		}
		if _, ok := def.Attribute(code); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAttribute, code)
		}
		groups[code] = nil
		codes = append(codes, code)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, code := range codes {
			attr, _ := def.Attribute(code)
			if err := s.replaceAttribute(tx, ownerID, def.Key(), attr, groups[code]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Load(ctx, ownerID, def)
}

func (s *Store) replaceAttribute(tx *gorm.DB, ownerID, definitionKey string, attr model.Attribute, values []model.Value) error {
	existing := make([]valueModel, 0)
	err := tx.Where("owner_id = ? AND definition_key = ? AND attribute_code = ?", ownerID, definitionKey, attr.Code).
		Find(&existing).Error
	if err != nil {
		return fmt.Errorf("store: read %s: %w", attr.Code, err)
	}
	current := make(map[string]valueModel, len(existing))
	for _, row := range existing {
		current[row.ID] = row
	}

	kept := make(map[string]struct{}, len(values))
	for _, value := range values {
		payload, err := json.Marshal(value.Payload)
		if err != nil {
			return fmt.Errorf("store: encode %s: %w", attr.Code, err)
		}
		row := valueModel{
			ID:            value.ID,
			OwnerID:       ownerID,
			DefinitionKey: definitionKey,
			AttributeCode: attr.Code,
			Seq:           value.Seq,
			Payload:       string(payload),
			Confidential:  attr.Confidential,
		}

		if previous, ok := current[row.ID]; ok {
			row.CreatedAt = previous.CreatedAt
			if err := tx.Save(&row).Error; err != nil {
				return fmt.Errorf("store: update %s: %w", attr.Code, err)
			}
			kept[row.ID] = struct{}{}
			continue
		}

		if row.ID != "" {
			var count int64
			if err := tx.Model(&valueModel{}).Where("id = ?", row.ID).Count(&count).Error; err != nil {
				return fmt.Errorf("store: check %s: %w", row.ID, err)
			}
			if count > 0 {
				return fmt.Errorf("%w: %s", ErrForeignValue, row.ID)
			}
		} else {
			row.ID = s.newID()
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("store: insert %s: %w", attr.Code, err)
		}
		kept[row.ID] = struct{}{}
	}

	var stale []string
	for _, row := range existing {
		if _, ok := kept[row.ID]; !ok {
			stale = append(stale, row.ID)
		}
	}
	if len(stale) == 0 {
		return nil
	}
	if err := tx.Where("id IN ?", stale).Delete(&valueModel{}).Error; err != nil {
		return fmt.Errorf("store: delete %s: %w", attr.Code, err)
	}
	return nil
}

// groupSubmission groups values by attribute code in submission order.
// Masked values carry no payload and are dropped.
func groupSubmission(def model.Definition, values []model.Value) (map[string][]model.Value, []string, error) {
	groups := make(map[string][]model.Value)
	var codes []string
	for _, value := range values {
		attr, ok := def.Attribute(value.AttributeCode)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q", ErrUnknownAttribute, value.AttributeCode)
		}
		if value.Masked(attr) {
			if logger.IsVerbose() {
				logger.Verbose("store: ignoring masked value of", value.AttributeCode)
			}
			continue
		}
		if _, seen := groups[value.AttributeCode]; !seen {
			codes = append(codes, value.AttributeCode)
		}
		groups[value.AttributeCode] = append(groups[value.AttributeCode], value)
	}
	return groups, codes, nil
}

func toValue(row valueModel, def model.Definition) (model.Value, error) {
	value := model.Value{
		ID:            row.ID,
		AttributeCode: row.AttributeCode,
		OwnerID:       row.OwnerID,
		Seq:           row.Seq,
	}
	if row.Confidential {
		value.Payload = model.ConfidentialSentinel
		value.Confidential = true
		return value, nil
	}

	var payload any
	if err := json.Unmarshal([]byte(row.Payload), &payload); err != nil {
		return model.Value{}, fmt.Errorf("store: decode %s: %w", row.ID, err)
	}
	if attr, ok := def.Attribute(row.AttributeCode); ok {
		payload = restoreInteger(attr, payload)
	}
	value.Payload = payload
	return value, nil
}

// restoreInteger turns whole JSON numbers back into int64 for integer kinds.
func restoreInteger(attr model.Attribute, payload any) any {
	switch attr.PersistentType {
	case model.PersistentTypeLong, model.PersistentTypeInt, model.PersistentTypeShort:
	default:
		return payload
	}
	number, ok := payload.(float64)
	if !ok || number != math.Trunc(number) {
		return payload
	}
	return int64(number)
}
