package db

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrRecordNotFound covers both a missing row and a row that does
	// not belong to the claimed zone; callers must not learn which.
	ErrRecordNotFound = errors.New("record not found in this zone")
	ErrInvalidTTL     = errors.New("TTL must be greater than 0")
	ErrZoneNotFound   = errors.New("zone not found")
)

// RecordStore is row-level CRUD over the records table. It takes its
// connection (or transaction) handle explicitly so callers own the
// transaction scope.
type RecordStore struct {
	db *gorm.DB
}

func NewRecordStore(db *gorm.DB) *RecordStore {
	return &RecordStore{db: db}
}

// WithTx rebinds the store to a transaction handle.
func (s *RecordStore) WithTx(tx *gorm.DB) *RecordStore {
	return &RecordStore{db: tx}
}

// Create inserts a record row. The name is lower-cased first; PowerDNS
// only matches lower-case owner names.
func (s *RecordStore) Create(rec *Record) error {
	if rec.TTL < 1 {
		return ErrInvalidTTL
	}
	rec.Name = strings.ToLower(rec.Name)
	if err := s.db.Create(rec).Error; err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// Update rewrites an existing record row. The row must belong to
// rec.DomainID or the update is rejected as not found.
func (s *RecordStore) Update(rec *Record) error {
	if rec.TTL < 1 {
		return ErrInvalidTTL
	}
	existing, err := s.GetByID(rec.ID)
	if err != nil {
		return err
	}
	if existing.DomainID != rec.DomainID {
		return ErrRecordNotFound
	}
	rec.Name = strings.ToLower(rec.Name)
	if err := s.db.Model(&Record{}).Where("id = ?", rec.ID).Updates(map[string]any{
		"name":     rec.Name,
		"type":     rec.Type,
		"content":  rec.Content,
		"ttl":      rec.TTL,
		"prio":     rec.Prio,
		"disabled": rec.Disabled,
	}).Error; err != nil {
		return fmt.Errorf("update record %d: %w", rec.ID, err)
	}
	return nil
}

// Delete removes a record row, refusing to touch rows outside zoneID.
func (s *RecordStore) Delete(zoneID, recordID int64) error {
	rec, err := s.GetByID(recordID)
	if err != nil {
		return err
	}
	if rec.DomainID != zoneID {
		return ErrRecordNotFound
	}
	if err := s.db.Delete(&Record{}, recordID).Error; err != nil {
		return fmt.Errorf("delete record %d: %w", recordID, err)
	}
	return nil
}

func (s *RecordStore) GetByID(recordID int64) (Record, error) {
	var rec Record
	err := s.db.First(&rec, recordID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Record{}, ErrRecordNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("fetch record %d: %w", recordID, err)
	}
	return rec, nil
}

// GetByZoneAndType lists a zone's records, optionally filtered by
// type. An empty type means all records. Rows come back in insertion
// order so RRSet grouping is stable.
func (s *RecordStore) GetByZoneAndType(zoneID int64, rtype string) ([]Record, error) {
	q := s.db.Where("domain_id = ?", zoneID)
	if rtype != "" {
		q = q.Where("type = ?", strings.ToUpper(rtype))
	}
	var recs []Record
	if err := q.Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list records for zone %d: %w", zoneID, err)
	}
	return recs, nil
}

// GetByZoneNameAndType fetches one RRSet's member rows.
func (s *RecordStore) GetByZoneNameAndType(zoneID int64, name, rtype string) ([]Record, error) {
	var recs []Record
	err := s.db.
		Where("domain_id = ? AND name = ? AND type = ?", zoneID, strings.ToLower(name), strings.ToUpper(rtype)).
		Order("id").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list rrset records for zone %d: %w", zoneID, err)
	}
	return recs, nil
}

// GetDomain resolves a zone row by id.
func GetDomain(db *gorm.DB, zoneID int64) (Domain, error) {
	var d Domain
	err := db.First(&d, zoneID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Domain{}, ErrZoneNotFound
	}
	if err != nil {
		return Domain{}, fmt.Errorf("fetch zone %d: %w", zoneID, err)
	}
	return d, nil
}
