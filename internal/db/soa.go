package db

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"pdnsadmin/internal/soa"
)

// ErrNoSOA means the zone has no SOA row, which PowerDNS treats as a
// broken zone; callers surface it rather than creating one implicitly.
var ErrNoSOA = errors.New("zone has no SOA record")

// SOAStore reads and rewrites the single SOA row of a zone. Serial
// arithmetic is delegated to the soa package; this store only moves
// content strings in and out of the records table.
type SOAStore struct {
	db    *gorm.DB
	clock soa.Clock
}

func NewSOAStore(db *gorm.DB, clock soa.Clock) *SOAStore {
	return &SOAStore{db: db, clock: clock}
}

func (s *SOAStore) WithTx(tx *gorm.DB) *SOAStore {
	return &SOAStore{db: tx, clock: s.clock}
}

// SOAContent returns the raw SOA content string for a zone.
func (s *SOAStore) SOAContent(zoneID int64) (string, error) {
	var rec Record
	err := s.db.Where("domain_id = ? AND type = ?", zoneID, "SOA").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNoSOA
	}
	if err != nil {
		return "", fmt.Errorf("fetch SOA for zone %d: %w", zoneID, err)
	}
	return rec.Content, nil
}

// UpdateSOASerial advances the zone's serial to the next legal value
// and persists it. When the computed serial equals the current one
// (autoserial zones, or a second call in the same instant) nothing is
// written, which makes the call idempotent.
func (s *SOAStore) UpdateSOASerial(zoneID int64) error {
	content, err := s.SOAContent(zoneID)
	if err != nil {
		return err
	}
	st, err := soa.Parse(content)
	if err != nil {
		return fmt.Errorf("zone %d: %w", zoneID, err)
	}

	next := soa.NextSerial(st.Serial, s.clock.Today())
	if next == st.Serial {
		return nil
	}

	res := s.db.Model(&Record{}).
		Where("domain_id = ? AND type = ?", zoneID, "SOA").
		Update("content", st.WithSerial(next).String())
	if res.Error != nil {
		return fmt.Errorf("update SOA serial for zone %d: %w", zoneID, res.Error)
	}
	return nil
}
