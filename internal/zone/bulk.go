package zone

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"pdnsadmin/internal/config"
	"pdnsadmin/internal/db"
	"pdnsadmin/internal/dnsutil"
	"pdnsadmin/internal/rrset"
	"pdnsadmin/internal/soa"
)

// Operation is one entry of a bulk batch. Pointer fields distinguish
// "absent" from zero values on update.
type Operation struct {
	Action   string `json:"action"`
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Type     string `json:"type,omitempty"`
	Content  string `json:"content,omitempty"`
	TTL      *int   `json:"ttl,omitempty"`
	Priority *int   `json:"priority,omitempty"`
	Disabled *bool  `json:"disabled,omitempty"`
}

// BulkResult reports the batch outcome. After a rollback the counters
// are zero — they reflect what was persisted, never partial progress —
// while Failed and Errors keep the diagnostics.
type BulkResult struct {
	TotalOperations int      `json:"total_operations"`
	Created         int      `json:"created"`
	Updated         int      `json:"updated"`
	Deleted         int      `json:"deleted"`
	Failed          int      `json:"failed"`
	Errors          []string `json:"errors"`
}

// BulkOperator applies heterogeneous record operations as a single
// all-or-nothing batch with at most one SOA serial bump.
type BulkOperator struct {
	db  *gorm.DB
	cfg *config.Config
	soa *db.SOAStore

	OnZoneChange func(zoneID int64)
}

func NewBulkOperator(gdb *gorm.DB, cfg *config.Config, clock soa.Clock) *BulkOperator {
	return &BulkOperator{db: gdb, cfg: cfg, soa: db.NewSOAStore(gdb, clock)}
}

// Apply runs the operations in input order inside one transaction. The
// first failing operation aborts the whole batch.
func (b *BulkOperator) Apply(zoneID int64, ops []Operation) (BulkResult, error) {
	result := BulkResult{TotalOperations: len(ops), Errors: []string{}}
	if len(ops) == 0 {
		return result, validationf("At least one operation is required")
	}

	domain, err := db.GetDomain(b.db, zoneID)
	if err != nil {
		return result, err
	}

	err = b.db.Transaction(func(tx *gorm.DB) error {
		records := db.NewRecordStore(tx)
		nonSOAChanged := false

		for i, op := range ops {
			action := strings.ToLower(strings.TrimSpace(op.Action))

			var rtype string
			var opErr error
			switch action {
			case "create":
				rtype, opErr = b.create(records, domain, op)
			case "update":
				rtype, opErr = b.update(records, zoneID, domain, op)
			case "delete":
				rtype, opErr = b.delete(records, zoneID, op)
			default:
				opErr = validationf("Invalid action: %s. Must be 'create', 'update', or 'delete'", action)
			}
			if opErr != nil {
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("Operation %d (%s): %v", i, action, opErr))
				return opErr
			}

			switch action {
			case "create":
				result.Created++
			case "update":
				result.Updated++
			case "delete":
				result.Deleted++
			}
			if rtype != "SOA" {
				nonSOAChanged = true
			}
		}

		// One serial bump for the whole batch. Skipped when only the
		// SOA itself changed so a user-supplied serial is not clobbered.
		if nonSOAChanged {
			return b.soa.WithTx(tx).UpdateSOASerial(zoneID)
		}
		return nil
	})
	if err != nil {
		result.Created, result.Updated, result.Deleted = 0, 0, 0
		return result, err
	}

	if b.OnZoneChange != nil {
		b.OnZoneChange(zoneID)
	}
	return result, nil
}

func (b *BulkOperator) create(records *db.RecordStore, domain db.Domain, op Operation) (string, error) {
	required := []struct{ field, value string }{
		{"name", op.Name},
		{"type", op.Type},
		{"content", op.Content},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return "", validationf("Field '%s' is required for create operation", r.field)
		}
	}

	rtype := strings.ToUpper(strings.TrimSpace(op.Type))
	ttl := b.cfg.DNS.DefaultTTL
	if op.TTL != nil {
		ttl = *op.TTL
	}
	if ttl < 1 {
		return "", validationf("TTL must be greater than 0")
	}
	prio := 0
	if op.Priority != nil {
		prio = *op.Priority
	}

	fqdn := dnsutil.RestoreZoneSuffix(op.Name, domain.Name)
	content := dnsutil.FormatContent(rtype, op.Content)
	if rtype == "TXT" {
		content = rrset.QuoteTXT(content)
	}

	res := dnsutil.ValidateRecord(rtype, content, fqdn, prio, ttl, b.cfg.DNS.DefaultTTL)
	if !res.Valid {
		return "", validationf("%s", res.FirstError())
	}

	rec := &db.Record{
		DomainID: domain.ID,
		Name:     fqdn,
		Type:     rtype,
		Content:  res.Content,
		TTL:      res.TTL,
		Prio:     res.Prio,
	}
	if op.Disabled != nil {
		rec.Disabled = *op.Disabled
	}
	return rtype, records.Create(rec)
}

func (b *BulkOperator) update(records *db.RecordStore, zoneID int64, domain db.Domain, op Operation) (string, error) {
	if op.ID == 0 {
		return "", validationf("Field 'id' is required for update operation")
	}
	existing, err := records.GetByID(op.ID)
	if err != nil {
		return "", err
	}
	if existing.DomainID != zoneID {
		return "", db.ErrRecordNotFound
	}

	// Absent fields keep their stored values.
	merged := existing
	if op.Name != "" {
		merged.Name = dnsutil.RestoreZoneSuffix(op.Name, domain.Name)
	}
	if op.Type != "" {
		merged.Type = strings.ToUpper(strings.TrimSpace(op.Type))
	}
	if op.Content != "" {
		merged.Content = dnsutil.FormatContent(merged.Type, op.Content)
		if merged.Type == "TXT" {
			merged.Content = rrset.QuoteTXT(merged.Content)
		}
	}
	if op.TTL != nil {
		merged.TTL = *op.TTL
	}
	if op.Priority != nil {
		merged.Prio = *op.Priority
	}
	if op.Disabled != nil {
		merged.Disabled = *op.Disabled
	}

	res := dnsutil.ValidateRecord(merged.Type, merged.Content, merged.Name, merged.Prio, merged.TTL, b.cfg.DNS.DefaultTTL)
	if !res.Valid {
		return "", validationf("%s", res.FirstError())
	}
	merged.Content = res.Content
	merged.TTL = res.TTL
	merged.Prio = res.Prio

	return merged.Type, records.Update(&merged)
}

func (b *BulkOperator) delete(records *db.RecordStore, zoneID int64, op Operation) (string, error) {
	if op.ID == 0 {
		return "", validationf("Field 'id' is required for delete operation")
	}
	existing, err := records.GetByID(op.ID)
	if err != nil {
		return "", err
	}
	if existing.DomainID != zoneID {
		return "", db.ErrRecordNotFound
	}
	return existing.Type, records.Delete(zoneID, op.ID)
}
