// Package zone orchestrates multi-row zone mutations. Every operation
// here runs inside a single transaction that also covers the SOA
// serial bump, so a transfer-triggering serial change is never visible
// without the record change that caused it.
package zone

import (
	"strings"

	"gorm.io/gorm"

	"pdnsadmin/internal/config"
	"pdnsadmin/internal/db"
	"pdnsadmin/internal/dnsutil"
	"pdnsadmin/internal/rrset"
	"pdnsadmin/internal/soa"
)

type ReplaceRequest struct {
	Name    string             `json:"name"`
	Type    string             `json:"type"`
	TTL     int                `json:"ttl"`
	Records []rrset.RecordData `json:"records"`
}

type ReplaceResult struct {
	Name           string `json:"name"`
	Type           string `json:"type"`
	TTL            int    `json:"ttl"`
	RecordsCreated int    `json:"records_created"`
}

// Replacer swaps whole RRSets atomically: everything stored under
// (zone, name, type) is removed and the incoming set takes its place,
// or nothing happens at all.
type Replacer struct {
	db  *gorm.DB
	cfg *config.Config
	soa *db.SOAStore

	// OnZoneChange runs after a successful commit, for rectify-style
	// side effects that must never sit inside the transaction.
	OnZoneChange func(zoneID int64)
}

func NewReplacer(gdb *gorm.DB, cfg *config.Config, clock soa.Clock) *Replacer {
	return &Replacer{db: gdb, cfg: cfg, soa: db.NewSOAStore(gdb, clock)}
}

// Replace implements the v2 RRSet replacement protocol. The caller has
// already established that the actor may edit this zone.
func (r *Replacer) Replace(zoneID int64, req ReplaceRequest) (ReplaceResult, error) {
	if len(req.Records) == 0 {
		return ReplaceResult{}, validationf("Field 'records' must be a non-empty array")
	}
	rtype := strings.ToUpper(strings.TrimSpace(req.Type))
	if rtype == "" {
		return ReplaceResult{}, validationf("Field 'type' is required")
	}
	ttl := req.TTL
	if ttl == 0 {
		ttl = r.cfg.DNS.DefaultTTL
	}
	if ttl < 1 {
		return ReplaceResult{}, validationf("TTL must be greater than 0")
	}

	// Name resolution happens before the transaction; a bad zone id
	// aborts before any writes.
	domain, err := db.GetDomain(r.db, zoneID)
	if err != nil {
		return ReplaceResult{}, err
	}
	fqdn := dnsutil.RestoreZoneSuffix(req.Name, domain.Name)

	created := 0
	err = r.db.Transaction(func(tx *gorm.DB) error {
		records := db.NewRecordStore(tx)

		existing, err := records.GetByZoneNameAndType(zoneID, fqdn, rtype)
		if err != nil {
			return err
		}
		for _, old := range existing {
			if err := records.Delete(zoneID, old.ID); err != nil {
				return PartialDeleteError{RecordID: old.ID, Err: err}
			}
		}

		for _, in := range req.Records {
			content := strings.TrimSpace(in.Content)
			if content == "" {
				continue
			}
			content = dnsutil.FormatContent(rtype, content)
			if rtype == "TXT" {
				// v2 convention: stored TXT is always quoted,
				// regardless of any global auto-quote setting.
				content = rrset.QuoteTXT(content)
			}

			res := dnsutil.ValidateRecord(rtype, content, fqdn, in.Priority, ttl, r.cfg.DNS.DefaultTTL)
			if !res.Valid {
				return validationf("%s", res.FirstError())
			}

			rec := &db.Record{
				DomainID: zoneID,
				Name:     fqdn,
				Type:     rtype,
				Content:  res.Content,
				TTL:      res.TTL,
				Prio:     res.Prio,
				Disabled: in.Disabled,
			}
			if err := records.Create(rec); err != nil {
				return err
			}
			created++
		}

		if created == 0 {
			return ErrEmptyRRSet
		}
		if rtype != "SOA" {
			return r.soa.WithTx(tx).UpdateSOASerial(zoneID)
		}
		return nil
	})
	if err != nil {
		return ReplaceResult{}, err
	}

	if r.OnZoneChange != nil {
		r.OnZoneChange(zoneID)
	}
	return ReplaceResult{Name: req.Name, Type: rtype, TTL: ttl, RecordsCreated: created}, nil
}

// Delete removes every record under (zone, name, type) and bumps the
// serial, as one transaction. Returns the number of records removed.
func (r *Replacer) Delete(zoneID int64, name, rtype string) (int, error) {
	rtype = strings.ToUpper(strings.TrimSpace(rtype))
	domain, err := db.GetDomain(r.db, zoneID)
	if err != nil {
		return 0, err
	}
	fqdn := dnsutil.RestoreZoneSuffix(name, domain.Name)

	existing, err := db.NewRecordStore(r.db).GetByZoneNameAndType(zoneID, fqdn, rtype)
	if err != nil {
		return 0, err
	}
	if len(existing) == 0 {
		return 0, db.ErrRecordNotFound
	}

	deleted := 0
	err = r.db.Transaction(func(tx *gorm.DB) error {
		records := db.NewRecordStore(tx)
		for _, rec := range existing {
			if err := records.Delete(zoneID, rec.ID); err != nil {
				return PartialDeleteError{RecordID: rec.ID, Err: err}
			}
			deleted++
		}
		if rtype != "SOA" {
			return r.soa.WithTx(tx).UpdateSOASerial(zoneID)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if r.OnZoneChange != nil {
		r.OnZoneChange(zoneID)
	}
	return deleted, nil
}
