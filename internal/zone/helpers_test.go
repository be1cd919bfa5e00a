package zone

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"pdnsadmin/internal/config"
	"pdnsadmin/internal/db"
	"pdnsadmin/internal/soa"
)

func testEnv(t *testing.T) (*gorm.DB, *config.Config, soa.Clock) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	cfg := &config.Config{}
	cfg.ApplyDefaults()
	clock, err := soa.NewClock("")
	if err != nil {
		t.Fatalf("clock: %v", err)
	}
	return gdb, cfg, clock
}

// seedZone creates a zone with an SOA record carrying the given serial.
func seedZone(t *testing.T, gdb *gorm.DB, name, serial string) db.Domain {
	t.Helper()
	d := db.Domain{Name: name, Type: db.KindMaster}
	if err := gdb.Create(&d).Error; err != nil {
		t.Fatalf("create zone: %v", err)
	}
	rec := db.Record{
		DomainID: d.ID,
		Name:     name,
		Type:     "SOA",
		Content:  "ns1." + name + " hostmaster." + name + " " + serial + " 10800 3600 604800 86400",
		TTL:      86400,
	}
	if err := gdb.Create(&rec).Error; err != nil {
		t.Fatalf("create soa: %v", err)
	}
	return d
}

func soaSerial(t *testing.T, gdb *gorm.DB, zoneID int64) string {
	t.Helper()
	clock, _ := soa.NewClock("")
	content, err := db.NewSOAStore(gdb, clock).SOAContent(zoneID)
	if err != nil {
		t.Fatalf("soa content: %v", err)
	}
	st, err := soa.Parse(content)
	if err != nil {
		t.Fatalf("parse soa: %v", err)
	}
	return st.Serial
}

func countRecords(t *testing.T, gdb *gorm.DB, zoneID int64, name, rtype string) int {
	t.Helper()
	recs, err := db.NewRecordStore(gdb).GetByZoneNameAndType(zoneID, name, rtype)
	if err != nil {
		t.Fatalf("count records: %v", err)
	}
	return len(recs)
}
