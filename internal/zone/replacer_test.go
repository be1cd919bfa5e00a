package zone

import (
	"errors"
	"testing"

	"pdnsadmin/internal/db"
	"pdnsadmin/internal/rrset"
)

func TestReplaceCreatesRRSet(t *testing.T) {
	gdb, cfg, clock := testEnv(t)
	z := seedZone(t, gdb, "example.com", "5")
	r := NewReplacer(gdb, cfg, clock)

	res, err := r.Replace(z.ID, ReplaceRequest{
		Name: "www",
		Type: "A",
		TTL:  300,
		Records: []rrset.RecordData{
			{Content: "192.0.2.1"},
			{Content: "192.0.2.2"},
		},
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if res.RecordsCreated != 2 {
		t.Fatalf("expected 2 records created, got %d", res.RecordsCreated)
	}
	if got := countRecords(t, gdb, z.ID, "www.example.com", "A"); got != 2 {
		t.Fatalf("expected 2 rows, got %d", got)
	}
	// one replace, one serial bump
	if got := soaSerial(t, gdb, z.ID); got != "6" {
		t.Fatalf("serial = %q, want 6", got)
	}
}

func TestReplaceSwapsExistingSet(t *testing.T) {
	gdb, cfg, clock := testEnv(t)
	z := seedZone(t, gdb, "example.com", "5")
	r := NewReplacer(gdb, cfg, clock)

	for _, content := range []string{"192.0.2.1", "192.0.2.2", "192.0.2.3"} {
		rec := db.Record{DomainID: z.ID, Name: "www.example.com", Type: "A", Content: content, TTL: 300}
		if err := gdb.Create(&rec).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	res, err := r.Replace(z.ID, ReplaceRequest{
		Name:    "www",
		Type:    "A",
		TTL:     600,
		Records: []rrset.RecordData{{Content: "198.51.100.1"}},
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if res.RecordsCreated != 1 {
		t.Fatalf("expected 1 record created, got %d", res.RecordsCreated)
	}

	recs, _ := db.NewRecordStore(gdb).GetByZoneNameAndType(z.ID, "www.example.com", "A")
	if len(recs) != 1 || recs[0].Content != "198.51.100.1" || recs[0].TTL != 600 {
		t.Fatalf("old set not fully replaced: %+v", recs)
	}
}

func TestReplaceRejectsEmptyRecords(t *testing.T) {
	gdb, cfg, clock := testEnv(t)
	z := seedZone(t, gdb, "example.com", "5")
	r := NewReplacer(gdb, cfg, clock)

	_, err := r.Replace(z.ID, ReplaceRequest{Name: "www", Type: "A", TTL: 300})
	if err == nil || !IsClientError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := soaSerial(t, gdb, z.ID); got != "5" {
		t.Fatalf("serial moved on failed replace: %q", got)
	}
}

// A validation failure rolls back the whole replace: the old set stays
// exactly as it was and the serial does not move.
func TestReplaceAtomicOnValidationFailure(t *testing.T) {
	gdb, cfg, clock := testEnv(t)
	z := seedZone(t, gdb, "example.com", "5")
	r := NewReplacer(gdb, cfg, clock)

	old := db.Record{DomainID: z.ID, Name: "www.example.com", Type: "A", Content: "192.0.2.1", TTL: 300}
	if err := gdb.Create(&old).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := r.Replace(z.ID, ReplaceRequest{
		Name: "www",
		Type: "A",
		TTL:  300,
		Records: []rrset.RecordData{
			{Content: "192.0.2.9"},
			{Content: "not-an-ip"},
		},
	})
	if err == nil || !IsClientError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	recs, _ := db.NewRecordStore(gdb).GetByZoneNameAndType(z.ID, "www.example.com", "A")
	if len(recs) != 1 || recs[0].Content != "192.0.2.1" {
		t.Fatalf("pre-call state not restored: %+v", recs)
	}
	if got := soaSerial(t, gdb, z.ID); got != "5" {
		t.Fatalf("serial moved on rolled-back replace: %q", got)
	}
}

func TestReplaceAllContentsEmpty(t *testing.T) {
	gdb, cfg, clock := testEnv(t)
	z := seedZone(t, gdb, "example.com", "5")
	r := NewReplacer(gdb, cfg, clock)

	_, err := r.Replace(z.ID, ReplaceRequest{
		Name:    "www",
		Type:    "A",
		TTL:     300,
		Records: []rrset.RecordData{{Content: ""}, {Content: "   "}},
	})
	if !errors.Is(err, ErrEmptyRRSet) {
		t.Fatalf("expected ErrEmptyRRSet, got %v", err)
	}
}

// TXT content is stored quoted and read back bare: a full write/read
// round trip is the identity for single-string values.
func TestReplaceTXTRoundTrip(t *testing.T) {
	gdb, cfg, clock := testEnv(t)
	z := seedZone(t, gdb, "example.com", "5")
	r := NewReplacer(gdb, cfg, clock)

	if _, err := r.Replace(z.ID, ReplaceRequest{
		Name:    "@",
		Type:    "TXT",
		TTL:     300,
		Records: []rrset.RecordData{{Content: "hello world"}},
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	recs, _ := db.NewRecordStore(gdb).GetByZoneNameAndType(z.ID, "example.com", "TXT")
	if len(recs) != 1 || recs[0].Content != `"hello world"` {
		t.Fatalf("stored TXT not quoted: %+v", recs)
	}

	sets := rrset.Group(recs)
	if sets[0].Records[0].Content != "hello world" {
		t.Fatalf("read-side unquote failed: %+v", sets[0].Records)
	}
}

func TestReplaceSOADoesNotBumpItself(t *testing.T) {
	gdb, cfg, clock := testEnv(t)
	z := seedZone(t, gdb, "example.com", "5")
	r := NewReplacer(gdb, cfg, clock)

	_, err := r.Replace(z.ID, ReplaceRequest{
		Name:    "@",
		Type:    "SOA",
		TTL:     86400,
		Records: []rrset.RecordData{{Content: "ns1.example.com hostmaster.example.com 42 10800 3600 604800 86400"}},
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	// the user-supplied serial survives untouched
	if got := soaSerial(t, gdb, z.ID); got != "42" {
		t.Fatalf("serial = %q, want 42", got)
	}
}

func TestReplaceSerialBumpsOncePerCall(t *testing.T) {
	gdb, cfg, clock := testEnv(t)
	z := seedZone(t, gdb, "example.com", "5")
	r := NewReplacer(gdb, cfg, clock)

	many := make([]rrset.RecordData, 0, 5)
	for _, c := range []string{"192.0.2.1", "192.0.2.2", "192.0.2.3", "192.0.2.4", "192.0.2.5"} {
		many = append(many, rrset.RecordData{Content: c})
	}
	if _, err := r.Replace(z.ID, ReplaceRequest{Name: "www", Type: "A", TTL: 300, Records: many}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if got := soaSerial(t, gdb, z.ID); got != "6" {
		t.Fatalf("5 inserts must bump serial once: got %q", got)
	}

	// a second replace bumps again
	if _, err := r.Replace(z.ID, ReplaceRequest{Name: "www", Type: "A", TTL: 300, Records: many[:1]}); err != nil {
		t.Fatalf("second replace: %v", err)
	}
	if got := soaSerial(t, gdb, z.ID); got != "7" {
		t.Fatalf("serial = %q, want 7", got)
	}
}

func TestReplaceZoneNotFound(t *testing.T) {
	gdb, cfg, clock := testEnv(t)
	r := NewReplacer(gdb, cfg, clock)

	_, err := r.Replace(999, ReplaceRequest{
		Name: "www", Type: "A", TTL: 300,
		Records: []rrset.RecordData{{Content: "192.0.2.1"}},
	})
	if !errors.Is(err, db.ErrZoneNotFound) {
		t.Fatalf("expected ErrZoneNotFound, got %v", err)
	}
}

func TestReplaceOnZoneChangeHook(t *testing.T) {
	gdb, cfg, clock := testEnv(t)
	z := seedZone(t, gdb, "example.com", "5")
	r := NewReplacer(gdb, cfg, clock)

	var notified []int64
	r.OnZoneChange = func(zoneID int64) { notified = append(notified, zoneID) }

	if _, err := r.Replace(z.ID, ReplaceRequest{
		Name: "www", Type: "A", TTL: 300,
		Records: []rrset.RecordData{{Content: "192.0.2.1"}},
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if len(notified) != 1 || notified[0] != z.ID {
		t.Fatalf("hook not invoked exactly once: %v", notified)
	}

	// failed replace must not fire the hook
	_, _ = r.Replace(z.ID, ReplaceRequest{Name: "www", Type: "A", TTL: 300, Records: []rrset.RecordData{{Content: "bad"}}})
	if len(notified) != 1 {
		t.Fatalf("hook fired on failed replace: %v", notified)
	}
}

func TestDeleteRRSet(t *testing.T) {
	gdb, cfg, clock := testEnv(t)
	z := seedZone(t, gdb, "example.com", "5")
	r := NewReplacer(gdb, cfg, clock)

	for _, content := range []string{"192.0.2.1", "192.0.2.2"} {
		rec := db.Record{DomainID: z.ID, Name: "www.example.com", Type: "A", Content: content, TTL: 300}
		if err := gdb.Create(&rec).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	deleted, err := r.Delete(z.ID, "www", "A")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted, got %d", deleted)
	}
	if got := countRecords(t, gdb, z.ID, "www.example.com", "A"); got != 0 {
		t.Fatalf("records remain: %d", got)
	}
	if got := soaSerial(t, gdb, z.ID); got != "6" {
		t.Fatalf("serial = %q, want 6", got)
	}

	if _, err := r.Delete(z.ID, "www", "A"); !errors.Is(err, db.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound for missing rrset, got %v", err)
	}
}
