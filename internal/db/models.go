package db

// Models map onto the native PowerDNS gmysql/gpgsql/gsqlite3 schema.
// The authoritative server reads these tables directly, so there are no
// ORM conveniences like soft-delete columns here.

// Zone kinds as stored in domains.type.
const (
	KindMaster = "MASTER"
	KindSlave  = "SLAVE"
	KindNative = "NATIVE"
)

type Domain struct {
	ID      int64  `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"uniqueIndex;size:255" json:"name"`
	Type    string `gorm:"size:8" json:"type"`
	Account string `gorm:"size:40" json:"account,omitempty"`
}

func (Domain) TableName() string { return "domains" }

type Record struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	DomainID int64  `gorm:"column:domain_id;index" json:"domain_id"`
	Name     string `gorm:"size:255;index" json:"name"`
	Type     string `gorm:"size:10" json:"type"`
	Content  string `gorm:"size:64000" json:"content"`
	TTL      int    `gorm:"column:ttl" json:"ttl"`
	Prio     int    `gorm:"column:prio" json:"prio"`
	Disabled bool   `gorm:"column:disabled" json:"disabled"`
}

func (Record) TableName() string { return "records" }
