package rest

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"pdnsadmin/internal/db"
	"pdnsadmin/internal/soa"
)

type zoneReq struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

func zoneID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid zone id"})
		return 0, false
	}
	return id, true
}

// createZone inserts the domains row and seeds its SOA record with a
// fresh date-based serial in one transaction.
func (s *Server) createZone(c *gin.Context) {
	var req zoneReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Field 'name' is required"})
		return
	}
	name := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(req.Name)), ".")

	kind := strings.ToUpper(strings.TrimSpace(req.Kind))
	switch kind {
	case "":
		kind = db.KindMaster
	case db.KindMaster, db.KindSlave, db.KindNative:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid kind: " + req.Kind})
		return
	}

	z := db.Domain{Name: name, Type: kind}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&z).Error; err != nil {
			return err
		}
		// Slave zones get their records via AXFR, SOA included.
		if kind == db.KindSlave {
			return nil
		}
		return db.NewRecordStore(tx).Create(&db.Record{
			DomainID: z.ID,
			Name:     name,
			Type:     "SOA",
			Content:  s.initialSOA(name),
			TTL:      s.cfg.DNS.DefaultTTL,
		})
	})
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			c.JSON(http.StatusConflict, gin.H{"error": "zone already exists"})
			return
		}
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, z)
}

// initialSOA builds the SOA content for a new zone. A hostmaster
// without a dot is scoped to the zone itself.
func (s *Server) initialSOA(zoneName string) string {
	ns := s.cfg.DNS.PrimaryNS
	if ns == "" {
		ns = "ns1." + zoneName
	}
	mbox := s.cfg.DNS.Hostmaster
	if !strings.Contains(mbox, ".") {
		mbox = mbox + "." + zoneName
	}
	serial := soa.InitialSerial(s.clock.Today())
	return strings.Join([]string{ns, mbox, serial, "10800", "3600", "604800", "86400"}, " ")
}

func (s *Server) listZones(c *gin.Context) {
	var zones []db.Domain
	if err := s.db.Order("name").Find(&zones).Error; err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, zones)
}

func (s *Server) getZone(c *gin.Context) {
	id, ok := zoneID(c)
	if !ok {
		return
	}
	z, err := db.GetDomain(s.db, id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	serial := ""
	if content, err := db.NewSOAStore(s.db, s.clock).SOAContent(id); err == nil {
		if st, err := soa.Parse(content); err == nil {
			serial = st.Serial
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"id":     z.ID,
		"name":   z.Name,
		"kind":   z.Type,
		"serial": serial,
	})
}

// deleteZone removes the zone and all its records in one transaction.
func (s *Server) deleteZone(c *gin.Context) {
	id, ok := zoneID(c)
	if !ok {
		return
	}
	z, err := db.GetDomain(s.db, id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("domain_id = ?", z.ID).Delete(&db.Record{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db.Domain{}, z.ID).Error
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.names.Invalidate(z.ID)
	c.Status(http.StatusNoContent)
}
