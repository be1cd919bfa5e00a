package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pdnsadmin/internal/db"
	"pdnsadmin/internal/dnsutil"
	"pdnsadmin/internal/rrset"
	"pdnsadmin/internal/zone"
)

// listRRSets returns the zone's records grouped into RRSets. The
// optional ?type= query narrows to one record type.
func (s *Server) listRRSets(c *gin.Context) {
	id, ok := zoneID(c)
	if !ok {
		return
	}
	if _, err := s.zoneName(id); err != nil {
		s.writeError(c, err)
		return
	}
	recs, err := db.NewRecordStore(s.db).GetByZoneAndType(id, c.Query("type"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rrsets": rrset.Group(recs)})
}

func (s *Server) getRRSet(c *gin.Context) {
	id, ok := zoneID(c)
	if !ok {
		return
	}
	zoneName, err := s.zoneName(id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	fqdn := dnsutil.RestoreZoneSuffix(c.Param("name"), zoneName)
	recs, err := db.NewRecordStore(s.db).GetByZoneNameAndType(id, fqdn, c.Param("type"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	if len(recs) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "rrset not found"})
		return
	}
	c.JSON(http.StatusOK, rrset.Group(recs)[0])
}

// replaceRRSet is the atomic delete-and-recreate endpoint. POST, PUT
// and PATCH all mean the same thing: the submitted set becomes the
// entire content of (name, type).
func (s *Server) replaceRRSet(c *gin.Context) {
	id, ok := zoneID(c)
	if !ok {
		return
	}
	var req zone.ReplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	res, err := s.replacer.Replace(id, req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) deleteRRSet(c *gin.Context) {
	id, ok := zoneID(c)
	if !ok {
		return
	}
	deleted, err := s.replacer.Delete(id, c.Param("name"), c.Param("type"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records_deleted": deleted})
}
