package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pdnsadmin/internal/db"
	"pdnsadmin/internal/zone"
)

// Single-record endpoints are one-element batches under the hood, so
// they share the bulk path's validation and serial handling.

func recordID(c *gin.Context) (int64, bool) {
	rid, err := strconv.ParseInt(c.Param("rid"), 10, 64)
	if err != nil || rid < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record id"})
		return 0, false
	}
	return rid, true
}

func (s *Server) createRecord(c *gin.Context) {
	id, ok := zoneID(c)
	if !ok {
		return
	}
	var op zone.Operation
	if err := c.ShouldBindJSON(&op); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	op.Action = "create"
	op.ID = 0

	// Concurrent inserts against the same zone contend on the SOA row;
	// deadlocks are retried rather than surfaced.
	err := db.WithDeadlockRetry(func() error {
		_, err := s.bulk.Apply(id, []zone.Operation{op})
		return err
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "created"})
}

func (s *Server) getRecord(c *gin.Context) {
	id, ok := zoneID(c)
	if !ok {
		return
	}
	rid, ok := recordID(c)
	if !ok {
		return
	}
	rec, err := db.NewRecordStore(s.db).GetByID(rid)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if rec.DomainID != id {
		s.writeError(c, db.ErrRecordNotFound)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) updateRecord(c *gin.Context) {
	id, ok := zoneID(c)
	if !ok {
		return
	}
	rid, ok := recordID(c)
	if !ok {
		return
	}
	var op zone.Operation
	if err := c.ShouldBindJSON(&op); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	op.Action = "update"
	op.ID = rid

	if _, err := s.bulk.Apply(id, []zone.Operation{op}); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (s *Server) deleteRecord(c *gin.Context) {
	id, ok := zoneID(c)
	if !ok {
		return
	}
	rid, ok := recordID(c)
	if !ok {
		return
	}
	op := zone.Operation{Action: "delete", ID: rid}
	if _, err := s.bulk.Apply(id, []zone.Operation{op}); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type bulkReq struct {
	Operations []zone.Operation `json:"operations"`
}

// bulkRecords applies a heterogeneous batch atomically. The result body
// is returned for failures too, so clients see which operation broke
// the batch.
func (s *Server) bulkRecords(c *gin.Context) {
	id, ok := zoneID(c)
	if !ok {
		return
	}
	var req bulkReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	res, err := s.bulk.Apply(id, req.Operations)
	if err != nil {
		code := http.StatusInternalServerError
		if zone.IsClientError(err) {
			code = http.StatusBadRequest
		}
		c.JSON(code, res)
		return
	}
	c.JSON(http.StatusOK, res)
}
