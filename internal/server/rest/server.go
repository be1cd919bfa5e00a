// Package rest exposes zone and record management over HTTP. All
// mutation endpoints route through the zone package so every change
// carries its SOA serial bump in the same transaction.
package rest

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pdnsadmin/internal/cache"
	"pdnsadmin/internal/config"
	"pdnsadmin/internal/db"
	"pdnsadmin/internal/soa"
	"pdnsadmin/internal/zone"
)

type Server struct {
	cfg   *config.Config
	db    *gorm.DB
	r     *gin.Engine
	log   *charmlog.Logger
	clock soa.Clock

	replacer *zone.Replacer
	bulk     *zone.BulkOperator
	names    *cache.ZoneNames

	httpSrv *http.Server
}

func NewServer(cfg *config.Config, gdb *gorm.DB, logger *charmlog.Logger) (*Server, error) {
	clock, err := soa.NewClock(cfg.DNS.Timezone)
	if err != nil {
		return nil, err
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	s := &Server{
		cfg:      cfg,
		db:       gdb,
		r:        r,
		log:      logger,
		clock:    clock,
		replacer: zone.NewReplacer(gdb, cfg, clock),
		bulk:     zone.NewBulkOperator(gdb, cfg, clock),
		names:    cache.NewZoneNames(1024, time.Minute),
	}

	r.Use(s.requestLog)
	r.Use(gin.Recovery())

	r.GET("/health", s.health)

	api := r.Group("/")
	api.Use(s.auth)
	{
		api.POST("/zones", s.createZone)
		api.GET("/zones", s.listZones)
		api.GET("/zones/:id", s.getZone)
		api.DELETE("/zones/:id", s.deleteZone)

		api.GET("/zones/:id/rrsets", s.listRRSets)
		api.GET("/zones/:id/rrsets/:name/:type", s.getRRSet)
		api.POST("/zones/:id/rrsets", s.replaceRRSet)
		api.PUT("/zones/:id/rrsets", s.replaceRRSet)
		api.PATCH("/zones/:id/rrsets", s.replaceRRSet)
		api.DELETE("/zones/:id/rrsets/:name/:type", s.deleteRRSet)

		api.POST("/zones/:id/records", s.createRecord)
		api.GET("/zones/:id/records/:rid", s.getRecord)
		api.PUT("/zones/:id/records/:rid", s.updateRecord)
		api.DELETE("/zones/:id/records/:rid", s.deleteRecord)
		api.POST("/zones/:id/records/bulk", s.bulkRecords)
	}
	return s, nil
}

func (s *Server) requestLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.log.Info("api",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"latency", time.Since(start),
		"client", c.ClientIP(),
	)
}

// auth checks the Bearer token against the configured bcrypt hash. An
// empty hash disables authentication, which is only sane for local
// development.
func (s *Server) auth(c *gin.Context) {
	if s.cfg.APITokenHash == "" {
		c.Next()
		return
	}
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if token == "" || bcrypt.CompareHashAndPassword([]byte(s.cfg.APITokenHash), []byte(token)) != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Next()
}

func (s *Server) Start() error {
	s.httpSrv = &http.Server{Addr: s.cfg.Listen, Handler: s.r}
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.r }

func (s *Server) health(c *gin.Context) {
	status := "ok"
	dbStatus := "ok"

	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "error"
		status = "degraded"
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "unreachable"
		status = "degraded"
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status, "db": dbStatus})
}

// writeError maps the zone package's error taxonomy onto HTTP codes.
func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, db.ErrZoneNotFound) || errors.Is(err, db.ErrRecordNotFound) || errors.Is(err, db.ErrNoSOA):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case zone.IsClientError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.log.Error("request failed", "path", c.Request.URL.Path, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// zoneName resolves a zone id to its name through the TTL cache.
func (s *Server) zoneName(zoneID int64) (string, error) {
	if name, ok := s.names.Get(zoneID); ok {
		return name, nil
	}
	d, err := db.GetDomain(s.db, zoneID)
	if err != nil {
		return "", err
	}
	s.names.Set(d.ID, d.Name)
	return d.Name, nil
}
