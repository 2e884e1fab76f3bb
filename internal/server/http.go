// Package server provides the HTTP API over the optimize service and the
// lifecycle management that runs it: graceful startup and signal-driven
// shutdown.
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/crumbworks/teamsmith/internal/config"
	"github.com/crumbworks/teamsmith/internal/optimize"
	"github.com/crumbworks/teamsmith/internal/roster"
)

// API serves the HTTP surface over the optimize service.
type API struct {
	svc    *optimize.Service
	logger *zap.Logger
}

// NewAPI creates an API.
//
// Precondition: svc and logger must be non-nil.
func NewAPI(svc *optimize.Service, logger *zap.Logger) *API {
	return &API{svc: svc, logger: logger}
}

// Router builds the gin engine with CORS and all API routes.
func (a *API) Router(cfg config.ServerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}))

	api := r.Group("/api")
	api.GET("/cookies", a.listCookies)
	api.GET("/cookies/:name", a.getCookie)
	api.GET("/stats", a.stats)
	api.GET("/bosses", a.listBosses)
	api.POST("/optimize", a.postOptimize)
	api.POST("/counter", a.postCounter)
	api.POST("/guildbattle", a.postGuildBattle)
	return r
}

// NewHTTPServer wraps the router in an http.Server with the configured
// timeouts, ready for lifecycle management.
func (a *API) NewHTTPServer(cfg config.ServerConfig) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr(),
		Handler:      a.Router(cfg),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// listCookies returns the catalog, optionally filtered by rarity, role,
// position, or element query parameters.
func (a *API) listCookies(c *gin.Context) {
	rarity := c.Query("rarity")
	role := c.Query("role")
	position := c.Query("position")
	element := c.Query("element")

	cookies := a.svc.Catalog().Filter(func(ck *roster.Cookie) bool {
		if rarity != "" && string(ck.Rarity) != rarity {
			return false
		}
		if role != "" && string(ck.Role) != role {
			return false
		}
		if position != "" && string(ck.Position) != position {
			return false
		}
		if element != "" && string(ck.Element) != element {
			return false
		}
		return true
	})
	c.JSON(http.StatusOK, gin.H{"count": len(cookies), "cookies": cookies})
}

func (a *API) getCookie(c *gin.Context) {
	name := c.Param("name")
	cookie, ok := a.svc.Catalog().Get(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "cookie not found", "name": name})
		return
	}
	c.JSON(http.StatusOK, cookie)
}

// stats summarizes the loaded content.
func (a *API) stats(c *gin.Context) {
	catalog := a.svc.Catalog()
	data := a.svc.Data()

	byRarity := make(map[roster.Rarity]int)
	byRole := make(map[roster.Role]int)
	byPosition := make(map[roster.Position]int)
	for _, ck := range catalog.All() {
		byRarity[ck.Rarity]++
		byRole[ck.Role]++
		byPosition[ck.Position]++
	}

	stats := gin.H{
		"cookies":    catalog.Len(),
		"byRarity":   byRarity,
		"byRole":     byRole,
		"byPosition": byPosition,
		"treasures":  len(data.Treasures),
		"combos":     len(data.Synergy.Combos),
		"counters":   len(data.Counters.All()),
		"metaTeams":  len(data.MetaTeams),
	}
	if bosses := a.svc.Bosses(); bosses != nil {
		stats["bosses"] = bosses.Len()
	}
	c.JSON(http.StatusOK, stats)
}

func (a *API) listBosses(c *gin.Context) {
	bosses := a.svc.Bosses()
	if bosses == nil {
		c.JSON(http.StatusOK, gin.H{"count": 0, "bosses": []any{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": bosses.Len(), "bosses": bosses.All()})
}

func (a *API) postOptimize(c *gin.Context) {
	var req optimize.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request: " + err.Error()})
		return
	}
	resp, err := a.svc.Optimize(c.Request.Context(), req)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// postCounter is postOptimize with a mandatory enemy team.
func (a *API) postCounter(c *gin.Context) {
	var req optimize.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request: " + err.Error()})
		return
	}
	if len(req.Enemy) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "enemy team must not be empty"})
		return
	}
	resp, err := a.svc.Optimize(c.Request.Context(), req)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a *API) postGuildBattle(c *gin.Context) {
	var req optimize.GuildBattleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request: " + err.Error()})
		return
	}
	resp, err := a.svc.GuildBattle(c.Request.Context(), req)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// fail maps service errors onto HTTP statuses: unknown names are 404,
// caller mistakes are 400, anything else is 500.
func (a *API) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, optimize.ErrUnknownCookie), errors.Is(err, optimize.ErrUnknownBoss):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, optimize.ErrInvalidParameter), errors.Is(err, optimize.ErrInfeasibleConstraint):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		a.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
