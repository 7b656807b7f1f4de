package controlserver

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/samber/do"
	"github.com/samber/lo"
	"github.com/zhulik/natsinvoker/internal/core"
	"github.com/zhulik/natsinvoker/internal/provider"
	"github.com/zhulik/natsinvoker/pkg/httpserver"
)

// Server exposes the control surface of the provider to the hosting environment over HTTP.
type Server struct {
	*httpserver.Server

	injector *do.Injector
	provider *provider.Provider
}

// NewServer creates a new Server instance.
func NewServer(injector *do.Injector) (*Server, error) {
	config, err := do.Invoke[core.Config](injector)
	if err != nil {
		return nil, err
	}

	server, err := httpserver.NewServer(injector, "controlserver.Server", config.HTTPPort())
	if err != nil {
		return nil, fmt.Errorf("failed to create a new http server: %w", err)
	}

	prov, err := do.Invoke[*provider.Provider](injector)
	if err != nil {
		return nil, err
	}

	srv := &Server{
		Server:   server,
		injector: injector,
		provider: prov,
	}

	srv.Router.GET("/health", srv.HealthHandler)
	srv.Router.GET("/links", srv.LinksHandler)
	srv.Router.PUT("/links", srv.PutLinkHandler)
	srv.Router.DELETE("/links/:actorID", srv.DeleteLinkHandler)
	srv.Router.GET("/subscriptions", srv.SubscriptionsHandler)
	srv.Router.POST("/messages", srv.MessageHandler)
	srv.Router.POST("/shutdown", srv.ShutdownHandler)

	return srv, nil
}

func (s *Server) HealthHandler(c *gin.Context) {
	failed := lo.PickBy(s.injector.HealthCheck(), func(_ string, err error) bool {
		return err != nil
	})

	if len(failed) == 0 {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})

		return
	}

	c.JSON(http.StatusServiceUnavailable, gin.H{
		"status": "unhealthy",
		"errors": lo.MapValues(failed, func(err error, _ string) string { return err.Error() }),
	})
}

func (s *Server) LinksHandler(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, s.provider.Links())
}

func (s *Server) PutLinkHandler(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Error(err) //nolint:errcheck

		return
	}

	var link core.LinkDefinition

	if err := json.Unmarshal(body, &link); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid link definition"})

		return
	}

	if !s.provider.PutLink(c.Request.Context(), link) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"accepted": false})

		return
	}

	c.JSON(http.StatusOK, gin.H{"accepted": true})
}

func (s *Server) DeleteLinkHandler(c *gin.Context) {
	s.provider.DeleteLink(c.Request.Context(), c.Param("actorID"))

	c.Status(http.StatusNoContent)
}

func (s *Server) SubscriptionsHandler(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, s.provider.Subscriptions())
}

func (s *Server) MessageHandler(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Error(err) //nolint:errcheck

		return
	}

	s.provider.HandleMessage(c.Request.Context(), body)

	c.Status(http.StatusAccepted)
}

func (s *Server) ShutdownHandler(c *gin.Context) {
	if err := s.provider.Shutdown(); err != nil {
		c.Error(err) //nolint:errcheck

		return
	}

	c.Status(http.StatusNoContent)
}
