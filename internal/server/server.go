// Package server exposes the invoicing API over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/invoiced/internal/config"
	"github.com/smallbiznis/invoiced/internal/invoice/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewEngine builds the gin engine with the shared middleware stack.
func NewEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// ServerParams bundles the HTTP server dependencies.
type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	Log        *zap.Logger
	InvoiceSvc domain.Service
	ClientSvc  domain.ClientService
	EmailSvc   domain.EmailService
	Documents  domain.DocumentStore
}

// Server carries the route handlers and their collaborators.
type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	log        *zap.Logger
	invoiceSvc domain.Service
	clientSvc  domain.ClientService
	emailSvc   domain.EmailService
	documents  domain.DocumentStore
}

// NewServer builds the server.
func NewServer(p ServerParams) *Server {
	return &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		log:        p.Log.Named("server"),
		invoiceSvc: p.InvoiceSvc,
		clientSvc:  p.ClientSvc,
		emailSvc:   p.EmailSvc,
		documents:  p.Documents,
	}
}

// RegisterRoutes mounts the API surface.
func (s *Server) RegisterRoutes() {
	api := s.engine.Group("/api")

	api.GET("/clients", s.ListClients)
	api.POST("/clients", s.CreateClient)
	api.GET("/clients/:id", s.GetClientByID)
	api.PUT("/clients/:id", s.UpdateClient)
	api.DELETE("/clients/:id", s.DeleteClient)

	api.GET("/invoice-statuses", s.ListInvoiceStatuses)

	api.GET("/invoices", s.ListInvoices)
	api.POST("/invoices", s.CreateInvoice)
	api.GET("/invoices/:id", s.GetInvoiceByID)
	api.PUT("/invoices/:id", s.UpdateInvoice)
	api.GET("/invoices/:id/pdf", s.DownloadInvoicePDF)
	api.POST("/invoices/:id/email", s.SendInvoiceEmail)
	api.GET("/invoices/:id/email-logs", s.ListInvoiceEmailLogs)
}

// RunHTTP starts the HTTP listener under the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.log.Info("http server starting", zap.String("addr", s.cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					s.log.Fatal("http server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
