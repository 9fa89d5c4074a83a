package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/invoiced/internal/config"
	"github.com/smallbiznis/invoiced/internal/db"
	"github.com/smallbiznis/invoiced/internal/invoice"
	emailprovider "github.com/smallbiznis/invoiced/internal/providers/email"
	pdfprovider "github.com/smallbiznis/invoiced/internal/providers/pdf"
	"github.com/smallbiznis/invoiced/internal/seed"
	"github.com/smallbiznis/invoiced/internal/server"
	"github.com/smallbiznis/invoiced/pkg/log"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func main() {
	app := fx.New(
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,

		pdfprovider.Module,
		emailprovider.Module,
		invoice.Module,

		fx.Provide(server.NewEngine),
		fx.Provide(server.NewServer),
		fx.Invoke(func(gdb *gorm.DB, node *snowflake.Node) error {
			if err := seed.EnsureStatuses(gdb); err != nil {
				return err
			}
			return seed.EnsureDemoClient(gdb, node)
		}),
		fx.Invoke(func(s *server.Server) {
			s.RegisterRoutes()
		}),
		fx.Invoke(server.RunHTTP),
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
