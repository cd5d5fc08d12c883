// @title           Fixbench API
// @version         1.0
// @description     Repair shop billing and invoicing API
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api
// @Schemes 	http https

package main

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/fixbench/fixbench/internal/config"
	"github.com/fixbench/fixbench/internal/migration"
	"github.com/fixbench/fixbench/internal/seed"
	"github.com/fixbench/fixbench/internal/server"
	"github.com/fixbench/fixbench/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func main() {
	app := fx.New(
		fx.Provide(func() *snowflake.Node {
			node, err := snowflake.NewNode(1)
			if err != nil {
				panic(err)
			}
			return node
		}),
		db.Module,
		fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
			// Embedded migrations target postgres. Other dialects are for
			// tests and manage their schema themselves.
			if strings.EqualFold(cfg.DBType, "postgres") {
				sqlDB, err := conn.DB()
				if err != nil {
					return err
				}
				if err := migration.RunMigrations(sqlDB); err != nil {
					return err
				}
			}
			if err := seed.EnsureDefaultCompany(conn, cfg.DefaultCompanyID); err != nil {
				return err
			}
			if !cfg.IsProduction() {
				return seed.EnsureDefaultAdmin(conn, cfg.DefaultCompanyID)
			}
			return nil
		}),
		server.Module,
	)
	app.Run()
}
