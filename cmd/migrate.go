package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmehdipour/superstore-dashboard/internal/config"
	"github.com/jmehdipour/superstore-dashboard/internal/db"
	"github.com/jmehdipour/superstore-dashboard/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	migrateDriver string
	migrateDir    string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the order store tables (dev: DROP & CREATE)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		driver := migrateDriver
		if driver == "" {
			driver = cfg.Orders.Source
		}
		var dbCfg config.DatabaseConfig
		switch driver {
		case db.DriverMySQL:
			dbCfg = cfg.MySQL
		case db.DriverClickHouse:
			dbCfg = cfg.ClickHouse
		default:
			return fmt.Errorf("migrate: driver must be mysql or clickhouse, got %q", driver)
		}

		sqlDB, err := db.NewSQLConnection(db.OptsFromConfig(driver, dbCfg))
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer sqlDB.Close()

		sqlPath := filepath.Join(migrateDir, driver, "001_init.sql")
		sqlBytes, err := os.ReadFile(sqlPath)
		if err != nil {
			return fmt.Errorf("read migration file %s: %w", sqlPath, err)
		}

		// Neither driver accepts several statements in one Exec by default.
		stmts := splitStatements(string(sqlBytes))
		for i, stmt := range stmts {
			if _, err := sqlDB.ExecContext(cmd.Context(), stmt); err != nil {
				return fmt.Errorf("exec statement %d: %w", i+1, err)
			}
		}

		logger.Log.Info("migration complete", zap.String("driver", driver), zap.Int("statements", len(stmts)))
		return nil
	},
}

func splitStatements(src string) []string {
	var out []string
	for _, part := range strings.Split(src, ";") {
		var lines []string
		for _, l := range strings.Split(part, "\n") {
			if strings.HasPrefix(strings.TrimSpace(l), "--") {
				continue
			}
			lines = append(lines, l)
		}
		if s := strings.TrimSpace(strings.Join(lines, "\n")); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func init() {
	migrateCmd.Flags().StringVar(&migrateDriver, "driver", "", "mysql|clickhouse (default: orders.source)")
	migrateCmd.Flags().StringVar(&migrateDir, "dir", "migrations", "migrations root directory")
}
