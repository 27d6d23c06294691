package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/shubhamnegi/simpledb/config"
	"github.com/shubhamnegi/simpledb/dbcontext"
)

var (
	dbRoot     string
	configFile string
	noConfig   bool
	logLevel   = "info"

	cfg *config.Config
	db  *dbcontext.DB
)

var rootCmd = &cobra.Command{
	Use:               "simpledb",
	Short:             "Operational driver for the storage/execution core",
	PersistentPreRunE: rootPreRun,
}

func init() {
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: false})

	fs := rootCmd.PersistentFlags()
	fs.StringVar(&dbRoot, "db-root", ".", "`dir` holding table data files")
	fs.StringVar(&configFile, "config-file", "simpledb.hcl", "`file` to load config from")
	fs.BoolVar(&noConfig, "no-config", false, "don't load a config file")
	fs.StringVar(&logLevel, "log-level", logLevel, "log level: trace, debug, info, warn, error")

	rootCmd.AddCommand(loadCatalogCmd, scanCmd, insertCSVCmd)
}

func rootPreRun(cmd *cobra.Command, args []string) error {
	ll, err := log.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	log.SetLevel(ll)

	cfg = config.Default()
	cfg.DBRoot = dbRoot
	if !noConfig {
		if err := config.Load(configFile, cfg); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	db, err = dbcontext.New(cfg)
	return err
}
