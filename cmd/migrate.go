package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := openDatabase(conf)
		if err != nil {
			return err
		}
		defer closeDatabase(db)

		log.WithField("driver", conf.DBDriver).Info("Migration finished")
		return nil
	},
}
