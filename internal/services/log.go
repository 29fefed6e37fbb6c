package services

import (
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// SetLogLevel adjusts the services logger, used by the serve command
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}
