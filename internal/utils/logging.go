package utils

import (
	"go.uber.org/zap"
)

var Logger *zap.Logger

// InitLogger builds the process logger. Development mode gives readable
// console output for local runs.
func InitLogger(development bool) {
	var err error
	if development {
		Logger, err = zap.NewDevelopment()
	} else {
		Logger, err = zap.NewProduction()
	}
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
}

func GetLogger() *zap.Logger {
	if Logger == nil {
		InitLogger(false)
	}
	return Logger
}
