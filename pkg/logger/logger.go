package logger

import (
	"go.uber.org/zap"
)

// New builds the shared production logger.
func New() *zap.Logger {
	l, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return l
}
