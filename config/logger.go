package config

import "go.uber.org/zap"

func NewZapLog(level string) (*zap.Logger, error) {
	// level is one of debug, info, warn, error
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zapcfg := zap.NewProductionConfig()
	zapcfg.Level = lvl
	return zapcfg.Build()
}
