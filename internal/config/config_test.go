package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldAutoMigrate(t *testing.T) {
	cfg := &Config{}

	cfg.Server.Mode = "debug"
	assert.True(t, cfg.ShouldAutoMigrate())

	// release模式默认不迁移
	cfg.Server.Mode = "release"
	assert.False(t, cfg.ShouldAutoMigrate())

	// -migrate 显式开启
	cfg.ForceMigrate = true
	assert.True(t, cfg.ShouldAutoMigrate())
}
