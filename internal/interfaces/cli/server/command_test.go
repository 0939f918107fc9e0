package server

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMapEnvToGinMode(t *testing.T) {
	tests := map[string]string{
		"production":  gin.ReleaseMode,
		"prod":        gin.ReleaseMode,
		"release":     gin.ReleaseMode,
		"test":        gin.TestMode,
		"testing":     gin.TestMode,
		"development": gin.DebugMode,
		"dev":         gin.DebugMode,
		"":            gin.DebugMode,
	}

	for environment, want := range tests {
		t.Run(environment, func(t *testing.T) {
			assert.Equal(t, want, mapEnvToGinMode(environment))
		})
	}
}

func TestNewCommand_Flags(t *testing.T) {
	cmd := NewCommand()

	assert.Equal(t, "server", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("env"))
	assert.NotNil(t, cmd.Flags().Lookup("auto-migrate"))
}
