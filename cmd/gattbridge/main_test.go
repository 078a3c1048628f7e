package main

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		version  string
		expected string
	}{
		{"1.2.3", "v1.2.3"},
		{"v1.2.3", "v1.2.3"},
		{"dev", "dev"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatVersion(tt.version))
		})
	}
}

func TestConfigureLogger(t *testing.T) {
	newCmd := func(level string) *cobra.Command {
		cmd := &cobra.Command{}
		cmd.Flags().String("log-level", "", "")
		if level != "" {
			require.NoError(t, cmd.Flags().Set("log-level", level))
		}
		return cmd
	}

	t.Run("defaults to info", func(t *testing.T) {
		logger, err := configureLogger(newCmd(""))
		require.NoError(t, err)
		assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	})

	t.Run("honors the flag", func(t *testing.T) {
		logger, err := configureLogger(newCmd("debug"))
		require.NoError(t, err)
		assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	})

	t.Run("rejects unknown levels", func(t *testing.T) {
		_, err := configureLogger(newCmd("loud"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}
