// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/marker/internal/config"
)

func TestServe_RefusesToStartWithoutAPIKey(t *testing.T) {
	for _, k := range []string{"API_KEY", "MARKER_API_KEY"} {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())

	rootCmd.SetArgs([]string{"serve", "--env-file", "", "--listen", "127.0.0.1:0"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.ExecuteContext(context.Background())
	assert.ErrorIs(t, err, config.ErrMissingAPIKey)
}
