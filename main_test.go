package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutesCommand_Markdown(t *testing.T) {
	var buf bytes.Buffer
	routesCmd.SetOut(&buf)
	defer routesCmd.SetOut(nil)

	require.NoError(t, routesCmd.RunE(routesCmd, nil))

	assert.Contains(t, buf.String(), "articles")
	assert.Contains(t, buf.String(), "/ping")
}

func TestRoutesCommand_JSON(t *testing.T) {
	var buf bytes.Buffer
	routesCmd.SetOut(&buf)
	defer routesCmd.SetOut(nil)

	routesJSON = true
	defer func() { routesJSON = false }()

	require.NoError(t, routesCmd.RunE(routesCmd, nil))

	var doc map[string]interface{}
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
}

func TestLoadConfig_DefaultsWithoutFlags(t *testing.T) {
	cfg, err := loadConfig(serveCmd)
	require.NoError(t, err)

	assert.Equal(t, ":3333", cfg.HTTP.Addr)
	assert.Equal(t, 15, cfg.Pagination.PerPage)
}
