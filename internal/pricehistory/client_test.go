package pricehistory

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/comprasys/cotacao-api/internal/config"
)

func TestBuildConnectionString(t *testing.T) {
	tests := []struct {
		name         string
		url          string
		wantHost     string
		wantDatabase string
	}{
		{
			name:         "host port and database",
			url:          "erp-mirror.interno:1433/Compras",
			wantHost:     "erp-mirror.interno:1433",
			wantDatabase: "Compras",
		},
		{
			name:         "default port",
			url:          "erp-mirror.interno/Compras",
			wantHost:     "erp-mirror.interno:1433",
			wantDatabase: "Compras",
		},
		{
			name:     "no database",
			url:      "erp-mirror.interno:14330",
			wantHost: "erp-mirror.interno:14330",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.PriceHistoryConfig{
				URL:      tt.url,
				User:     "readonly",
				Password: "s3cret",
			}

			connStr, err := buildConnectionString(cfg)
			require.NoError(t, err)

			parsed, err := url.Parse(connStr)
			require.NoError(t, err)

			assert.Equal(t, "sqlserver", parsed.Scheme)
			assert.Equal(t, tt.wantHost, parsed.Host)
			assert.Equal(t, "readonly", parsed.User.Username())
			pw, _ := parsed.User.Password()
			assert.Equal(t, "s3cret", pw)

			query := parsed.Query()
			assert.Equal(t, "true", query.Get("encrypt"))
			assert.Equal(t, "false", query.Get("TrustServerCertificate"))
			assert.Equal(t, tt.wantDatabase, query.Get("database"))
		})
	}
}

func TestBuildConnectionString_EscapesCredentials(t *testing.T) {
	cfg := &config.PriceHistoryConfig{
		URL:      "erp-mirror.interno:1433/Compras",
		User:     "svc@compras",
		Password: "p@ss:word/!",
	}

	connStr, err := buildConnectionString(cfg)
	require.NoError(t, err)

	parsed, err := url.Parse(connStr)
	require.NoError(t, err)

	assert.Equal(t, "svc@compras", parsed.User.Username())
	pw, _ := parsed.User.Password()
	assert.Equal(t, "p@ss:word/!", pw)

	// raw password must not leak unescaped into the string
	assert.False(t, strings.Contains(connStr, "p@ss:word/!"))
}

func TestNewClient_Disabled(t *testing.T) {
	client, err := NewClient(&config.PriceHistoryConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, client)

	client, err = NewClient(nil, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewClient_MissingCredentials(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.PriceHistoryConfig
	}{
		{"no url", config.PriceHistoryConfig{Enabled: true, User: "u", Password: "p"}},
		{"no user", config.PriceHistoryConfig{Enabled: true, URL: "host/db", Password: "p"}},
		{"no password", config.PriceHistoryConfig{Enabled: true, URL: "host/db", User: "u"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(&tt.cfg, zap.NewNop())
			require.NoError(t, err)
			assert.Nil(t, client)
		})
	}
}

func TestNilClientIsSafe(t *testing.T) {
	var client *Client

	assert.False(t, client.IsEnabled())
	assert.NoError(t, client.Close())

	status := client.HealthCheck(context.Background())
	require.NotNil(t, status)
	assert.Equal(t, "disabled", status.Status)

	price, err := client.LastApprovedPrice(context.Background(), "PROD-001")
	require.NoError(t, err)
	assert.Nil(t, price)

	n, err := client.RefreshCache(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
