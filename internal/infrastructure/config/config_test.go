package config

import (
	"testing"

	"github.com/erp/stockledger/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "stockledger", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(cfg *Config) {},
			wantErr: false,
		},
		{
			name: "unknown driver",
			mutate: func(cfg *Config) {
				cfg.Database.Driver = "oracle"
			},
			wantErr: true,
		},
		{
			name: "postgres requires host",
			mutate: func(cfg *Config) {
				cfg.Database.Driver = "postgres"
				cfg.Database.Host = ""
			},
			wantErr: true,
		},
		{
			name: "rate quoted for the base currency",
			mutate: func(cfg *Config) {
				cfg.Ledger.Rates = map[string]string{string(valueobject.BaseCurrency): "2"}
			},
			wantErr: true,
		},
		{
			name: "invalid log level",
			mutate: func(cfg *Config) {
				cfg.Log.Level = "verbose"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			applyDefaults(cfg)
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLedgerConfigRateTable(t *testing.T) {
	cfg := LedgerConfig{
		Rates: map[string]string{
			"usd": "1.70",
			"EUR": "1.85",
		},
	}

	rates, err := cfg.RateTable()
	require.NoError(t, err)
	assert.Equal(t, "1.7", rates[valueobject.USD].String())
	assert.Equal(t, "1.85", rates[valueobject.EUR].String())
}

func TestLedgerConfigRateTableRejectsBadRates(t *testing.T) {
	tests := []struct {
		name  string
		rates map[string]string
	}{
		{name: "non-numeric rate", rates: map[string]string{"USD": "abc"}},
		{name: "negative rate", rates: map[string]string{"USD": "-1"}},
		{name: "unknown currency", rates: map[string]string{"XXX": "1.5"}},
		{name: "base currency entry", rates: map[string]string{"AZN": "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := LedgerConfig{Rates: tt.rates}
			_, err := cfg.RateTable()
			assert.Error(t, err)
		})
	}
}

func TestDatabaseConfigDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "app",
		Password: "secret",
		DBName:   "stockledger",
		SSLMode:  "disable",
	}
	assert.Equal(t, "host=localhost port=5432 user=app password=secret dbname=stockledger sslmode=disable", cfg.DSN())
}
