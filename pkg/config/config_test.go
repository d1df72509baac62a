package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/carpet-shop-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("INVENTORY_STOCK_POLICY", "strict")
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "current", cfg.Reports.CostBasis)
	assert.Equal(t, 2, cfg.Checks.NotifyLeadDays)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.False(t, cfg.Auth.AdminMutations)
}

func TestLoad_LeeVariablesDeEntorno(t *testing.T) {
	t.Setenv("INVENTORY_STOCK_POLICY", "clamp")
	t.Setenv("REPORT_COST_BASIS", "snapshot")
	t.Setenv("CHECK_NOTIFY_LEAD_DAYS", "5")
	t.Setenv("AUTH_ADMIN_MUTATIONS", "true")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "clamp", cfg.Inventory.StockPolicy)
	assert.Equal(t, "snapshot", cfg.Reports.CostBasis)
	assert.Equal(t, 5, cfg.Checks.NotifyLeadDays)
	assert.True(t, cfg.Auth.AdminMutations)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
}

func TestLoad_PoliticaInvalida(t *testing.T) {
	t.Setenv("INVENTORY_STOCK_POLICY", "optimista")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "shop", Password: "p@ss:w/rd", DBName: "carpets", SSLMode: "disable"}
	assert.Equal(t, "postgres://shop:p%40ss%3Aw%2Frd@db:5432/carpets?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}

func TestAppConfig_Location(t *testing.T) {
	assert.Equal(t, time.UTC, config.AppConfig{}.Location())
	assert.Equal(t, time.UTC, config.AppConfig{Timezone: "No/Existe"}.Location())
}
