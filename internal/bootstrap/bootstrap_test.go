package bootstrap

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/webtolk/amocrm-radicalmart/pkg/config"
	"github.com/webtolk/amocrm-radicalmart/pkg/logger"
)

func TestNewComponents(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:bootstrap?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	cfg := &config.Config{
		AmoCRM:      config.AmoCRMConfig{Token: "token", Domain: "example.amocrm.ru"},
		Integration: config.IntegrationConfig{Language: "ru-RU"},
	}
	components, err := NewComponents(cfg, logger.Nop(), db, prometheus.NewRegistry())
	require.NoError(t, err)
	assert.NotNil(t, components.Sync)
	assert.Equal(t, "ru", components.Translator.Language())
}

func TestNewComponentsRequiresToken(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:bootstrap_token?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	_, err = NewComponents(&config.Config{AmoCRM: config.AmoCRMConfig{Domain: "x.amocrm.ru"}}, logger.Nop(), db, nil)
	require.Error(t, err)
}
