package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_GROUP_CHAT_ID", "")
	t.Setenv("NOTIFY_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, 5*time.Second, cfg.Notify.Timeout)
	assert.False(t, cfg.TelegramEnabled())
}

func TestLoadTelegram(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_GROUP_CHAT_ID", "-100200300")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(-100200300), cfg.Telegram.GroupChatID)
	assert.True(t, cfg.TelegramEnabled())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("TELEGRAM_GROUP_CHAT_ID", "group")
	_, err = Load()
	assert.Error(t, err)
}

func TestInitDBSqlite(t *testing.T) {
	db, err := InitDB(DBConfig{Driver: "sqlite", DSN: "file::memory:"})
	require.NoError(t, err)

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}
