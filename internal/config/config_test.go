package config

import (
	"errors"
	"testing"
	"time"
)

func validConfig() Config {
	c := Default()
	c.VaultPath = "/tmp/vault"
	return c
}

func TestDefault(t *testing.T) {
	t.Setenv("VAULT_PATH", "/srv/vault")

	c := Default()

	if c.VaultPath != "/srv/vault" {
		t.Errorf("VaultPath = %q, want /srv/vault", c.VaultPath)
	}
	if c.TickInterval != 60*time.Second {
		t.Errorf("TickInterval = %v", c.TickInterval)
	}
	if c.DailyHour != 20 {
		t.Errorf("DailyHour = %d", c.DailyHour)
	}
	if c.WeeklyDay != 6 {
		t.Errorf("WeeklyDay = %d", c.WeeklyDay)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"empty vault", func(c *Config) { c.VaultPath = "" }, ErrNoVaultPath},
		{"hour too big", func(c *Config) { c.DailyHour = 24 }, ErrBadDailyHour},
		{"negative hour", func(c *Config) { c.DailyHour = -1 }, ErrBadDailyHour},
		{"day too big", func(c *Config) { c.WeeklyDay = 7 }, ErrBadWeeklyDay},
		{"zero tick", func(c *Config) { c.TickInterval = 0 }, ErrBadInterval},
		{"unnamed watcher", func(c *Config) {
			c.Watchers = []WatcherDescriptor{{Command: []string{"x"}}}
		}, ErrNoWatcherName},
		{"commandless watcher", func(c *Config) {
			c.Watchers = []WatcherDescriptor{{Name: "w"}}
		}, ErrEmptyWatcher},
		{"duplicate watcher", func(c *Config) {
			c.Watchers = []WatcherDescriptor{
				{Name: "w", Command: []string{"x"}},
				{Name: "w", Command: []string{"y"}},
			}
		}, ErrDuplicateName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(&c)

			err := c.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidate_OK(t *testing.T) {
	c := validConfig()
	c.Watchers = []WatcherDescriptor{
		{Name: "orders-watcher", Command: []string{"/usr/bin/vigil", "watch", "orders"}},
		{Name: "approval-watcher", Command: []string{"/usr/bin/vigil", "watch", "approvals"}},
	}

	if err := c.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
