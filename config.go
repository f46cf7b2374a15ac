package main

import (
	"fyne.io/fyne/v2"
)

type Config struct {
	AutoStart            bool
	SnoozeMinutes        int
	SoundEnabled         bool
	NotificationsEnabled bool
}

func loadConfig(app fyne.App) *Config {
	prefs := app.Preferences()

	return &Config{
		AutoStart:            prefs.BoolWithFallback("auto_start", false),
		SnoozeMinutes:        prefs.IntWithFallback("snooze_minutes", 5),
		SoundEnabled:         prefs.BoolWithFallback("sound_enabled", true),
		NotificationsEnabled: prefs.BoolWithFallback("notifications_enabled", true),
	}
}

func saveConfig(app fyne.App, config *Config) {
	prefs := app.Preferences()

	prefs.SetBool("auto_start", config.AutoStart)
	prefs.SetInt("snooze_minutes", config.SnoozeMinutes)
	prefs.SetBool("sound_enabled", config.SoundEnabled)
	prefs.SetBool("notifications_enabled", config.NotificationsEnabled)
}
