// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package apps

import (
	"path/filepath"

	"github.com/clintmod/macprefs/internal/resource"
)

const systemPrefsDir = "/Library/Preferences"

var defaultSystemPrefs = []string{
	"com.apple.TimeMachine.plist",
	"com.apple.SoftwareUpdate.plist",
	"com.apple.Bluetooth.plist",
	"com.apple.NetworkSharing.plist",
}

// SystemPreferences backs up machine wide plists. Reading them usually needs
// sudo or Full Disk Access, so each is best effort. Config key: system.prefs.
func SystemPreferences() resource.Module {
	items := []resource.Item{systemPlist(
		filepath.Join(systemPrefsDir, "com.apple.PowerManagement.plist"),
		filepath.Join(systemPrefsDir, "SystemConfiguration", "com.apple.PowerManagement.plist"),
	)}
	for _, p := range stringsFromConfig("system.prefs", defaultSystemPrefs) {
		items = append(items, systemPlist(filepath.Join(systemPrefsDir, p)))
	}

	return resource.Module{
		Name:   "system",
		Title:  "system preferences",
		Subdir: "system_preferences",
		Items:  items,
		Notes: []string{
			"If system preferences were skipped, run with sudo or grant Full Disk Access to your terminal.",
		},
	}
}

func systemPlist(path string, alternates ...string) resource.Item {
	return resource.Item{
		Source:     path,
		Alternates: alternates,
		Kind:       resource.File,
		Sudo:       true,
		Owner:      "root:wheel",
		Mode:       "644",
		BestEffort: true,
	}
}
