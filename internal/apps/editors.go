// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package apps

import (
	"context"
	"os"
	"path/filepath"

	"github.com/clintmod/macprefs/internal/log"
	"github.com/clintmod/macprefs/internal/resource"
)

const (
	appSupport       = "Library/Application Support"
	vscodeUserDir    = appSupport + "/Code/User"
	vscodeExtensions = "extensions.txt"
)

// DefaultJetBrainsMarkers are the sub-directories that show a JetBrains
// configuration directory holds real settings.
var DefaultJetBrainsMarkers = []string{
	"keymaps",
	"colors",
	"codestyles",
	"fileTemplates",
	"templates",
	"options",
	"tools",
}

// JetBrainsBaseDir is where JetBrains IDEs keep one directory per product
// and version, relative to the home directory.
const JetBrainsBaseDir = appSupport + "/JetBrains"

// JetBrainsMarkers returns the configured marker sub-paths (jetbrains.markers),
// falling back to DefaultJetBrainsMarkers with a warning when the key is not
// a list of strings.
func JetBrainsMarkers() []string {
	return stringsFromConfig("jetbrains.markers", DefaultJetBrainsMarkers)
}

// JetBrains backs up the newest settings directory of each installed IDE.
func JetBrains() resource.Module {
	return resource.Module{
		Name:   "jetbrains",
		Title:  "JetBrains settings",
		Subdir: "jetbrains",
		Scan: &resource.Scan{
			BaseDir:  JetBrainsBaseDir,
			SubPaths: JetBrainsMarkers(),
			Pick:     resource.LatestVersions(),
		},
	}
}

// Sublime backs up the Packages/User directory of every Sublime Text and
// Sublime Merge installation.
func Sublime() resource.Module {
	return resource.Module{
		Name:   "sublime",
		Title:  "Sublime Text/Merge settings",
		Subdir: "sublime",
		Scan: &resource.Scan{
			BaseDir:  appSupport,
			SubPaths: []string{"Packages/User"},
			Pick:     resource.Prefixed("Sublime Text", "Sublime Merge"),
		},
		Notes: []string{"Sublime settings restored. Restart Sublime Text/Merge to apply changes."},
	}
}

// Alfred backs up Alfred's support directory and preferences plist.
func Alfred() resource.Module {
	return resource.Module{
		Name:   "alfred",
		Title:  "Alfred settings",
		Subdir: "alfred",
		Items: []resource.Item{
			resource.HomeDir(appSupport+"/Alfred", "ApplicationSupport"),
			resource.HomeFile("Library/Preferences/com.runningwithcrayons.Alfred.plist", ""),
		},
		Notes: []string{"Alfred settings restored. You may need to restart Alfred."},
	}
}

// VSCode backs up user settings, keybindings and snippets, and records the
// installed extensions.
func VSCode() resource.Module {
	return resource.Module{
		Name:   "vscode",
		Title:  "VS Code settings",
		Subdir: "vscode",
		Items: []resource.Item{
			resource.HomeFile(vscodeUserDir+"/settings.json", ""),
			resource.HomeFile(vscodeUserDir+"/keybindings.json", ""),
			resource.HomeDir(vscodeUserDir+"/snippets", "snippets"),
		},
		Backup:  backupVSCodeExtensions,
		Restore: restoreVSCodeExtensions,
	}
}

func backupVSCodeExtensions(ctx context.Context, env *resource.Env, dir string) error {
	out, err := env.Copier.Output(ctx, "code", "--list-extensions")
	if err != nil {
		log.Infof("Could not backup VS Code extensions list: %v", err)
		return nil
	}
	log.Debugf("Backed up extensions list")
	return env.Copier.WriteFile(filepath.Join(dir, vscodeExtensions), out)
}

func restoreVSCodeExtensions(_ context.Context, _ *resource.Env, dir string) error {
	file := filepath.Join(dir, vscodeExtensions)
	if _, err := os.Stat(file); err != nil {
		return nil
	}
	log.Infof("VS Code extensions list found at: %s", file)
	log.Infof("To install extensions, run:")
	log.Infof("  cat %s | xargs -L 1 code --install-extension", file)
	return nil
}
