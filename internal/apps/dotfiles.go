// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package apps

import (
	"path/filepath"

	"github.com/clintmod/macprefs/internal/resource"
)

// Git backs up the global git configuration files.
func Git() resource.Module {
	return resource.Module{
		Name:   "git",
		Title:  "git configuration",
		Subdir: "git_config",
		Items: []resource.Item{
			resource.HomeFile(".gitconfig", ""),
			resource.HomeFile(".gitconfig.local", ""),
			resource.HomeFile(".gitignore_global", ""),
		},
	}
}

// GPG backs up ~/.gnupg. The restored tree is locked down to 700.
func GPG() resource.Module {
	gnupg := resource.HomeDir(".gnupg", "")
	gnupg.Mode = "700"
	return resource.Module{
		Name:   "gpg",
		Title:  "GPG keys",
		Subdir: "gnupg",
		Items:  []resource.Item{gnupg},
	}
}

// CloudCredentials backs up the AWS, Kubernetes and Docker client config
// directories as opaque trees.
func CloudCredentials() resource.Module {
	return resource.Module{
		Name:   "cloud",
		Title:  "cloud credentials",
		Subdir: "cloud_credentials",
		Items: []resource.Item{
			resource.HomeDir(".aws", "aws"),
			resource.HomeDir(".kube", "kube"),
			resource.HomeDir(".docker", "docker"),
		},
	}
}

var (
	defaultEnvFiles      = []string{".aliases", ".exports", ".env", ".functions", ".path", ".extra"}
	defaultEnvConfigDirs = []string{"direnv", "gh", "bat", "htop"}
	defaultEnvConfigFile = []string{"starship.toml"}
)

// EnvConfigs backs up shell environment dotfiles and selected entries of
// ~/.config. Config keys: env.files, env.config_dirs, env.config_files.
func EnvConfigs() resource.Module {
	var items []resource.Item
	for _, f := range stringsFromConfig("env.files", defaultEnvFiles) {
		items = append(items, resource.HomeFile(f, ""))
	}
	for _, d := range stringsFromConfig("env.config_dirs", defaultEnvConfigDirs) {
		items = append(items, resource.HomeDir(filepath.Join(".config", d), filepath.Join("config", d)))
	}
	for _, f := range stringsFromConfig("env.config_files", defaultEnvConfigFile) {
		items = append(items, resource.HomeFile(filepath.Join(".config", f), "config"))
	}

	return resource.Module{
		Name:   "env",
		Title:  "environment configs",
		Subdir: "env_configs",
		Items:  items,
	}
}

// Fonts backs up user installed fonts.
func Fonts() resource.Module {
	return resource.Module{
		Name:   "fonts",
		Title:  "custom fonts",
		Subdir: "fonts",
		Items:  []resource.Item{resource.HomeDir("Library/Fonts", "UserFonts")},
		Notes:  []string{"Font cache will be rebuilt automatically by the system."},
	}
}
