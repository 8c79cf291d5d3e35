// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package apps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/clintmod/macprefs/internal/log"
	"github.com/clintmod/macprefs/internal/resource"
)

const (
	brewfile      = "Brewfile"
	npmGlobalJSON = "npm-global.json"
	npmGlobalList = "npm-global.txt"
)

var versionManagerFiles = []string{".tool-versions", ".nvmrc", ".node-version", ".python-version", ".ruby-version"}

// Packages records Homebrew and global npm packages and copies version
// manager pins. Restore reinstalls the Brewfile.
func Packages() resource.Module {
	var items []resource.Item
	for _, f := range versionManagerFiles {
		items = append(items, resource.HomeFile(f, ""))
	}

	return resource.Module{
		Name:    "packages",
		Title:   "package manager lists",
		Subdir:  "package_managers",
		Items:   items,
		Backup:  backupPackages,
		Restore: restorePackages,
	}
}

func backupPackages(ctx context.Context, env *resource.Env, dir string) error {
	log.Debugf("Creating Homebrew bundle...")
	if err := env.Copier.Exec(ctx, "brew", "bundle", "dump", "--file="+filepath.Join(dir, brewfile), "--force"); err != nil {
		log.Infof("Could not backup Homebrew packages (brew may not be installed): %v", err)
	} else {
		log.Debugf("Backed up Homebrew packages to Brewfile")
	}

	log.Debugf("Listing npm global packages...")
	out, err := env.Copier.Output(ctx, "npm", "list", "-g", "--depth=0", "--json")
	// npm exits non-zero on peer dependency problems but still prints the list.
	if len(out) == 0 {
		log.Infof("Could not backup npm global packages (npm may not be installed): %v", err)
		return nil
	}
	if err := env.Copier.WriteFile(filepath.Join(dir, npmGlobalJSON), out); err != nil {
		return err
	}

	pkgs, perr := NpmGlobalPackages(out)
	if perr != nil {
		log.Warnf("npm global list is not valid JSON: %v", perr)
		return nil
	}
	log.Debugf("Backed up %d npm global packages", len(pkgs))
	return env.Copier.WriteFile(filepath.Join(dir, npmGlobalList), []byte(strings.Join(pkgs, "\n")+"\n"))
}

func restorePackages(ctx context.Context, env *resource.Env, dir string) error {
	bf := filepath.Join(dir, brewfile)
	if _, err := os.Stat(bf); err == nil {
		log.Infof("Installing Homebrew packages from Brewfile...")
		log.Infof("This may take a while...")
		if err := env.Copier.Exec(ctx, "brew", "bundle", "--file="+bf); err != nil {
			log.WithError(err).Warnf("Could not restore Homebrew packages")
			log.Infof("You can manually run: brew bundle --file=%s", bf)
		}
	} else {
		log.Infof("No Brewfile backup found... skipping.")
	}

	if _, err := os.Stat(filepath.Join(dir, npmGlobalList)); err == nil {
		log.Infof("npm global packages backup found at: %s", filepath.Join(dir, npmGlobalList))
		log.Infof("To restore npm packages, run: npm install -g $(cat %s)", filepath.Join(dir, npmGlobalList))
	}
	return nil
}

// NpmGlobalPackages turns the output of "npm list -g --depth=0 --json" into
// sorted "name@version" strings. npm itself is left out.
func NpmGlobalPackages(data []byte) ([]string, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}

	var pkgs []string
	gjson.GetBytes(data, "dependencies").ForEach(func(name, info gjson.Result) bool {
		if name.String() == "npm" {
			return true
		}
		if v := info.Get("version").String(); v != "" {
			pkgs = append(pkgs, name.String()+"@"+v)
		} else {
			pkgs = append(pkgs, name.String())
		}
		return true
	})
	sort.Strings(pkgs)
	return pkgs, nil
}

// Applications records what is installed in /Applications, ~/Applications
// and from the Mac App Store. Restore is informational only.
func Applications() resource.Module {
	return resource.Module{
		Name:    "applications",
		Title:   "applications list",
		Subdir:  "applications",
		Backup:  backupApplications,
		Restore: restoreApplications,
	}
}

func backupApplications(ctx context.Context, env *resource.Env, dir string) error {
	listings := []struct {
		file string
		name string
		args []string
	}{
		{"Applications.txt", "ls", []string{"-1", "/Applications/"}},
		{"UserApplications.txt", "ls", []string{"-1", env.Settings.HomePath("Applications") + "/"}},
		{"MasApplications.txt", "mas", []string{"list"}},
	}

	for _, l := range listings {
		out, err := env.Copier.Output(ctx, l.name, l.args...)
		if err != nil || len(out) == 0 {
			log.Debugf("Could not record %s: %v", l.file, err)
			continue
		}
		if err := env.Copier.WriteFile(filepath.Join(dir, l.file), out); err != nil {
			return err
		}
		log.Debugf("Backed up %s", l.file)
	}
	return nil
}

func restoreApplications(_ context.Context, _ *resource.Env, dir string) error {
	log.Infof("Applications list backup is informational only.")
	for _, f := range []string{"Applications.txt", "UserApplications.txt", "MasApplications.txt"} {
		p := filepath.Join(dir, f)
		if _, err := os.Stat(p); err == nil {
			log.Infof("%s saved at: %s", strings.TrimSuffix(f, ".txt"), p)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "MasApplications.txt")); err == nil {
		log.Infof("To install Mac App Store apps, review the file and use: mas install <app-id>")
	}
	return nil
}
