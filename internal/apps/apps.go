// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package apps

import (
	"fmt"
	"sort"
	"strings"

	"github.com/clintmod/macprefs/internal/config"
	"github.com/clintmod/macprefs/internal/log"
	"github.com/clintmod/macprefs/internal/resource"
)

// All returns every module in backup order, minus the ones named in the
// "modules.skip" config key.
func All() []resource.Module {
	all := []resource.Module{
		Git(),
		GPG(),
		CloudCredentials(),
		EnvConfigs(),
		Fonts(),
		Alfred(),
		VSCode(),
		Sublime(),
		JetBrains(),
		Packages(),
		Applications(),
		Runtimes(),
		SystemPreferences(),
	}

	skip, _ := config.GetStringSlice("modules.skip", nil)
	if len(skip) == 0 {
		return all
	}

	var kept []resource.Module
	for _, m := range all {
		if contains(skip, m.Name) {
			log.Debugf("module %s skipped by config", m.Name)
			continue
		}
		kept = append(kept, m)
	}
	return kept
}

// Names returns the names of modules, sorted.
func Names(modules []resource.Module) []string {
	names := make([]string, 0, len(modules))
	for _, m := range modules {
		names = append(names, m.Name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the modules named in names, in the order of modules. No
// names means all of them. Unknown names are an error.
func Lookup(modules []resource.Module, names ...string) ([]resource.Module, error) {
	if len(names) == 0 {
		return modules, nil
	}

	var unknown []string
	for _, n := range names {
		if !hasModule(modules, n) {
			unknown = append(unknown, n)
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown module(s) %s; valid modules are %s",
			strings.Join(unknown, ", "), strings.Join(Names(modules), ", "))
	}

	var picked []resource.Module
	for _, m := range modules {
		if contains(names, m.Name) {
			picked = append(picked, m)
		}
	}
	return picked, nil
}

func hasModule(modules []resource.Module, name string) bool {
	for _, m := range modules {
		if m.Name == name {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// stringsFromConfig returns the config slice at key or def.
func stringsFromConfig(key string, def []string) []string {
	v, err := config.GetStringSlice(key, def)
	if err != nil {
		log.Warnf("ignoring config key %s: %v", key, err)
		return def
	}
	return v
}
