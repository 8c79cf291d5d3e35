// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package apps

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	version "github.com/hashicorp/go-version"

	"github.com/clintmod/macprefs/internal/log"
	"github.com/clintmod/macprefs/internal/resource"
)

const runtimeVersionsFile = "versions.txt"

// versionToken finds the first dotted version in tool output such as
// "Python 3.12.1" or "go version go1.22.0 darwin/arm64".
var versionToken = regexp.MustCompile(`v?\d+(\.\d+)+(-[0-9A-Za-z.]+)?`)

type runtimeProbe struct {
	label string
	name  string
	args  []string
}

var runtimeProbes = []runtimeProbe{
	{"dotnet", "dotnet", []string{"--version"}},
	{"node", "node", []string{"--version"}},
	{"npm", "npm", []string{"--version"}},
	{"python3", "python3", []string{"--version"}},
	{"ruby", "ruby", []string{"--version"}},
	{"go", "go", []string{"version"}},
}

// Runtimes records installed language runtime versions. Restore prints them.
func Runtimes() resource.Module {
	return resource.Module{
		Name:    "runtimes",
		Title:   "runtime versions",
		Subdir:  "runtime_versions",
		Backup:  backupRuntimes,
		Restore: restoreRuntimes,
		Notes:   []string{"For node/npm versions, use nvm, asdf, or the packages module."},
	}
}

// ParseToolVersion extracts and normalizes the version a tool prints. ok is
// false when the output carries no parseable version.
func ParseToolVersion(out string) (string, bool) {
	tok := versionToken.FindString(strings.TrimPrefix(strings.TrimSpace(out), "go version go"))
	if tok == "" {
		return "", false
	}
	v, err := version.NewVersion(tok)
	if err != nil {
		return "", false
	}
	return v.Original(), true
}

func backupRuntimes(ctx context.Context, env *resource.Env, dir string) error {
	var lines []string
	for _, p := range runtimeProbes {
		log.Debugf("Checking %s version...", p.label)
		out, err := env.Copier.Output(ctx, p.name, p.args...)
		if err != nil {
			log.Debugf("%s not found: %v", p.label, err)
			lines = append(lines, p.label+": not installed")
			continue
		}
		if v, ok := ParseToolVersion(string(out)); ok {
			lines = append(lines, p.label+": "+strings.TrimPrefix(v, "v"))
		} else {
			lines = append(lines, p.label+": "+strings.TrimSpace(string(out)))
		}
	}

	for file, flag := range map[string]string{"dotnet-sdks.txt": "--list-sdks", "dotnet-runtimes.txt": "--list-runtimes"} {
		out, err := env.Copier.Output(ctx, "dotnet", flag)
		if err != nil || len(bytes.TrimSpace(out)) == 0 {
			continue
		}
		if err := env.Copier.WriteFile(filepath.Join(dir, file), out); err != nil {
			return err
		}
	}

	path := filepath.Join(dir, runtimeVersionsFile)
	if err := env.Copier.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n")); err != nil {
		return err
	}
	log.Infof("Backed up runtime versions to %s", path)
	return nil
}

func restoreRuntimes(_ context.Context, _ *resource.Env, dir string) error {
	log.Infof("Runtime versions backup is informational only.")

	f, err := os.Open(filepath.Join(dir, runtimeVersionsFile))
	if err == nil {
		defer f.Close()
		log.Infof("Runtime versions from backup:")
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			log.Infof("  %s", sc.Text())
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "dotnet-sdks.txt")); err == nil {
		log.Infof(".NET SDKs list saved at: %s", filepath.Join(dir, "dotnet-sdks.txt"))
		log.Infof("To install .NET SDKs, visit: https://dotnet.microsoft.com/download")
	}
	return nil
}
