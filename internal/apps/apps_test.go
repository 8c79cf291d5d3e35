// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package apps

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clintmod/macprefs/internal/config"
	"github.com/clintmod/macprefs/internal/fsops/fsopstest"
	"github.com/clintmod/macprefs/internal/resource"
)

// withConfig installs data as the global configuration for one test.
func withConfig(t *testing.T, data map[string]interface{}) {
	t.Helper()
	saved := config.Config
	config.Config = config.Type{Source: "test", Data: data}
	t.Cleanup(func() { config.Config = saved })
}

func newEnv(t *testing.T) (*resource.Env, *fsopstest.Recorder) {
	t.Helper()
	rec := fsopstest.NewRecorder()
	s := config.Settings{
		HomeDir:   t.TempDir(),
		User:      "tester",
		BackupDir: t.TempDir(),
	}
	return resource.NewEnv(s, rec), rec
}

func TestAllOrder(t *testing.T) {
	withConfig(t, map[string]interface{}{"unrelated": true})

	var names []string
	for _, m := range All() {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{
		"git", "gpg", "cloud", "env", "fonts", "alfred", "vscode", "sublime",
		"jetbrains", "packages", "applications", "runtimes", "system",
	}, names)
}

func TestAllSkip(t *testing.T) {
	withConfig(t, map[string]interface{}{
		"modules": map[string]interface{}{"skip": []interface{}{"system", "fonts"}},
	})

	names := Names(All())
	assert.NotContains(t, names, "system")
	assert.NotContains(t, names, "fonts")
	assert.Contains(t, names, "git")
}

func TestModulesAreWellFormed(t *testing.T) {
	withConfig(t, map[string]interface{}{"unrelated": true})

	seenNames := map[string]bool{}
	seenDirs := map[string]bool{}
	for _, m := range All() {
		assert.NotEmpty(t, m.Name)
		assert.NotEmpty(t, m.Title, m.Name)
		assert.NotEmpty(t, m.Subdir, m.Name)
		assert.False(t, seenNames[m.Name], "duplicate name %s", m.Name)
		assert.False(t, seenDirs[m.Subdir], "duplicate subdir %s", m.Subdir)
		seenNames[m.Name] = true
		seenDirs[m.Subdir] = true
		assert.True(t, len(m.Items) > 0 || m.Scan != nil || m.Backup != nil, "%s does nothing", m.Name)
	}
}

func TestLookup(t *testing.T) {
	withConfig(t, map[string]interface{}{"unrelated": true})
	all := All()

	tests := []struct {
		name    string
		args    []string
		want    []string
		wantErr string
	}{
		{name: "none means all", args: nil, want: Names(all)},
		{name: "keeps module order", args: []string{"vscode", "git"}, want: []string{"git", "vscode"}},
		{name: "unknown", args: []string{"git", "emacs"}, wantErr: "unknown module(s) emacs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lookup(all, tt.args...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Contains(t, err.Error(), "valid modules are")
				return
			}
			require.NoError(t, err)
			var names []string
			for _, m := range got {
				names = append(names, m.Name)
			}
			if tt.args == nil {
				assert.ElementsMatch(t, tt.want, names)
			} else {
				assert.Equal(t, tt.want, names)
			}
		})
	}
}

func TestEnvConfigsFromConfig(t *testing.T) {
	withConfig(t, map[string]interface{}{
		"env": map[string]interface{}{
			"files":       []interface{}{".zshenv"},
			"config_dirs": []interface{}{"nvim"},
		},
	})

	m := EnvConfigs()
	var sources []string
	for _, it := range m.Items {
		sources = append(sources, it.Source)
	}
	assert.Contains(t, sources, ".zshenv")
	assert.Contains(t, sources, filepath.Join(".config", "nvim"))
	assert.Contains(t, sources, filepath.Join(".config", "starship.toml"))
	assert.NotContains(t, sources, ".aliases")
}

func TestJetBrainsMarkersFromConfig(t *testing.T) {
	withConfig(t, map[string]interface{}{
		"jetbrains": map[string]interface{}{"markers": []interface{}{"keymaps"}},
	})
	assert.Equal(t, []string{"keymaps"}, JetBrains().Scan.SubPaths)

	withConfig(t, map[string]interface{}{"unrelated": true})
	assert.Equal(t, DefaultJetBrainsMarkers, JetBrains().Scan.SubPaths)

	withConfig(t, map[string]interface{}{
		"jetbrains": map[string]interface{}{"markers": "keymaps"},
	})
	assert.Equal(t, DefaultJetBrainsMarkers, JetBrainsMarkers())
}

func TestSystemPreferences(t *testing.T) {
	withConfig(t, map[string]interface{}{
		"system": map[string]interface{}{"prefs": []interface{}{"com.apple.dock.plist"}},
	})

	m := SystemPreferences()
	require.Len(t, m.Items, 2)

	pm := m.Items[0]
	assert.Equal(t, "/Library/Preferences/com.apple.PowerManagement.plist", pm.Source)
	assert.Equal(t, []string{"/Library/Preferences/SystemConfiguration/com.apple.PowerManagement.plist"}, pm.Alternates)

	for _, it := range m.Items {
		assert.True(t, it.Sudo)
		assert.True(t, it.BestEffort)
		assert.Equal(t, "root:wheel", it.Owner)
		assert.Equal(t, "644", it.Mode)
	}
	assert.Equal(t, "/Library/Preferences/com.apple.dock.plist", m.Items[1].Source)
}

func TestNpmGlobalPackages(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{
			name: "sorted without npm",
			input: `{"name":"lib","dependencies":{
				"typescript":{"version":"5.4.2"},
				"npm":{"version":"10.5.0"},
				"eslint":{"version":"8.57.0"}}}`,
			want: []string{"eslint@8.57.0", "typescript@5.4.2"},
		},
		{
			name:  "missing version",
			input: `{"dependencies":{"linked":{}}}`,
			want:  []string{"linked"},
		},
		{
			name:  "no dependencies",
			input: `{"name":"lib"}`,
			want:  nil,
		},
		{
			name:    "not json",
			input:   `npm ERR! missing`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NpmGlobalPackages([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseToolVersion(t *testing.T) {
	tests := []struct {
		output string
		want   string
		ok     bool
	}{
		{"v20.11.1\n", "v20.11.1", true},
		{"Python 3.12.1", "3.12.1", true},
		{"ruby 3.3.0 (2023-12-25 revision 5124f9ac75) [arm64-darwin23]", "3.3.0", true},
		{"go version go1.22.0 darwin/arm64", "1.22.0", true},
		{"8.0.100-rc.2.23502.2", "8.0.100-rc.2.23502.2", true},
		{"10.5.0", "10.5.0", true},
		{"command not found", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			got, ok := ParseToolVersion(tt.output)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPackagesBackup(t *testing.T) {
	env, rec := newEnv(t)
	rec.Outputs["npm list -g --depth=0 --json"] = `{"dependencies":{"yarn":{"version":"1.22.22"}}}`
	dir := t.TempDir()

	require.NoError(t, backupPackages(context.Background(), env, dir))

	assert.True(t, rec.Called("brew bundle dump --file="+filepath.Join(dir, brewfile)+" --force"))

	data, err := os.ReadFile(filepath.Join(dir, npmGlobalList))
	require.NoError(t, err)
	assert.Equal(t, "yarn@1.22.22\n", string(data))
	assert.FileExists(t, filepath.Join(dir, npmGlobalJSON))
}

func TestPackagesBackupWithoutTools(t *testing.T) {
	env, rec := newEnv(t)
	rec.Errors["brew"] = errors.New("not found")
	rec.Errors["npm"] = errors.New("not found")
	dir := t.TempDir()

	require.NoError(t, backupPackages(context.Background(), env, dir))
	assert.NoFileExists(t, filepath.Join(dir, npmGlobalList))
}

func TestPackagesRestore(t *testing.T) {
	env, rec := newEnv(t)
	dir := t.TempDir()

	require.NoError(t, restorePackages(context.Background(), env, dir))
	assert.False(t, rec.Called("brew"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, brewfile), []byte(`brew "jq"`), 0o644))
	require.NoError(t, restorePackages(context.Background(), env, dir))
	assert.True(t, rec.Called("brew bundle --file="+filepath.Join(dir, brewfile)))

	rec.Errors["brew"] = errors.New("exit status 1")
	rec.Calls = nil
	require.NoError(t, os.WriteFile(filepath.Join(dir, npmGlobalList), []byte("jq@1.0.0\n"), 0o644))
	assert.NoError(t, restorePackages(context.Background(), env, dir), "a failed reinstall is only a warning")
	assert.True(t, rec.Called("brew bundle --file="))
}

func TestApplicationsBackup(t *testing.T) {
	env, rec := newEnv(t)
	rec.Outputs["ls -1 /Applications/"] = "Safari.app\nXcode.app\n"
	rec.Errors["mas"] = errors.New("not found")
	dir := t.TempDir()

	require.NoError(t, backupApplications(context.Background(), env, dir))

	data, err := os.ReadFile(filepath.Join(dir, "Applications.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Safari.app\nXcode.app\n", string(data))
	assert.NoFileExists(t, filepath.Join(dir, "MasApplications.txt"))
	assert.NoFileExists(t, filepath.Join(dir, "UserApplications.txt"))
}

func TestRuntimesBackup(t *testing.T) {
	env, rec := newEnv(t)
	rec.Outputs["node --version"] = "v20.11.1\n"
	rec.Outputs["go version"] = "go version go1.22.0 darwin/arm64\n"
	rec.Outputs["dotnet --list-sdks"] = "8.0.100 [/usr/local/share/dotnet/sdk]\n"
	rec.Errors["python3"] = errors.New("not found")
	dir := t.TempDir()

	require.NoError(t, backupRuntimes(context.Background(), env, dir))

	data, err := os.ReadFile(filepath.Join(dir, runtimeVersionsFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "node: 20.11.1\n")
	assert.Contains(t, string(data), "go: 1.22.0\n")
	assert.Contains(t, string(data), "python3: not installed\n")
	assert.FileExists(t, filepath.Join(dir, "dotnet-sdks.txt"))
	assert.NoFileExists(t, filepath.Join(dir, "dotnet-runtimes.txt"))
}

func TestVSCodeExtensions(t *testing.T) {
	env, rec := newEnv(t)
	rec.Outputs["code --list-extensions"] = "golang.go\n"
	dir := t.TempDir()

	require.NoError(t, backupVSCodeExtensions(context.Background(), env, dir))
	data, err := os.ReadFile(filepath.Join(dir, vscodeExtensions))
	require.NoError(t, err)
	assert.Equal(t, "golang.go\n", string(data))

	require.NoError(t, restoreVSCodeExtensions(context.Background(), env, dir))
}

func TestVSCodeExtensionsWithoutCode(t *testing.T) {
	env, rec := newEnv(t)
	rec.Errors["code"] = errors.New("not found")
	dir := t.TempDir()

	require.NoError(t, backupVSCodeExtensions(context.Background(), env, dir))
	assert.NoFileExists(t, filepath.Join(dir, vscodeExtensions))
}

func TestGitModuleRoundTrip(t *testing.T) {
	env, _ := newEnv(t)
	home := env.Settings.HomeDir
	require.NoError(t, os.WriteFile(filepath.Join(home, ".gitconfig"), []byte("[user]\n"), 0o644))

	report, err := resource.Run(context.Background(), env, []resource.Module{Git()}, resource.Backup)
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, 1, report.Results[0].Copied)
	assert.Equal(t, 2, report.Results[0].Skipped)
	assert.FileExists(t, filepath.Join(env.Settings.BackupDir, "git_config", ".gitconfig"))
}
