package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/clintmod/macprefs/internal/command"
)

const commandTemplate = `# macprefs {{ .Name }}

{{ .Usage }}

## Usage

` + "```" + `
{{ .UsageText }}
` + "```" + `
{{- if .Description }}

{{ .Description }}
{{- end }}
{{- if .Aliases }}

Aliases: {{ join .Aliases ", " }}
{{- end }}

## Flags

| Flag | Description |
|------|-------------|
{{- range .Flags }}
| ` + "`{{ .Syntax }}`" + ` | {{ .Description }} |
{{- end }}

_Generated {{ .Date }} for macprefs {{ .Version }}._
`

type Flag struct {
	ID          string
	Syntax      string
	Description string
}

type TemplateData struct {
	Name        string
	Usage       string
	UsageText   string
	Description string
	Aliases     []string
	Flags       []Flag
	Date        string
	Version     string
}

func main() {
	docs := "docs"
	if len(os.Args) > 1 {
		docs = os.Args[1]
	}

	app, err := command.InitApp(context.Background(), []string{"macprefs"})
	if err != nil {
		panic(err)
	}

	tmpl := template.Must(template.New("command").
		Funcs(template.FuncMap{"join": strings.Join}).
		Parse(commandTemplate))

	folder := filepath.Join(docs, "commands")
	if err := os.MkdirAll(folder, 0o755); err != nil {
		panic(err)
	}

	for _, cmd := range app.Commands {
		flags := append(describeFlags(app.Flags), describeFlags(cmd.Flags)...)
		sort.Slice(flags, func(i, j int) bool {
			return flags[i].ID < flags[j].ID
		})

		metadata := TemplateData{
			Name:        cmd.Name,
			Usage:       cmd.Usage,
			UsageText:   cmd.UsageText,
			Description: cmd.Description,
			Aliases:     cmd.Aliases,
			Flags:       flags,
			Date:        time.Now().Format("January 2, 2006"),
			Version:     getVersion(),
		}

		path := filepath.Join(folder, cmd.Name+".md")
		fmt.Println("Generating", path)

		file, err := os.Create(path)
		if err != nil {
			panic(err)
		}
		if err := tmpl.Execute(file, metadata); err != nil {
			panic(err)
		}
		file.Close()
	}
}

// describeFlags turns CLI flags into table rows, skipping --version.
func describeFlags(flags []cli.Flag) []Flag {
	var out []Flag
	for _, f := range flags {
		names := f.Names()
		if names[0] == "version" {
			continue
		}

		syntax := make([]string, 0, len(names))
		for _, n := range names {
			if len(n) == 1 {
				syntax = append(syntax, "-"+n)
			} else {
				syntax = append(syntax, "--"+n)
			}
		}

		desc := ""
		if d, ok := f.(cli.DocGenerationFlag); ok {
			desc = d.GetUsage()
		}
		out = append(out, Flag{ID: names[0], Syntax: strings.Join(syntax, ", "), Description: desc})
	}
	return out
}

// getVersion returns the version string from git tags, stripping the leading
// "v" prefix. Falls back to "dev" if git describe fails.
func getVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--abbrev=0").Output()
	if err != nil {
		return "dev"
	}

	version := strings.TrimSpace(string(out))
	return strings.TrimPrefix(version, "v")
}
