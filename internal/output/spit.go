// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"gopkg.in/yaml.v2"

	"github.com/clintmod/macprefs/internal/config"
)

// Formats accepted by Emit.
const (
	Text = "text"
	JSON = "json"
	YAML = "yaml"
)

// Formats lists the valid --output values.
var Formats = []string{Text, JSON, YAML}

// Column is one rendered field of a row.
type Column struct {
	Key   string
	Title string
}

// Options control rendering.
type Options struct {
	Format  string
	Color   bool
	Titles  bool
	Padding int
	Sort    string
	Header  string
	Footer  string
}

// InterfaceToString converts supported primitive or composite values to a
// string. A custom empty value may be provided.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	if value == nil || reflect.ValueOf(value).IsZero() {
		return emptyValue[0]
	}

	switch value := value.(type) {
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	case time.Time:
		return value.Format(time.RFC3339)
	case []string:
		return strings.Join(value, ",")
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}

// Emit sorts rows by opts.Sort and writes them to w in opts.Format. JSON and
// YAML carry only the keys named by cols.
func Emit(w io.Writer, rows []map[string]interface{}, cols []Column, opts Options) error {
	if w == nil {
		w = os.Stdout
	}

	SortDataset(rows, opts.Sort)

	switch opts.Format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(project(rows, cols)); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
	case YAML:
		out, err := yaml.Marshal(project(rows, cols))
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		_, _ = w.Write(out)
	case Text, "":
		TableWriter(rows, cols, w, opts)
	default:
		return fmt.Errorf("unknown output format %q; valid formats are %s", opts.Format, strings.Join(Formats, ", "))
	}
	return nil
}

// project keeps only the keys in cols. An empty row set encodes as [] rather
// than null.
func project(rows []map[string]interface{}, cols []Column) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(rows))
	for _, r := range rows {
		p := make(map[string]interface{}, len(cols))
		for _, c := range cols {
			p[c.Key] = r[c.Key]
		}
		out = append(out, p)
	}
	return out
}

// TableWriter renders rows as a borderless table honoring color, titles and
// padding options. Output is written to w. If w is nil, os.Stdout is used.
func TableWriter(rows []map[string]interface{}, cols []Column, w io.Writer, opts Options) {
	if w == nil {
		w = os.Stdout
	}

	if len(rows) == 0 {
		return
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left).Bold(true)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if opts.Color {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(headerColor)
		evenRowStyle = evenRowStyle.Foreground(evenColor)
		oddRowStyle = oddRowStyle.Foreground(oddColor)
	}

	var cells [][]string
	for _, r := range rows {
		row := make([]string, 0, len(cols))
		for _, c := range cols {
			row = append(row, InterfaceToString(r[c.Key], "-"))
		}
		cells = append(cells, row)
	}

	if opts.Header != "" {
		fmt.Fprintln(w, headerStyle.Render(opts.Header))
	}

	pad := opts.Padding
	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Headers().
		Rows(cells...)

	if opts.Titles {
		headers := make([]string, 0, len(cols))
		for _, c := range cols {
			title := c.Title
			if title == "" {
				title = c.Key
			}
			headers = append(headers, title)
		}

		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(headers...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)

	if opts.Footer != "" {
		fmt.Fprintln(w, headerStyle.Render(opts.Footer))
	}
}

// getColors returns configured color values for table rendering. Without
// configured colors the defaults follow the terminal background so output
// stays readable on light and dark themes.
func getColors(key string) (header, even, odd color.Color) {
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

	resolveColor := func(key string, light string, dark string) color.Color {
		colorCfg, err := config.GetString(key)
		if err == nil {
			return lipgloss.Color(colorCfg)
		}

		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	header = resolveColor(key+".title", "#b08800", "#f6be00")
	even = resolveColor(key+".even", "#333333", "#ffffff")
	odd = resolveColor(key+".odd", "#0088a0", "#00c8f0")

	return
}
