// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/apex/log"
)

// filterRegex splits a filter expression into key, optional operator (with
// optional negation) and target. "backed_up" is key only, "module^s" is
// key + operator + target and "title=" is key + operator with no target.
var filterRegex = regexp.MustCompile(`^([^!=^~<>@/]*)(!?[=^~<>@/])?(.*)$`)

// Filter is a single parsed --filter expression.
type Filter struct {
	Key     string `yaml:"key" json:"Key"`
	Negate  bool   `yaml:"negate" json:"Negate"`
	Operand string `yaml:"operand" json:"Operand"`
	Value   string `yaml:"value" json:"Value"`
}

// BuildFilters parses a comma-separated filter expression into a slice of Filter.
// Malformed entries are logged and skipped.
func BuildFilters(spec string) []Filter {
	//nolint:prealloc
	var filters []Filter

	if spec == "" {
		return filters
	}

	// Allow a different delimiter for values that contain commas.
	delim := ","
	if d, ok := os.LookupEnv("MACPREFS_FILTER_DELIM"); ok && d != "" {
		delim = d
	}

	for _, filterSpec := range strings.Split(spec, delim) {
		filterSpec = strings.TrimSpace(filterSpec)
		if filterSpec == "" {
			continue
		}

		parts := filterRegex.FindStringSubmatch(filterSpec)
		if parts == nil {
			log.Error("invalid filter: " + filterSpec)
			continue
		}

		key := strings.TrimSpace(parts[1])
		operand := parts[2]
		target := parts[3]

		if key == "" {
			log.Error("invalid filter: empty key in " + filterSpec)
			continue
		}
		if operand == "" && target != "" {
			log.Error("invalid filter: unsupported operand in " + filterSpec)
			continue
		}

		negate := strings.HasPrefix(operand, "!")
		operand = strings.TrimPrefix(operand, "!")

		filters = append(filters, Filter{
			Key:     key,
			Negate:  negate,
			Operand: operand,
			Value:   target,
		})
	}

	return filters
}

// Apply returns the rows that match every filter, in their original order.
func Apply(rows []map[string]interface{}, filters []Filter) []map[string]interface{} {
	if len(filters) == 0 {
		return rows
	}

	known := knownKeys(rows, filters)

	out := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		if applyFilters(row, filters, known) {
			out = append(out, row)
		}
	}
	return out
}

// knownKeys reports which filter keys appear in at least one row. Filters on
// other keys are reported once and then ignored.
func knownKeys(rows []map[string]interface{}, filters []Filter) map[string]bool {
	known := map[string]bool{}
	for _, f := range filters {
		for _, r := range rows {
			if _, ok := r[f.Key]; ok {
				known[f.Key] = true
				break
			}
		}
		if !known[f.Key] && len(rows) > 0 {
			msg := fmt.Sprintf("filter key not found: %s", f.Key)
			log.Warn(msg)
		}
	}
	return known
}

// applyFilters reports whether row passes every filter.
func applyFilters(row map[string]interface{}, filters []Filter, known map[string]bool) bool {
	for _, filter := range filters {
		if !known[filter.Key] {
			continue
		}

		value, ok := row[filter.Key]
		if !ok || value == nil {
			return false
		}

		var result bool
		switch v := value.(type) {
		case string:
			result = checkStringOperand(v, filter)
		case bool:
			result = checkStringOperand(strconv.FormatBool(v), filter)
		case []string, []interface{}:
			result = checkContainsOperand(v, filter)
		default:
			if num, ok := toFloat64(v); ok {
				result = checkNumericOperand(num, filter)
			} else {
				result = checkStringOperand(fmt.Sprintf("%v", v), filter)
			}
		}

		if !result {
			return false
		}
	}

	return true
}

// checkContainsOperand evaluates a membership filter (operand '@') against a
// list value. A key-only filter keeps non-empty lists.
func checkContainsOperand(value interface{}, filter Filter) bool {
	var items []string
	switch val := value.(type) {
	case []string:
		items = val
	case []interface{}:
		for _, it := range val {
			items = append(items, fmt.Sprintf("%v", it))
		}
	default:
		log.Error(fmt.Sprintf("unsupported type for contains filtering: %T", value))
		return false
	}

	switch filter.Operand {
	case "":
		return (len(items) > 0) == !filter.Negate
	case "@":
		for _, it := range items {
			if it == filter.Value {
				return !filter.Negate
			}
		}
		return filter.Negate
	default:
		return checkStringOperand(strings.Join(items, ","), filter)
	}
}

// checkNumericOperand compares a numeric value against the filter value.
// Supported operands: =, >, < and key-only (non-zero).
func checkNumericOperand(value float64, filter Filter) bool {
	if filter.Operand == "" {
		return (value != 0) == !filter.Negate
	}

	tgt, err := strconv.ParseFloat(strings.TrimSpace(filter.Value), 64)
	if err != nil {
		// Not a number; compare as text.
		return checkStringOperand(strconv.FormatFloat(value, 'f', -1, 64), filter)
	}

	switch filter.Operand {
	case "=":
		return (value == tgt) == !filter.Negate
	case ">":
		return (value > tgt) == !filter.Negate
	case "<":
		return (value < tgt) == !filter.Negate
	default:
		return checkStringOperand(strconv.FormatFloat(value, 'f', -1, 64), filter)
	}
}

// checkStringOperand evaluates a string comparison filter against value.
func checkStringOperand(value string, filter Filter) bool {
	switch filter.Operand {
	case "":
		set := value != "" && value != "false" && value != "0"
		return set == !filter.Negate
	case "=":
		return value == filter.Value == !filter.Negate
	case "~":
		return strings.EqualFold(value, filter.Value) == !filter.Negate
	case "^":
		return strings.HasPrefix(value, filter.Value) == !filter.Negate
	case ">":
		return value > filter.Value == !filter.Negate
	case "<":
		return value < filter.Value == !filter.Negate
	case "@":
		return strings.Contains(value, filter.Value) == !filter.Negate
	case "/":
		matched, err := regexp.MatchString(filter.Value, value)
		if err != nil {
			log.Error("invalid regex: " + filter.Value)
			return false
		}
		return matched == !filter.Negate
	default:
		log.Error("unsupported filtering operand: " + filter.Operand)
		return false
	}
}

// toFloat64 normalizes the numeric types rows carry to float64.
func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
