package tui

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// RenderOutputs renders stack outputs as an aligned key/value table sorted
// by key. Structured values are shown as compact JSON.
func RenderOutputs(outputs map[string]any) string {
	if len(outputs) == 0 {
		return dimStyle.Render("no outputs") + "\n"
	}

	keys := make([]string, 0, len(outputs))
	width := 0
	for k := range outputs {
		keys = append(keys, k)
		if len(k) > width {
			width = len(k)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		pad := strings.Repeat(" ", width-len(k))
		fmt.Fprintf(&b, "%s%s  %s\n", keyStyle.Render(k), pad, FormatValue(outputs[k]))
	}
	return b.String()
}

// FormatValue renders an output value for a table cell.
func FormatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case map[string]any, []any:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	default:
		return fmt.Sprint(v)
	}
}

// PlanRow is one resource of a rendered plan.
type PlanRow struct {
	Type       string
	Name       string
	Side       string
	References []string
}

// RenderPlan renders the planned resource graph as a table.
func RenderPlan(title string, rows []PlanRow) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	nameWidth, typeWidth := len("NAME"), len("TYPE")
	for _, r := range rows {
		if len(r.Name) > nameWidth {
			nameWidth = len(r.Name)
		}
		if t := shortType(r.Type); len(t) > typeWidth {
			typeWidth = len(t)
		}
	}

	header := fmt.Sprintf("%-*s  %-*s  %-8s  %s", nameWidth, "NAME", typeWidth, "TYPE", "SIDE", "REFERENCES")
	b.WriteString(sectionStyle.UnsetMarginTop().Render(header))
	b.WriteString("\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%-*s  %-*s  %-8s  %s\n",
			nameWidth, r.Name, typeWidth, shortType(r.Type), r.Side, dimStyle.Render(strings.Join(r.References, ", ")))
	}
	fmt.Fprintf(&b, "\n%s\n", dimStyle.Render(fmt.Sprintf("%d resources", len(rows))))
	return b.String()
}
