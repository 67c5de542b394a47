package briefing

import (
	"fmt"
	"strings"
	"text/template"
)

const briefTemplate = `Sortie brief: {{.Name}}
Aircraft: {{.Aircraft}} ({{.Speeds}})
Route: {{.Base}} -> {{.End}}
Estimated flight time: {{.Time}}
Total distance: {{printf "%.1f" .DistanceNM}}nm
Generated: {{.Generated.Format "2006-01-02 15:04Z"}}

{{printf "%-7s %-11s %-10s %7s %-9s %-8s %s" "Code" "Lon" "Lat" "Alt(ft)" "Leg" "Elapsed" "Description"}}
{{- range .Waypoints}}
{{printf "%-7s %-11s %-10s %7.0f %-9s %-8s %s" .Code .Lon .Lat .AltFt .LegType .Elapsed .Desc | trimRight}}
{{- end}}
{{- if .Narrative}}

Narrative:
{{.Narrative}}
{{- end}}
`

var briefTmpl = template.Must(template.New("brief").Funcs(template.FuncMap{
	"trimRight": func(s string) string { return strings.TrimRight(s, " ") },
}).Parse(briefTemplate))

// Render formats the sortie brief as plain text
func Render(sc *SortieContext) (string, error) {
	var b strings.Builder
	if err := briefTmpl.Execute(&b, sc); err != nil {
		return "", fmt.Errorf("failed to render brief: %w", err)
	}
	return b.String(), nil
}
