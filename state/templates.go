package state

// Key prefixes separate state tiers. user: survives across sessions,
// app: holds application defaults, temp: is scoped to one session.
const (
	PrefixUser = "user:"
	PrefixApp  = "app:"
	PrefixTemp = "temp:"
)

// stateTemplates seed a new session with tier-prefixed defaults for a
// known workflow.
var stateTemplates = map[string]map[string]interface{}{
	"project_development": {
		"user:preferred_framework":      nil,
		"user:preferred_language":       nil,
		"user:preferred_database":       nil,
		"user:project_history":          []interface{}{},
		"app:default_project_structure": map[string]interface{}{},
		"app:supported_frameworks":      []interface{}{"React", "Vue", "Angular", "Next.js"},
		"app:supported_languages":       []interface{}{"JavaScript", "TypeScript", "Python", "Node.js"},
		"app:supported_databases":       []interface{}{"PostgreSQL", "MongoDB", "MySQL", "Redis"},
		"temp:current_phase":            nil,
		"temp:completed_steps":          []interface{}{},
		"temp:current_file":             nil,
		"temp:build_status":             nil,
	},
	"code_review": {
		"user:code_standards":     []interface{}{},
		"user:review_preferences": map[string]interface{}{},
		"app:review_criteria":     []interface{}{"correctness", "readability", "security", "performance"},
		"temp:review_session":     nil,
		"temp:reviewed_files":     []interface{}{},
		"temp:issues_found":       []interface{}{},
	},
	"deployment": {
		"user:deployment_preferences": map[string]interface{}{},
		"app:deployment_targets":      []interface{}{"local", "staging", "production"},
		"app:deployment_strategies":   []interface{}{"docker", "manual", "ci_cd"},
		"temp:deployment_config":      map[string]interface{}{},
		"temp:deployment_status":      nil,
		"temp:deployment_logs":        []interface{}{},
		"current_deployment_target":   nil,
		"deployment_progress":         0,
	},
}

// TemplateNames lists the available session templates
func TemplateNames() []string {
	return []string{"project_development", "code_review", "deployment"}
}

// TemplateState returns a copy of the named template, or nil when unknown
func TemplateState(name string) map[string]interface{} {
	template, ok := stateTemplates[name]
	if !ok {
		return nil
	}
	out := make(map[string]interface{}, len(template))
	for k, v := range template {
		out[k] = v
	}
	return out
}
