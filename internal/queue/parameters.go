package queue

import "strings"

// Parameter is a single name/value pair attached to a job.
type Parameter struct {
	Name  string
	Value string
}

// Parameters is an ordered list of job parameters. Names compare
// case-insensitively.
type Parameters []Parameter

// Get returns the value of the named parameter.
func (p Parameters) Get(name string) (string, bool) {
	for _, param := range p {
		if strings.EqualFold(param.Name, name) {
			return param.Value, true
		}
	}
	return "", false
}

// Set replaces the value of an existing parameter or appends a new one.
func (p *Parameters) Set(name, value string) {
	for i := range *p {
		if strings.EqualFold((*p)[i].Name, name) {
			(*p)[i].Value = value
			return
		}
	}
	*p = append(*p, Parameter{Name: name, Value: value})
}

// Map returns the parameters as a map keyed by name.
func (p Parameters) Map() map[string]string {
	out := make(map[string]string, len(p))
	for _, param := range p {
		out[param.Name] = param.Value
	}
	return out
}

// ScriptStatus is the recorded result of one post-processing script.
type ScriptStatus struct {
	Name   string
	Status ScriptResult
}
