// Package pipeline models the CI workflow artifact: the YAML file that
// tells the hosted gate what to run on every push. The model round-trips
// through YAML, validates the §"one of run/uses" shape rules, and executes
// locally through the service layer.
package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Workflow is the root of a workflow file.
type Workflow struct {
	Name string         `yaml:"name,omitempty"`
	On   Triggers       `yaml:"on"`
	Jobs map[string]Job `yaml:"jobs"`
}

// Job is a named sequence of steps on a runner.
type Job struct {
	Name   string `yaml:"name,omitempty"`
	RunsOn string `yaml:"runs-on"`
	Steps  []Step `yaml:"steps"`
}

// Step is a single job step. Exactly one of Uses and Run is set.
type Step struct {
	Name string            `yaml:"name,omitempty"`
	Uses string            `yaml:"uses,omitempty"`
	With map[string]string `yaml:"with,omitempty"`
	Run  string            `yaml:"run,omitempty"`
}

// Label returns the step's display name: the explicit name when set,
// otherwise the action reference or the command itself.
func (s Step) Label() string {
	if s.Name != "" {
		return s.Name
	}
	if s.Uses != "" {
		return s.Uses
	}
	return s.Run
}

// Triggers is the "on:" clause. YAML allows three shapes for it:
//
//	on: push
//	on: [push, pull_request]
//	on: {push: {branches: [main]}}
//
// All three decode into the same model; filters are empty for the first
// two shapes.
type Triggers struct {
	Events  []string
	Filters map[string]EventFilter
}

// EventFilter narrows an event in the mapping trigger shape.
type EventFilter struct {
	Branches []string `yaml:"branches,omitempty"`
}

// Has reports whether the event is among the triggers.
func (t Triggers) Has(event string) bool {
	for _, e := range t.Events {
		if e == event {
			return true
		}
	}
	return false
}

// UnmarshalYAML accepts the scalar, sequence, and mapping trigger shapes.
func (t *Triggers) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var event string
		if err := node.Decode(&event); err != nil {
			return err
		}
		t.Events = []string{event}
		return nil

	case yaml.SequenceNode:
		return node.Decode(&t.Events)

	case yaml.MappingNode:
		filters := make(map[string]EventFilter)
		if err := node.Decode(&filters); err != nil {
			return err
		}
		events := make([]string, 0, len(filters))
		for event := range filters {
			events = append(events, event)
		}
		sort.Strings(events)
		t.Events = events
		t.Filters = filters
		return nil

	default:
		return fmt.Errorf("on: unsupported YAML node kind %d", node.Kind)
	}
}

// MarshalYAML emits the simplest shape that preserves the triggers:
// a scalar for one unfiltered event, a sequence for several, and a
// mapping when any filter is present.
func (t Triggers) MarshalYAML() (any, error) {
	if len(t.Filters) > 0 {
		return t.Filters, nil
	}
	if len(t.Events) == 1 {
		return t.Events[0], nil
	}
	return t.Events, nil
}

// Parse decodes a workflow from YAML. Unknown fields are rejected so a
// typo'd key fails loudly instead of silently dropping a step.
func Parse(data []byte) (*Workflow, error) {
	var wf Workflow
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&wf); err != nil {
		return nil, fmt.Errorf("parse workflow: %w", err)
	}
	return &wf, nil
}

// Load reads and parses a workflow file.
func Load(path string) (*Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load workflow: %w", err)
	}
	return Parse(data)
}

// Marshal encodes the workflow back to YAML.
func (w *Workflow) Marshal() ([]byte, error) {
	return yaml.Marshal(w)
}

// Save writes the workflow to a file, creating it with 0644.
func (w *Workflow) Save(path string) error {
	data, err := w.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Job returns the named job, or the sole job when jobID is empty and the
// workflow has exactly one.
func (w *Workflow) Job(jobID string) (string, *Job, error) {
	if jobID == "" {
		if len(w.Jobs) != 1 {
			return "", nil, fmt.Errorf("%w: workflow has %d jobs, job id required",
				ErrInvalidWorkflow, len(w.Jobs))
		}
		for id := range w.Jobs {
			jobID = id
		}
	}
	job, ok := w.Jobs[jobID]
	if !ok {
		return "", nil, fmt.Errorf("%w: no job %q", ErrInvalidWorkflow, jobID)
	}
	return jobID, &job, nil
}

// JobIDs returns the job identifiers in sorted order.
func (w *Workflow) JobIDs() []string {
	ids := make([]string, 0, len(w.Jobs))
	for id := range w.Jobs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
