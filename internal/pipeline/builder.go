package pipeline

// WorkflowBuilder provides a fluent API for constructing Workflow objects.
type WorkflowBuilder struct {
	wf     *Workflow
	jobIDs []string // insertion order, for the builder's own bookkeeping
}

// NewWorkflow creates a new WorkflowBuilder with the given name.
// Panics if name is empty.
func NewWorkflow(name string) *WorkflowBuilder {
	if name == "" {
		panic("pipeline: NewWorkflow() called with empty name")
	}
	return &WorkflowBuilder{
		wf: &Workflow{
			Name: name,
			Jobs: make(map[string]Job),
		},
	}
}

// OnPush adds the push trigger.
func (b *WorkflowBuilder) OnPush() *WorkflowBuilder {
	return b.On("push")
}

// On adds trigger events.
func (b *WorkflowBuilder) On(events ...string) *WorkflowBuilder {
	for _, event := range events {
		if !b.wf.On.Has(event) {
			b.wf.On.Events = append(b.wf.On.Events, event)
		}
	}
	return b
}

// OnBranches adds a trigger event filtered to the given branches.
func (b *WorkflowBuilder) OnBranches(event string, branches ...string) *WorkflowBuilder {
	b.On(event)
	if b.wf.On.Filters == nil {
		b.wf.On.Filters = make(map[string]EventFilter)
	}
	b.wf.On.Filters[event] = EventFilter{Branches: branches}
	return b
}

// Job starts a new job with the given ID and returns its builder.
// Panics if id is empty or already used.
func (b *WorkflowBuilder) Job(id string) *JobBuilder {
	if id == "" {
		panic("pipeline: Job() called with empty id")
	}
	if _, exists := b.wf.Jobs[id]; exists {
		panic("pipeline: Job() called with duplicate id " + id)
	}
	b.jobIDs = append(b.jobIDs, id)
	return &JobBuilder{parent: b, id: id}
}

// Build returns the assembled workflow.
func (b *WorkflowBuilder) Build() *Workflow {
	return b.wf
}

// JobBuilder accumulates one job's steps.
type JobBuilder struct {
	parent *WorkflowBuilder
	id     string
	job    Job
}

// Name sets the job's display name.
func (b *JobBuilder) Name(name string) *JobBuilder {
	b.job.Name = name
	return b
}

// RunsOn sets the runner label.
func (b *JobBuilder) RunsOn(label string) *JobBuilder {
	b.job.RunsOn = label
	return b
}

// Uses appends an action step.
func (b *JobBuilder) Uses(ref string) *JobBuilder {
	b.job.Steps = append(b.job.Steps, Step{Uses: ref})
	return b
}

// UsesWith appends an action step with inputs.
func (b *JobBuilder) UsesWith(ref string, with map[string]string) *JobBuilder {
	b.job.Steps = append(b.job.Steps, Step{Uses: ref, With: with})
	return b
}

// Run appends a named command step.
func (b *JobBuilder) Run(name, command string) *JobBuilder {
	b.job.Steps = append(b.job.Steps, Step{Name: name, Run: command})
	return b
}

// Done finishes the job and returns to the workflow builder.
func (b *JobBuilder) Done() *WorkflowBuilder {
	b.parent.wf.Jobs[b.id] = b.job
	return b.parent
}

// DefaultGate builds the standard gate workflow: on every push, build,
// vet, check formatting, and test the whole module, fail-fast.
func DefaultGate() *Workflow {
	return NewWorkflow("CI").
		OnPush().
		Job("build").
		RunsOn("ubuntu-latest").
		Uses("actions/checkout@v4").
		UsesWith("actions/setup-go@v5", map[string]string{"go-version": "stable"}).
		Run("Build", "go build -v ./...").
		Run("Lint", "go vet ./...").
		Run("Check formatting", `test -z "$(gofmt -l .)"`).
		Run("Test", "go test -v ./...").
		Done().
		Build()
}
