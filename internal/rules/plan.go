package rules

import (
	"fmt"
	"path"
	"time"

	"github.com/ai-rules/ai-rules-generator/internal/provider"
	"github.com/ai-rules/ai-rules-generator/internal/template"
	"github.com/ai-rules/ai-rules-generator/pkg/models"
)

// DefaultTimeout bounds a single model call.
const DefaultTimeout = 60 * time.Second

// RuleType describes which part of a repository a composition pass covers.
type RuleType string

const (
	RuleTypeSingleProject RuleType = "single_project"
	RuleTypeMonorepoRoot  RuleType = "monorepo_root"
	RuleTypePackage       RuleType = "package"
)

func (t RuleType) label() string {
	switch t {
	case RuleTypeMonorepoRoot:
		return "monorepo root"
	case RuleTypePackage:
		return "package within a monorepo"
	default:
		return "single project"
	}
}

// Mode records how a unit's project rules document was produced.
type Mode string

const (
	ModeTemplate Mode = "template"
	ModeAI       Mode = "ai"
)

// ToolUsage names an AI tool and the entrypoints that load the shared rules.
// It only feeds the Usage section of the index.
type ToolUsage struct {
	Name  string
	Paths []string
}

// Stage marks a step of a composition pass.
type Stage string

const (
	StageStart Stage = "start"
	StageAI    Stage = "ai"
	StageDone  Stage = "done"
)

// ProgressEvent is reported to Options.Progress as composition advances.
type ProgressEvent struct {
	Unit  string
	Index int
	Total int
	Stage Stage
}

// Options tune a composition run.
type Options struct {
	// Description is the one-line project description. Defaults to a phrase
	// built from the profile name.
	Description string

	// NoAI forces template mode regardless of the configured provider.
	NoAI bool

	// Timeout bounds each model call. Zero means DefaultTimeout.
	Timeout time.Duration

	// Tools lists the enabled tools for the index Usage section.
	Tools []ToolUsage

	// Progress, when set, is called synchronously for every stage.
	Progress func(ProgressEvent)
}

func (o Options) withDefaults(profile *models.ProjectProfile) Options {
	if o.Description == "" {
		if profile.Name != "" {
			o.Description = "the " + profile.Name + " project"
		} else {
			o.Description = "this project"
		}
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// Unit is the output of one composition pass: the repository root or a
// monorepo package.
type Unit struct {
	// Name is the profile name; RelPath is empty for the repository root.
	Name    string
	RelPath string

	// Dir is the shared rules directory relative to the repository root.
	Dir string

	RuleType  RuleType
	Mode      Mode
	Profile   *models.ProjectProfile
	Documents []models.RuleDocument
	Index     models.RuleDocument

	// Description and Context are the rendered project summary, reused by
	// tool entrypoints.
	Description string
	Context     string
}

// DocumentPaths returns the repository-relative paths of the unit's rule
// documents, excluding the index.
func (u *Unit) DocumentPaths() []string {
	paths := make([]string, 0, len(u.Documents))
	for _, d := range u.Documents {
		paths = append(paths, path.Join(u.Dir, d.FileName))
	}
	return paths
}

// Warning reports a model failure that was recovered by falling back to
// templates.
type Warning struct {
	Unit string
	Kind provider.FailureKind
	Err  error
}

func (w Warning) String() string {
	scope := w.Unit
	if scope == "" {
		scope = "project"
	}
	return fmt.Sprintf("%s: AI generation failed (%s), used templates: %v", scope, w.Kind, w.Err)
}

// Plan is the complete set of documents for a run, root unit first.
type Plan struct {
	Units    []Unit
	Warnings []Warning

	// Provider and Model are empty when the run was template-only.
	Provider models.Provider
	Model    string
}

// Files flattens the plan into writes relative to the repository root.
// Each unit contributes its documents followed by its index.
func (p *Plan) Files() []template.File {
	var files []template.File
	for _, u := range p.Units {
		for _, d := range u.Documents {
			files = append(files, template.File{
				Path:    path.Join(u.Dir, d.FileName),
				Content: []byte(d.BodyMarkdown),
			})
		}
		files = append(files, template.File{
			Path:    path.Join(u.Dir, u.Index.FileName),
			Content: []byte(u.Index.BodyMarkdown),
		})
	}
	return files
}

// Root returns the repository-level unit.
func (p *Plan) Root() *Unit {
	if len(p.Units) == 0 {
		return nil
	}
	return &p.Units[0]
}

// Packages returns the units composed for monorepo packages.
func (p *Plan) Packages() []Unit {
	if len(p.Units) <= 1 {
		return nil
	}
	return p.Units[1:]
}
