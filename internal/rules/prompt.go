package rules

import (
	"errors"
	"strings"

	"github.com/ai-rules/ai-rules-generator/internal/template"
	"github.com/ai-rules/ai-rules-generator/pkg/models"
)

// SystemPrompt is sent with every model request.
const SystemPrompt = "You are an expert at creating AI coding agent rules. " +
	"You create specific, example-driven rules that follow best practices for Cursor and Claude Code."

// referenceMaxLines caps each reference fragment embedded in a prompt.
const referenceMaxLines = 100

const truncationMarker = "[... truncated ...]"

type promptPackage struct {
	Path  string
	Stack string
}

type promptReference struct {
	Name    string
	Content string
}

type promptData struct {
	Guidelines string
	Context    string
	Packages   []promptPackage
	References []promptReference
	RuleType   string
}

// buildPrompt renders the model prompt for one composition pass.
func (c *Composer) buildPrompt(spec unitSpec, projectContext string) (string, error) {
	guidelines, err := c.library.Guidelines()
	if err != nil {
		return "", err
	}

	data := promptData{
		Guidelines: guidelines,
		Context:    projectContext,
		RuleType:   spec.ruleType.label(),
	}
	for i := range spec.packages {
		pkg := &spec.packages[i]
		data.Packages = append(data.Packages, promptPackage{Path: pkg.RelPath, Stack: c.stack(pkg)})
	}

	data.References, err = c.references(spec)
	if err != nil {
		return "", err
	}

	out, err := c.renderer.Render(template.PromptTemplate, data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// references collects the fragments matching the profile, each truncated.
func (c *Composer) references(spec unitSpec) ([]promptReference, error) {
	p := spec.profile
	var out []promptReference

	add := func(name string, frag template.Fragment, err error) error {
		if errors.Is(err, template.ErrTemplateNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		out = append(out, promptReference{Name: name, Content: truncateLines(frag.Body, referenceMaxLines)})
		return nil
	}

	for _, tag := range p.Languages {
		frag, err := c.library.Language(tag)
		if err := add("languages/"+string(tag), frag, err); err != nil {
			return nil, err
		}
	}
	for _, tag := range p.Frameworks {
		frag, err := c.library.Framework(tag)
		if err := add("frameworks/"+string(tag), frag, err); err != nil {
			return nil, err
		}
	}
	if spec.ruleType == RuleTypeMonorepoRoot {
		for _, name := range monorepoUniversal {
			if p.HasFramework(models.FrameworkTag(name)) {
				continue
			}
			frag, err := c.library.Universal(name)
			if err := add("universal/"+name, frag, err); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// truncateLines keeps the first limit lines of s and appends a marker when
// anything was cut.
func truncateLines(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n") + "\n" + truncationMarker
}
