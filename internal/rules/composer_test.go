package rules

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/ai-rules/ai-rules-generator/internal/provider"
	"github.com/ai-rules/ai-rules-generator/internal/template"
	"github.com/ai-rules/ai-rules-generator/pkg/models"
)

type fakeProvider struct {
	out   string
	err   error
	block bool

	calls    int
	requests []provider.Request
}

func (f *fakeProvider) Name() models.Provider { return models.ProviderOpenAI }

func (f *fakeProvider) Model() string { return "gpt-4o-mini" }

func (f *fakeProvider) Complete(ctx context.Context, req provider.Request) (string, error) {
	f.calls++
	f.requests = append(f.requests, req)
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.out, f.err
}

func fakeFactory(p *fakeProvider) ProviderFactory {
	return func(*models.GlobalConfig) (provider.Provider, error) { return p, nil }
}

func aiConfig() *models.GlobalConfig {
	return &models.GlobalConfig{
		AIProvider:   models.ProviderOpenAI,
		AIModel:      "gpt-4o-mini",
		OpenAIAPIKey: "sk-test",
		EnabledTools: []models.ToolID{models.ToolCursor},
	}
}

func templateConfig() *models.GlobalConfig {
	return &models.GlobalConfig{AIProvider: models.ProviderNone}
}

func fileNames(u Unit) []string {
	var names []string
	for _, d := range u.Documents {
		names = append(names, d.FileName)
	}
	return names
}

func document(t *testing.T, u Unit, name string) models.RuleDocument {
	t.Helper()
	for _, d := range u.Documents {
		if d.FileName == name {
			return d
		}
	}
	t.Fatalf("unit %q has no document %s (have %v)", u.RelPath, name, fileNames(u))
	return models.RuleDocument{}
}

func monorepoProfile() *models.ProjectProfile {
	api := models.ProjectProfile{Name: "api", RelPath: "packages/api"}
	api.AddLanguage(models.LangPython)
	api.AddFramework(models.FrameworkFastAPI)

	web := models.ProjectProfile{Name: "web", RelPath: "packages/web"}
	web.AddLanguage(models.LangTypeScript)
	web.AddFramework(models.FrameworkReact)

	root := &models.ProjectProfile{
		Name:        "shop",
		IsMonorepo:  true,
		SubPackages: []models.ProjectProfile{api, web},
	}
	root.SetLanguages([]models.LanguageTag{models.LangPython, models.LangTypeScript})
	root.SetFrameworks([]models.FrameworkTag{models.FrameworkFastAPI, models.FrameworkReact})
	return root
}

func TestCompose_NilProfile(t *testing.T) {
	t.Parallel()

	_, err := NewComposer().Compose(context.Background(), nil, templateConfig(), Options{})
	if !errors.Is(err, ErrNilProfile) {
		t.Errorf("expected ErrNilProfile, got %v", err)
	}
}

func TestCompose_EmptyProfileUsesUniversalRules(t *testing.T) {
	t.Parallel()

	plan, err := NewComposer().Compose(context.Background(), &models.ProjectProfile{Name: "blank"}, templateConfig(), Options{})
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}
	if len(plan.Units) != 1 {
		t.Fatalf("expected 1 unit, got %d", len(plan.Units))
	}

	root := plan.Root()
	want := []string{
		"project-rules.md",
		"universal-codequality.md",
		"universal-clean-code.md",
		"universal-database.md",
		"universal-gitflow.md",
	}
	if got := fileNames(*root); !slices.Equal(got, want) {
		t.Errorf("documents = %v, want %v", got, want)
	}
	if root.Dir != ".ai-rules" {
		t.Errorf("Dir = %q, want .ai-rules", root.Dir)
	}
	if root.RuleType != RuleTypeSingleProject || root.Mode != ModeTemplate {
		t.Errorf("RuleType=%s Mode=%s", root.RuleType, root.Mode)
	}
	if !strings.Contains(root.Index.BodyMarkdown, "`universal-gitflow.md`") {
		t.Errorf("index should list universal rules:\n%s", root.Index.BodyMarkdown)
	}
	if !strings.Contains(document(t, *root, "project-rules.md").BodyMarkdown, "Primary Language: Not detected") {
		t.Error("project rules should report no detected language")
	}
	if len(plan.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", plan.Warnings)
	}
}

func TestCompose_LanguageAndFrameworkDocuments(t *testing.T) {
	t.Parallel()

	profile := &models.ProjectProfile{Name: "svc"}
	profile.SetLanguages([]models.LanguageTag{models.LangTypeScript, models.LangPython})
	profile.SetFrameworks([]models.FrameworkTag{models.FrameworkReact, models.FrameworkFastAPI})

	plan, err := NewComposer().Compose(context.Background(), profile, templateConfig(), Options{Description: "Order service"})
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}
	root := plan.Root()

	for _, name := range []string{"language-python.md", "language-typescript.md", "framework-fastapi.md", "framework-react.md"} {
		document(t, *root, name)
	}

	py := document(t, *root, "language-python.md")
	if py.Category != models.CategoryLanguage {
		t.Errorf("Category = %s, want language", py.Category)
	}
	if !strings.HasPrefix(py.BodyMarkdown, "# Python Best Practices\n") {
		t.Errorf("unexpected heading:\n%s", py.BodyMarkdown)
	}
	if strings.Contains(py.BodyMarkdown, "description:") {
		t.Error("fragment frontmatter should be stripped")
	}
	if !strings.Contains(py.BodyMarkdown, "- Test: `pytest`") {
		t.Errorf("language document should list commands:\n%s", py.BodyMarkdown)
	}

	rules := document(t, *root, "project-rules.md").BodyMarkdown
	for _, want := range []string{
		"# AI Coding Agent Rules",
		"Order service",
		"- Primary Language: Python",
		"- Frameworks: FastAPI, React",
		"`.ai-rules/framework-react.md`",
		"## Critical Instructions",
	} {
		if !strings.Contains(rules, want) {
			t.Errorf("project rules missing %q", want)
		}
	}
	if strings.Contains(rules, "## Monorepo Structure") {
		t.Error("single project should not carry monorepo guidance")
	}
}

func TestCompose_UniversalRuleSkippedForMatchingFramework(t *testing.T) {
	t.Parallel()

	profile := &models.ProjectProfile{Name: "x", Frameworks: []models.FrameworkTag{"gitflow"}}
	plan, err := NewComposer().Compose(context.Background(), profile, templateConfig(), Options{})
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}
	if slices.Contains(fileNames(*plan.Root()), "universal-gitflow.md") {
		t.Error("universal gitflow rule should be skipped")
	}
}

func TestCompose_UnknownTagsAreSkipped(t *testing.T) {
	t.Parallel()

	lib := template.EmbeddedTemplates()
	c := NewComposer(WithTemplates(lib))
	profile := &models.ProjectProfile{Name: "x", Languages: []models.LanguageTag{"cobol"}}
	plan, err := c.Compose(context.Background(), profile, templateConfig(), Options{})
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}
	for _, name := range fileNames(*plan.Root()) {
		if strings.HasPrefix(name, "language-") {
			t.Errorf("unexpected language document %s", name)
		}
	}
}

func TestCompose_AISuccess(t *testing.T) {
	t.Parallel()

	fake := &fakeProvider{out: "```markdown\n# Custom Rules\n\n- Always test.\n```"}
	profile := &models.ProjectProfile{Name: "svc"}
	profile.AddLanguage(models.LangGo)
	profile.AddFramework(models.FrameworkGin)

	plan, err := NewComposer(WithProviderFactory(fakeFactory(fake))).Compose(context.Background(), profile, aiConfig(), Options{})
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}
	root := plan.Root()
	if root.Mode != ModeAI {
		t.Errorf("Mode = %s, want ai", root.Mode)
	}
	if got := document(t, *root, "project-rules.md").BodyMarkdown; got != "# Custom Rules\n\n- Always test.\n" {
		t.Errorf("project rules = %q", got)
	}
	if plan.Provider != models.ProviderOpenAI || plan.Model != "gpt-4o-mini" {
		t.Errorf("Provider=%s Model=%s", plan.Provider, plan.Model)
	}

	// Only the project rules document is model generated.
	if !strings.HasPrefix(document(t, *root, "language-go.md").BodyMarkdown, "# Go Best Practices") {
		t.Error("language document should stay template based")
	}

	if fake.calls != 1 {
		t.Fatalf("expected 1 call, got %d", fake.calls)
	}
	req := fake.requests[0]
	if req.System != SystemPrompt {
		t.Errorf("System = %q", req.System)
	}
	if req.Temperature != 0.3 || req.MaxTokens != 4000 {
		t.Errorf("Temperature=%v MaxTokens=%d", req.Temperature, req.MaxTokens)
	}
	for _, want := range []string{
		"### Reference: languages/go",
		"### Reference: frameworks/gin",
		"Generate a custom rules document for this single project",
		"- Primary Language: Go",
	} {
		if !strings.Contains(req.Prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestCompose_AIFailureFallsBackToTemplates(t *testing.T) {
	t.Parallel()

	profile := &models.ProjectProfile{Name: "svc"}
	profile.AddLanguage(models.LangRust)

	baseline, err := NewComposer().Compose(context.Background(), profile, templateConfig(), Options{})
	if err != nil {
		t.Fatalf("baseline Compose() error: %v", err)
	}

	tests := []struct {
		name string
		fake *fakeProvider
		opts Options
		want provider.FailureKind
	}{
		{"timeout", &fakeProvider{block: true}, Options{Timeout: 20 * time.Millisecond}, provider.FailureTimeout},
		{"empty response", &fakeProvider{out: " \n\t"}, Options{}, provider.FailureMalformed},
		{"provider error", &fakeProvider{err: errors.New("connection reset")}, Options{}, provider.FailureUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			plan, err := NewComposer(WithProviderFactory(fakeFactory(tt.fake))).Compose(context.Background(), profile, aiConfig(), tt.opts)
			if err != nil {
				t.Fatalf("Compose() error: %v", err)
			}
			if len(plan.Warnings) != 1 {
				t.Fatalf("expected 1 warning, got %v", plan.Warnings)
			}
			if plan.Warnings[0].Kind != tt.want {
				t.Errorf("Kind = %s, want %s", plan.Warnings[0].Kind, tt.want)
			}

			root := plan.Root()
			if root.Mode != ModeTemplate {
				t.Errorf("Mode = %s, want template", root.Mode)
			}
			if root.Index.BodyMarkdown == "" {
				t.Error("index should not be empty")
			}
			document(t, *root, "language-rust.md")

			got := document(t, *root, "project-rules.md").BodyMarkdown
			want := document(t, *baseline.Root(), "project-rules.md").BodyMarkdown
			if got != want {
				t.Error("fallback project rules should match template mode output")
			}
		})
	}
}

func TestCompose_MissingAPIKeyWarns(t *testing.T) {
	t.Parallel()

	cfg := &models.GlobalConfig{AIProvider: models.ProviderAnthropic, AIModel: "claude-3-5-haiku-20241022"}
	plan, err := NewComposer().Compose(context.Background(), &models.ProjectProfile{Name: "x"}, cfg, Options{})
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}
	if len(plan.Warnings) != 1 || plan.Warnings[0].Kind != provider.FailureAuth {
		t.Errorf("expected one auth warning, got %v", plan.Warnings)
	}
	if plan.Provider != "" {
		t.Errorf("Provider = %q, want empty", plan.Provider)
	}
}

func TestCompose_NoAISkipsProvider(t *testing.T) {
	t.Parallel()

	fake := &fakeProvider{out: "# AI"}
	plan, err := NewComposer(WithProviderFactory(fakeFactory(fake))).
		Compose(context.Background(), &models.ProjectProfile{Name: "x"}, aiConfig(), Options{NoAI: true})
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}
	if fake.calls != 0 {
		t.Errorf("provider called %d times", fake.calls)
	}
	if len(plan.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", plan.Warnings)
	}
}

func TestCompose_Monorepo(t *testing.T) {
	t.Parallel()

	plan, err := NewComposer().Compose(context.Background(), monorepoProfile(), templateConfig(), Options{Description: "Shop"})
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}
	if len(plan.Units) != 3 {
		t.Fatalf("expected 3 units, got %d", len(plan.Units))
	}

	root := plan.Units[0]
	if root.RuleType != RuleTypeMonorepoRoot {
		t.Errorf("root RuleType = %s", root.RuleType)
	}
	document(t, root, "universal-security.md")
	rootRules := document(t, root, "project-rules.md").BodyMarkdown
	for _, want := range []string{
		"## Monorepo Structure",
		"| api | `packages/api/` | Python (FastAPI) | `packages/api/.ai-rules/project-rules.md` |",
		"| web | `packages/web/` | TypeScript (React) | `packages/web/.ai-rules/project-rules.md` |",
	} {
		if !strings.Contains(rootRules, want) {
			t.Errorf("root rules missing %q", want)
		}
	}

	api, web := plan.Units[1], plan.Units[2]
	if api.Dir != "packages/api/.ai-rules" || web.Dir != "packages/web/.ai-rules" {
		t.Errorf("package dirs = %q, %q", api.Dir, web.Dir)
	}
	if api.RuleType != RuleTypePackage {
		t.Errorf("package RuleType = %s", api.RuleType)
	}

	// No cross-contamination between packages.
	apiDocs, webDocs := fileNames(api), fileNames(web)
	if !slices.Equal(apiDocs, []string{"project-rules.md", "language-python.md", "framework-fastapi.md"}) {
		t.Errorf("api documents = %v", apiDocs)
	}
	if !slices.Equal(webDocs, []string{"project-rules.md", "language-typescript.md", "framework-react.md"}) {
		t.Errorf("web documents = %v", webDocs)
	}
	apiRules := document(t, api, "project-rules.md").BodyMarkdown
	if strings.Contains(apiRules, "TypeScript") || strings.Contains(apiRules, "React") {
		t.Error("api rules mention the web package stack")
	}
	if !strings.Contains(apiRules, "`../../.ai-rules/project-rules.md`") {
		t.Errorf("package rules should point at the root rules:\n%s", apiRules)
	}
	if !strings.Contains(api.Index.BodyMarkdown, "`../../.ai-rules/README.md`") {
		t.Error("package index should point at the root index")
	}

	files := plan.Files()
	var paths []string
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	for _, want := range []string{
		".ai-rules/README.md",
		"packages/api/.ai-rules/language-python.md",
		"packages/web/.ai-rules/README.md",
	} {
		if !slices.Contains(paths, want) {
			t.Errorf("Files() missing %s", want)
		}
	}
	if slices.Contains(paths, "packages/api/.ai-rules/language-typescript.md") {
		t.Error("typescript rules leaked into the api package")
	}
}

func TestCompose_MonorepoPromptListsPackages(t *testing.T) {
	t.Parallel()

	fake := &fakeProvider{out: "# Rules"}
	plan, err := NewComposer(WithProviderFactory(fakeFactory(fake))).
		Compose(context.Background(), monorepoProfile(), aiConfig(), Options{})
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}
	if fake.calls != 3 {
		t.Fatalf("expected one call per unit, got %d", fake.calls)
	}
	rootPrompt := fake.requests[0].Prompt
	for _, want := range []string{"- packages/api: Python (FastAPI)", "### Reference: universal/security", "monorepo root"} {
		if !strings.Contains(rootPrompt, want) {
			t.Errorf("root prompt missing %q", want)
		}
	}
	if strings.Contains(fake.requests[1].Prompt, "languages/typescript") {
		t.Error("api package prompt references typescript")
	}
	for _, u := range plan.Units {
		if u.Mode != ModeAI {
			t.Errorf("unit %q Mode = %s", u.RelPath, u.Mode)
		}
	}
}

func TestCompose_Progress(t *testing.T) {
	t.Parallel()

	var events []ProgressEvent
	_, err := NewComposer().Compose(context.Background(), monorepoProfile(), templateConfig(), Options{
		Progress: func(ev ProgressEvent) { events = append(events, ev) },
	})
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}
	if len(events) != 6 {
		t.Fatalf("expected start/done per unit, got %d events", len(events))
	}
	last := events[len(events)-1]
	if last.Stage != StageDone || last.Index != 2 || last.Total != 3 || last.Unit != "packages/web" {
		t.Errorf("last event = %+v", last)
	}
}

func TestGenerate_WritesIdenticalOutputTwice(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	profile := monorepoProfile()
	c := NewComposer()
	w := template.NewWriter(root, nil)

	read := func() map[string][]byte {
		out := make(map[string][]byte)
		err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			data, err := os.ReadFile(p)
			if err != nil {
				return err
			}
			rel, _ := filepath.Rel(root, p)
			out[filepath.ToSlash(rel)] = data
			return nil
		})
		if err != nil {
			t.Fatalf("walk error: %v", err)
		}
		return out
	}

	opts := Options{Description: "Shop", Tools: []ToolUsage{{Name: "Cursor", Paths: []string{".cursorrules"}}}}
	plan, written, err := c.Generate(context.Background(), w, profile, templateConfig(), opts)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if len(written) != len(plan.Files()) {
		t.Errorf("wrote %d files, plan has %d", len(written), len(plan.Files()))
	}
	first := read()

	if _, _, err := c.Generate(context.Background(), w, profile, templateConfig(), opts); err != nil {
		t.Fatalf("second Generate() error: %v", err)
	}
	second := read()

	if len(first) != len(second) {
		t.Fatalf("file count changed: %d -> %d", len(first), len(second))
	}
	for p, data := range first {
		if !bytes.Equal(data, second[p]) {
			t.Errorf("%s changed between runs", p)
		}
	}
	if !strings.Contains(string(first[".ai-rules/README.md"]), "- Cursor: via `.cursorrules`") {
		t.Error("index should list tool usage")
	}
}

func TestTruncateLines(t *testing.T) {
	t.Parallel()

	short := "a\nb\nc"
	if got := truncateLines(short, 3); got != short {
		t.Errorf("truncateLines(short) = %q", got)
	}

	long := strings.Repeat("line\n", 150)
	got := truncateLines(long, 100)
	if !strings.HasSuffix(got, "\n[... truncated ...]") {
		t.Errorf("missing truncation marker: %q", got[len(got)-30:])
	}
	if n := strings.Count(got, "line"); n != 100 {
		t.Errorf("kept %d lines, want 100", n)
	}
}

func TestNormalizeMarkdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"# Rules\n\n- a", "# Rules\n\n- a\n"},
		{"```markdown\n# Rules\n```", "# Rules\n"},
		{"```\n# Rules\n```\n", "# Rules\n"},
		{"\r\n# Rules\r\n", "# Rules\n"},
		{"   ", ""},
		{"```md\n```", ""},
	}
	for _, tt := range tests {
		if got := normalizeMarkdown(tt.in); got != tt.want {
			t.Errorf("normalizeMarkdown(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRootRelative(t *testing.T) {
	t.Parallel()

	if got := rootRelative("packages/api", "project-rules.md"); got != "../../.ai-rules/project-rules.md" {
		t.Errorf("rootRelative = %q", got)
	}
	if got := rootRelative("api", "README.md"); got != "../.ai-rules/README.md" {
		t.Errorf("rootRelative = %q", got)
	}
}
