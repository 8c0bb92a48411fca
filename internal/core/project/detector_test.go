package project

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/ai-rules/ai-rules-generator/pkg/models"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll(%s) error: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s) error: %v", rel, err)
	}
}

func mkDir(t *testing.T, root, rel string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(rel)), 0o755); err != nil {
		t.Fatalf("MkdirAll(%s) error: %v", rel, err)
	}
}

func newTestDetector() Detector {
	return NewDetector(nil, nil, nil)
}

func TestDetect_EmptyDirectory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	profile, err := newTestDetector().Detect(root, DetectOptions{})
	if err != nil {
		t.Fatalf("Detect() error: %v", err)
	}
	if !profile.IsEmpty() {
		t.Errorf("expected empty profile, got languages=%v frameworks=%v", profile.Languages, profile.Frameworks)
	}
	if profile.IsMonorepo {
		t.Error("empty directory should not be a monorepo")
	}
	if profile.Name != filepath.Base(root) {
		t.Errorf("Name = %q, want %q", profile.Name, filepath.Base(root))
	}
}

func TestDetect_InvalidRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	file := filepath.Join(root, "file.txt")
	writeFile(t, root, "file.txt", "x")

	for _, path := range []string{filepath.Join(root, "missing"), file} {
		_, err := newTestDetector().Detect(path, DetectOptions{})
		if !errors.Is(err, ErrInvalidRoot) {
			t.Errorf("Detect(%s) error = %v, want ErrInvalidRoot", path, err)
		}
	}
}

func TestDetectLanguages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		files map[string]string
		want  []models.LanguageTag
	}{
		{
			name:  "python_requirements",
			files: map[string]string{"requirements.txt": "requests\n"},
			want:  []models.LanguageTag{models.LangPython},
		},
		{
			name:  "python_poetry_lock",
			files: map[string]string{"poetry.lock": ""},
			want:  []models.LanguageTag{models.LangPython},
		},
		{
			name:  "javascript_package_json",
			files: map[string]string{"package.json": `{"dependencies":{"lodash":"^4"}}`},
			want:  []models.LanguageTag{models.LangJavaScript},
		},
		{
			name:  "typescript_dependency",
			files: map[string]string{"package.json": `{"devDependencies":{"typescript":"^5"}}`},
			want:  []models.LanguageTag{models.LangTypeScript},
		},
		{
			name: "typescript_tsconfig",
			files: map[string]string{
				"package.json":  `{}`,
				"tsconfig.json": `{}`,
			},
			want: []models.LanguageTag{models.LangTypeScript},
		},
		{
			name:  "invalid_package_json_is_javascript",
			files: map[string]string{"package.json": `{not json`},
			want:  []models.LanguageTag{models.LangJavaScript},
		},
		{
			name: "python_and_typescript",
			files: map[string]string{
				"pyproject.toml": "[project]\nname = \"x\"\n",
				"package.json":   `{"dependencies":{"typescript":"^5"}}`,
			},
			want: []models.LanguageTag{models.LangPython, models.LangTypeScript},
		},
		{
			name:  "rust",
			files: map[string]string{"Cargo.toml": "[package]\n"},
			want:  []models.LanguageTag{models.LangRust},
		},
		{
			name:  "go",
			files: map[string]string{"go.mod": "module example.com/x\n"},
			want:  []models.LanguageTag{models.LangGo},
		},
		{
			name:  "java_gradle_kts",
			files: map[string]string{"build.gradle.kts": ""},
			want:  []models.LanguageTag{models.LangJava},
		},
		{
			name:  "cpp_cmake",
			files: map[string]string{"CMakeLists.txt": "project(x)\n"},
			want:  []models.LanguageTag{models.LangCPP},
		},
		{
			name:  "bare_makefile_is_not_cpp",
			files: map[string]string{"Makefile": "all:\n"},
			want:  nil,
		},
		{
			name: "makefile_with_cpp_sources",
			files: map[string]string{
				"Makefile":     "all:\n",
				"src/main.cpp": "int main() {}\n",
			},
			want: []models.LanguageTag{models.LangCPP},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			root := t.TempDir()
			for rel, content := range tt.files {
				writeFile(t, root, rel, content)
			}
			got := newTestDetector().DetectLanguages(root)
			if !slices.Equal(got, tt.want) {
				t.Errorf("DetectLanguages() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetect_ExtensionFallback(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n")
	writeFile(t, root, "src/lib.rs", "fn main() {}\n")
	writeFile(t, root, "vendor/x.py", "print(1)\n")

	profile, err := newTestDetector().Detect(root, DetectOptions{})
	if err != nil {
		t.Fatalf("Detect() error: %v", err)
	}
	want := []models.LanguageTag{models.LangRust, models.LangGo}
	if !slices.Equal(profile.Languages, want) {
		t.Errorf("Languages = %v, want %v", profile.Languages, want)
	}
}

func TestDetect_ExtensionFallbackOnlyWithoutMarkers(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "go.mod", "module example.com/x\n")
	writeFile(t, root, "script.py", "print(1)\n")

	profile, err := newTestDetector().Detect(root, DetectOptions{})
	if err != nil {
		t.Fatalf("Detect() error: %v", err)
	}
	if !slices.Equal(profile.Languages, []models.LanguageTag{models.LangGo}) {
		t.Errorf("Languages = %v, want [go]", profile.Languages)
	}
}

func TestDetectFrameworks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		files map[string]string
		want  []models.FrameworkTag
	}{
		{
			name:  "fastapi_requirements",
			files: map[string]string{"requirements.txt": "FastAPI==0.110\nuvicorn\n"},
			want:  []models.FrameworkTag{models.FrameworkFastAPI},
		},
		{
			name:  "django_pyproject",
			files: map[string]string{"pyproject.toml": "dependencies = [\"Django>=5\"]\n"},
			want:  []models.FrameworkTag{models.FrameworkDjango},
		},
		{
			name: "nextjs_react_tailwind",
			files: map[string]string{"package.json": `{
				"dependencies": {"next": "14", "react": "18"},
				"devDependencies": {"tailwindcss": "3", "typescript": "5"}
			}`},
			want: []models.FrameworkTag{models.FrameworkNextJS, models.FrameworkReact, models.FrameworkTailwind},
		},
		{
			name:  "sveltekit",
			files: map[string]string{"package.json": `{"devDependencies":{"@sveltejs/kit":"2"}}`},
			want:  []models.FrameworkTag{models.FrameworkSvelte},
		},
		{
			name:  "express",
			files: map[string]string{"package.json": `{"dependencies":{"express":"4"}}`},
			want:  []models.FrameworkTag{models.FrameworkNodeExpress},
		},
		{
			name:  "gin",
			files: map[string]string{"go.mod": "module x\n\nrequire github.com/gin-gonic/gin v1.9.1\n"},
			want:  []models.FrameworkTag{models.FrameworkGin},
		},
		{
			name:  "axum",
			files: map[string]string{"Cargo.toml": "[dependencies]\naxum = \"0.7\"\n"},
			want:  []models.FrameworkTag{models.FrameworkAxum},
		},
		{
			name:  "springboot",
			files: map[string]string{"pom.xml": "<artifactId>spring-boot-starter-web</artifactId>"},
			want:  []models.FrameworkTag{models.FrameworkSpringBoot},
		},
		{
			name:  "no_frameworks",
			files: map[string]string{"requirements.txt": "requests\n"},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			root := t.TempDir()
			for rel, content := range tt.files {
				writeFile(t, root, rel, content)
			}
			profile, err := newTestDetector().Detect(root, DetectOptions{})
			if err != nil {
				t.Fatalf("Detect() error: %v", err)
			}
			if !slices.Equal(profile.Frameworks, tt.want) {
				t.Errorf("Frameworks = %v, want %v", profile.Frameworks, tt.want)
			}
		})
	}
}

func TestDetectFrameworks_ConditionedOnLanguage(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "requirements.txt", "flask\n")
	writeFile(t, root, "package.json", `{"dependencies":{"react":"18"}}`)

	d := newTestDetector()
	got := d.DetectFrameworks(root, []models.LanguageTag{models.LangPython})
	if !slices.Equal(got, []models.FrameworkTag{models.FrameworkFlask}) {
		t.Errorf("DetectFrameworks(python) = %v, want [flask]", got)
	}
	if got := d.DetectFrameworks(root, nil); len(got) != 0 {
		t.Errorf("DetectFrameworks(nil) = %v, want none", got)
	}
}

func TestDetect_UnreadableManifestIsSkipped(t *testing.T) {
	t.Parallel()
	if os.Getuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}

	root := t.TempDir()
	writeFile(t, root, "requirements.txt", "django\n")
	if err := os.Chmod(filepath.Join(root, "requirements.txt"), 0o000); err != nil {
		t.Fatalf("Chmod error: %v", err)
	}

	profile, err := newTestDetector().Detect(root, DetectOptions{})
	if err != nil {
		t.Fatalf("Detect() error: %v", err)
	}
	if !profile.HasLanguage(models.LangPython) {
		t.Error("marker presence should still signal python")
	}
	if len(profile.Frameworks) != 0 {
		t.Errorf("Frameworks = %v, want none", profile.Frameworks)
	}
}
