package project

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"

	"github.com/ai-rules/ai-rules-generator/internal/foundation"
	"github.com/ai-rules/ai-rules-generator/pkg/models"
)

// DetectOptions adjusts a single Detect call.
type DetectOptions struct {
	// ForceMonorepo treats the root as a workspace even without a
	// workspace declaration.
	ForceMonorepo bool
}

// Detector identifies project characteristics from the filesystem.
type Detector interface {
	// Detect classifies root into a ProjectProfile. A readable directory with
	// no recognized markers yields an empty profile, not an error; only an
	// invalid root is reported.
	Detect(root string, opts DetectOptions) (*models.ProjectProfile, error)

	// DetectLanguages returns the languages signalled by root's own markers,
	// in catalog priority order. Subdirectories are not inspected.
	DetectLanguages(root string) []models.LanguageTag

	// DetectFrameworks scans root's manifests for frameworks of the given
	// languages.
	DetectFrameworks(root string, languages []models.LanguageTag) []models.FrameworkTag
}

// projectDetector is the concrete implementation of Detector.
type projectDetector struct {
	registry   *foundation.LanguageRegistry
	frameworks *foundation.FrameworkRegistry
	logger     *slog.Logger
}

// NewDetector creates a Detector backed by the given catalogs. Nil catalogs
// fall back to the package defaults.
func NewDetector(registry *foundation.LanguageRegistry, frameworks *foundation.FrameworkRegistry, logger *slog.Logger) Detector {
	if registry == nil {
		registry = foundation.DefaultRegistry
	}
	if frameworks == nil {
		frameworks = foundation.DefaultFrameworks
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &projectDetector{
		registry:   registry,
		frameworks: frameworks,
		logger:     logger,
	}
}

// manifestFiles lists, per language, the files scanned for framework keywords.
var manifestFiles = map[models.LanguageTag][]string{
	models.LangPython:     {"requirements.txt", "pyproject.toml", "Pipfile"},
	models.LangTypeScript: {"package.json"},
	models.LangJavaScript: {"package.json"},
	models.LangGo:         {"go.mod"},
	models.LangRust:       {"Cargo.toml"},
	models.LangJava:       {"pom.xml", "build.gradle", "build.gradle.kts"},
}

// skipDirs lists directories never treated as sub-packages.
var skipDirs = map[string]bool{
	".git":         true,
	".cursor":      true,
	".ai-rules":    true,
	"node_modules": true,
	".venv":        true,
	"venv":         true,
	"env":          true,
	"__pycache__":  true,
	"dist":         true,
	"build":        true,
	".next":        true,
	".nuxt":        true,
	".svelte-kit":  true,
	"target":       true,
	"bin":          true,
	"obj":          true,
	"vendor":       true,
}

// fallbackDirs are the directories whose files feed the extension fallback.
var fallbackDirs = []string{".", "src"}

// Detect classifies root into a ProjectProfile.
func (d *projectDetector) Detect(root string, opts DetectOptions) (*models.ProjectProfile, error) {
	root = filepath.Clean(root)
	if err := validateRoot(root); err != nil {
		return nil, err
	}

	d.logger.Debug("detecting project", "root", root, "force_monorepo", opts.ForceMonorepo)

	profile := d.detectDir(root)
	profile.Name = filepath.Base(root)

	packages, declared := d.discoverPackages(root)
	if opts.ForceMonorepo || (len(packages) > 0 && (declared || len(packages) >= 2)) {
		profile.IsMonorepo = true
		profile.SubPackages = packages
		for _, pkg := range packages {
			for _, lang := range pkg.Languages {
				profile.AddLanguage(lang)
			}
			for _, fw := range pkg.Frameworks {
				profile.AddFramework(fw)
			}
		}
	}

	d.logger.Debug("project detected",
		"languages", profile.Languages,
		"frameworks", profile.Frameworks,
		"monorepo", profile.IsMonorepo,
		"packages", len(profile.SubPackages),
	)
	return profile, nil
}

// detectDir builds a flat profile for the project root: markers first, the
// source-extension fallback only when no marker matched.
func (d *projectDetector) detectDir(dir string) *models.ProjectProfile {
	languages := d.DetectLanguages(dir)
	if len(languages) == 0 {
		languages = d.detectByExtension(dir)
	}
	return d.profileFor(dir, languages)
}

// detectPackage profiles a sub-package candidate from its marker files only.
// Loose sources in tests/ or lib/ do not make a package.
func (d *projectDetector) detectPackage(dir string) *models.ProjectProfile {
	return d.profileFor(dir, d.DetectLanguages(dir))
}

func (d *projectDetector) profileFor(dir string, languages []models.LanguageTag) *models.ProjectProfile {
	profile := &models.ProjectProfile{RootPath: dir}
	profile.SetLanguages(languages)
	profile.SetFrameworks(d.DetectFrameworks(dir, profile.Languages))
	return profile
}

// DetectLanguages returns the languages signalled by root's marker files.
func (d *projectDetector) DetectLanguages(root string) []models.LanguageTag {
	var found []models.LanguageTag
	for _, info := range d.registry.All() {
		switch info.ID {
		case models.LangTypeScript:
			// package.json decides between typescript and javascript.
			if lang, ok := d.detectJavaScriptFamily(root); ok {
				found = append(found, lang)
			}
		case models.LangJavaScript:
		case models.LangCPP:
			if d.detectCPP(root) {
				found = append(found, info.ID)
			}
		default:
			if anyFileExists(root, info.Markers) {
				found = append(found, info.ID)
			}
		}
	}
	return found
}

// detectJavaScriptFamily reports typescript when package.json declares a
// typescript dependency or tsconfig.json exists, javascript otherwise. An
// unparseable package.json still counts as javascript.
func (d *projectDetector) detectJavaScriptFamily(root string) (models.LanguageTag, bool) {
	hasTSConfig := fileExists(filepath.Join(root, "tsconfig.json"))
	pkgPath := filepath.Join(root, "package.json")
	if !fileExists(pkgPath) {
		if hasTSConfig {
			return models.LangTypeScript, true
		}
		return "", false
	}

	pkg, err := readPackageJSON(pkgPath)
	if err != nil {
		d.logger.Debug("failed to parse package.json", "path", pkgPath, "error", err)
		if hasTSConfig {
			return models.LangTypeScript, true
		}
		return models.LangJavaScript, true
	}

	if _, ok := pkg.dependencies()["typescript"]; ok || hasTSConfig {
		return models.LangTypeScript, true
	}
	return models.LangJavaScript, true
}

// detectCPP requires CMakeLists.txt, or a Makefile next to C/C++ sources;
// a bare Makefile is too common to signal C++ on its own.
func (d *projectDetector) detectCPP(root string) bool {
	if fileExists(filepath.Join(root, "CMakeLists.txt")) {
		return true
	}
	if !fileExists(filepath.Join(root, "Makefile")) {
		return false
	}
	info, err := d.registry.Get(models.LangCPP)
	if err != nil {
		return false
	}
	for _, dir := range fallbackDirs {
		entries, err := os.ReadDir(filepath.Join(root, dir))
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(e.Name()))
			for _, want := range info.Extensions {
				if ext == want {
					return true
				}
			}
		}
	}
	return false
}

// detectByExtension classifies the files in root and src/ with go-enry.
func (d *projectDetector) detectByExtension(root string) []models.LanguageTag {
	seen := make(map[models.LanguageTag]bool)
	for _, dir := range fallbackDirs {
		entries, err := os.ReadDir(filepath.Join(root, dir))
		if err != nil {
			if !os.IsNotExist(err) {
				d.logger.Debug("skipping unreadable directory", "dir", dir, "error", err)
			}
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			rel := filepath.ToSlash(filepath.Join(dir, e.Name()))
			if enry.IsVendor(rel) || enry.IsDotFile(rel) {
				continue
			}
			// Extensions such as .rs or .h are ambiguous; take the first
			// candidate the catalog knows.
			for _, name := range enry.GetLanguagesByExtension(e.Name(), nil, nil) {
				if info, err := d.registry.ByEnryName(name); err == nil {
					seen[info.ID] = true
					break
				}
			}
		}
	}

	var found []models.LanguageTag
	for _, info := range d.registry.All() {
		if seen[info.ID] {
			found = append(found, info.ID)
		}
	}
	if len(found) > 0 {
		d.logger.Debug("languages detected from source extensions", "languages", found)
	}
	return found
}

// DetectFrameworks scans root's manifests for frameworks of the given languages.
func (d *projectDetector) DetectFrameworks(root string, languages []models.LanguageTag) []models.FrameworkTag {
	var found []models.FrameworkTag
	seen := make(map[models.FrameworkTag]bool)

	for _, lang := range languages {
		candidates := d.frameworks.ForLanguage(lang)
		if len(candidates) == 0 {
			continue
		}

		var matches func(keyword string) bool
		if lang == models.LangTypeScript || lang == models.LangJavaScript {
			deps := d.packageDependencies(root)
			matches = func(keyword string) bool {
				_, ok := deps[keyword]
				return ok
			}
		} else {
			content := d.manifestContent(root, manifestFiles[lang])
			matches = func(keyword string) bool {
				return strings.Contains(content, keyword)
			}
		}

		for _, fw := range candidates {
			if seen[fw.ID] {
				continue
			}
			for _, kw := range fw.Keywords {
				if matches(kw) {
					seen[fw.ID] = true
					found = append(found, fw.ID)
					break
				}
			}
		}
	}
	return found
}

// manifestContent concatenates the lowercase content of the readable files.
func (d *projectDetector) manifestContent(root string, files []string) string {
	var b strings.Builder
	for _, name := range files {
		path := filepath.Join(root, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				d.logger.Debug("skipping unreadable manifest", "path", path, "error", err)
			}
			continue
		}
		b.WriteString(strings.ToLower(string(data)))
		b.WriteByte('\n')
	}
	return b.String()
}

// packageDependencies returns the merged dependency names from package.json.
func (d *projectDetector) packageDependencies(root string) map[string]string {
	path := filepath.Join(root, "package.json")
	pkg, err := readPackageJSON(path)
	if err != nil {
		if !os.IsNotExist(err) {
			d.logger.Debug("failed to parse package.json", "path", path, "error", err)
		}
		return nil
	}
	return pkg.dependencies()
}

// packageJSON is used for parsing package.json dependencies.
type packageJSON struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	Workspaces      json.RawMessage   `json:"workspaces"`
}

func (p *packageJSON) dependencies() map[string]string {
	return mergeMaps(p.Dependencies, p.DevDependencies)
}

func readPackageJSON(path string) (*packageJSON, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return &pkg, nil
}

// validateRoot checks that the root path is a valid, accessible directory.
func validateRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRoot, root)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, root)
	}
	return nil
}

// mergeMaps merges two string maps, with the second taking precedence.
func mergeMaps(a, b map[string]string) map[string]string {
	result := make(map[string]string, len(a)+len(b))
	maps.Copy(result, a)
	maps.Copy(result, b)
	return result
}

func anyFileExists(dir string, names []string) bool {
	for _, name := range names {
		if fileExists(filepath.Join(dir, name)) {
			return true
		}
	}
	return false
}

// dirExists checks if a path exists and is a directory.
func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// fileExists checks if a path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
