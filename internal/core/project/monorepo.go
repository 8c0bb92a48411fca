package project

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ai-rules/ai-rules-generator/pkg/models"
)

// packageDirs are the conventional workspace containers; their children are
// sub-package candidates.
var packageDirs = []string{"packages", "apps", "services", "libs", "modules"}

// workspaceFiles declare a workspace at the repository root.
var workspaceFiles = []string{
	"pnpm-workspace.yaml",
	"lerna.json",
	"nx.json",
	"turbo.json",
	"rush.json",
	"go.work",
}

// discoverPackages scans one level into the conventional package
// directories, or into the root's direct children when none of those yield
// a package. It reports the sub-packages found, ordered by relative path,
// and whether the root declares a workspace.
func (d *projectDetector) discoverPackages(root string) ([]models.ProjectProfile, bool) {
	filter := loadIgnoreFilter(root, d.logger)

	var candidates []string
	for _, container := range packageDirs {
		if filter.Skip(container) || !dirExists(filepath.Join(root, container)) {
			continue
		}
		candidates = append(candidates, d.childDirs(root, container, filter)...)
	}

	packages := d.profilePackages(root, candidates)
	if len(packages) == 0 {
		packages = d.profilePackages(root, d.childDirs(root, ".", filter))
	}

	sort.Slice(packages, func(i, j int) bool {
		return packages[i].RelPath < packages[j].RelPath
	})
	return packages, d.declaresWorkspace(root)
}

// childDirs lists the scannable directories directly under root/rel,
// returned as slash-separated paths relative to root.
func (d *projectDetector) childDirs(root, rel string, filter *ignoreFilter) []string {
	entries, err := os.ReadDir(filepath.Join(root, rel))
	if err != nil {
		d.logger.Debug("skipping unreadable directory", "dir", rel, "error", err)
		return nil
	}

	var out []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		child := filepath.ToSlash(filepath.Join(rel, e.Name()))
		if filter.Skip(child) {
			continue
		}
		out = append(out, child)
	}
	return out
}

// profilePackages detects each candidate without recursing further; only
// candidates with a language marker file become sub-packages.
func (d *projectDetector) profilePackages(root string, candidates []string) []models.ProjectProfile {
	var packages []models.ProjectProfile
	for _, rel := range candidates {
		dir := filepath.Join(root, filepath.FromSlash(rel))
		profile := d.detectPackage(dir)
		if len(profile.Languages) == 0 {
			continue
		}
		profile.Name = filepath.Base(dir)
		profile.RelPath = rel
		packages = append(packages, *profile)
	}
	return packages
}

// declaresWorkspace checks the root for a workspace declaration.
func (d *projectDetector) declaresWorkspace(root string) bool {
	if anyFileExists(root, workspaceFiles) {
		return true
	}
	if pkg, err := readPackageJSON(filepath.Join(root, "package.json")); err == nil {
		ws := strings.TrimSpace(string(pkg.Workspaces))
		if ws != "" && ws != "null" && ws != "[]" && ws != "{}" {
			return true
		}
	}
	if data, err := os.ReadFile(filepath.Join(root, "Cargo.toml")); err == nil {
		if strings.Contains(string(data), "[workspace]") {
			return true
		}
	}
	return false
}
