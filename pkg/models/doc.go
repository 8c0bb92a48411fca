// Package models provides the shared data model of the rule generator.
//
// # Project Profiles
//
// A [ProjectProfile] is the detector's classification of a directory tree:
// the detected [LanguageTag] and [FrameworkTag] sets, whether the tree is a
// monorepo, and one nested profile per sub-package. Profiles are built fresh
// for every invocation and never persisted.
//
//	p := models.ProjectProfile{RootPath: "/src/app"}
//	p.AddLanguage(models.LangPython)
//	p.PrimaryLanguage() // "python"
//
// # Global Configuration
//
// [GlobalConfig] holds the user's provider, model, API keys and enabled
// tools. It is persisted as JSON by the config store and read at the start
// of every generation run.
//
// # Rule Documents
//
// A [RuleDocument] is one generated Markdown file in the shared rules
// directory, tagged with a [Category].
package models
