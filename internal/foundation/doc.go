// Package foundation holds the static language and framework catalogs the
// detector and the rule composer share.
//
// The catalogs are ordered: LanguageRegistry.All returns languages in
// detection priority order and FrameworkRegistry.ForLanguage returns the
// frameworks scanned for a language in the order they are reported.
package foundation
