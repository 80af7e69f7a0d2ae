package stage

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// prunedDirs are never descended into: version-control internals,
// dependency and virtualenv trees, and build caches. Pruning whole subtrees
// keeps the walk cheap and avoids false-positive matches inside them.
var prunedDirs = map[string]bool{
	".git":             true,
	".hg":              true,
	".svn":             true,
	".bzr":             true,
	"CVS":              true,
	"node_modules":     true,
	"bower_components": true,
	"jspm_packages":    true,
	"vendor":           true,
	"virtualenv":       true,
	"venv":             true,
	".venv":            true,
	".virtualenv":      true,
	".tox":             true,
	"__pycache__":      true,
	".nyc_output":      true,
	".gradle":          true,
	"htmlcov":          true,
}

// reportNamePatterns is the broad positive set of coverage-report file
// names: line-coverage XML/JSON/INFO/LCOV formats and raw coverage dumps.
var reportNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^.*coverage.*\.(xml|json|info|lcov|txt|out)$`),
	regexp.MustCompile(`(?i)^lcov\.info$`),
	regexp.MustCompile(`(?i)\.lcov$`),
	regexp.MustCompile(`\.gcov$`),
	regexp.MustCompile(`(?i)^gcov\.info$`),
	regexp.MustCompile(`(?i)^jacoco[^/]*\.xml$`),
	regexp.MustCompile(`(?i)^cobertura\.xml$`),
	regexp.MustCompile(`(?i)^excoveralls\.json$`),
	regexp.MustCompile(`(?i)^luacov\.report\.out$`),
	regexp.MustCompile(`(?i)^nosetests\.xml$`),
	regexp.MustCompile(`^\.coverage(\.[^/]+)?$`),
	regexp.MustCompile(`(?i)^cover\.out$`),
}

// skipNamePatterns is the negative set: source files, binaries, archives,
// images and docs that could coincidentally match a positive pattern.
var skipNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\.(c|cc|cpp|cxx|h|hpp|m|mm|go|rs|java|scala|kt|rb|php|pl|sh|bash|zsh|ps1|bat|py|pyc|js|jsx|ts|tsx|mjs|cjs)$`),
	regexp.MustCompile(`(?i)\.(gcno|gcda|o|obj|a|so|dylib|dll|exe|bin|class|jar|war|egg|whl)$`),
	regexp.MustCompile(`(?i)\.(tar|tgz|zip|gz|bz2|xz|7z|rar)$`),
	regexp.MustCompile(`(?i)\.(png|jpg|jpeg|gif|svg|ico|bmp|webp|pdf)$`),
	regexp.MustCompile(`(?i)\.(html|htm|css|scss|less|map)$`),
	regexp.MustCompile(`(?i)\.(yml|yaml|toml|ini|cfg|conf|lock|md|rst)$`),
	regexp.MustCompile(`(?i)\.(data|po|ftl|serialized|pth)$`),
	regexp.MustCompile(`^inputFiles\.lst$`),
	regexp.MustCompile(`^createdFiles\.lst$`),
	regexp.MustCompile(`^scoverage\.measurements\..*$`),
	regexp.MustCompile(`^test_[^/]*_coverage\.txt$`),
	regexp.MustCompile(`^testrunner`),
}

// reportNameMatch applies the built-in rule set: at least one positive
// pattern and no negative pattern.
func reportNameMatch(name string) bool {
	matched := false
	for _, re := range reportNamePatterns {
		if re.MatchString(name) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	for _, re := range skipNamePatterns {
		if re.MatchString(name) {
			return false
		}
	}
	return true
}

// matchAnyGlob reports whether the slash-relative path matches any of the
// doublestar globs. Bad globs count as non-matches; they are validated at
// flag-parse time.
func matchAnyGlob(globs []string, rel string) bool {
	for _, g := range globs {
		if ok, err := doublestar.Match(g, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// excluded reports whether the relative path is excluded by a caller glob,
// matched against the full relative path and the base name.
func excluded(excludeGlobs []string, rel string) bool {
	if matchAnyGlob(excludeGlobs, rel) {
		return true
	}
	return matchAnyGlob(excludeGlobs, filepath.Base(rel))
}

// classifyKind returns the format kind for a file name: gcov output needs
// rewriting, everything else passes through verbatim.
func classifyKind(name string) string {
	if strings.HasSuffix(name, ".gcov") {
		return KindGcov
	}
	return KindPlain
}

func displayPath(absRoot, p string) string {
	rel, err := filepath.Rel(absRoot, p)
	if err == nil {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(p)
}
