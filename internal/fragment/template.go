// Package fragment renders the fixed text fragments that accompany a pipeline:
// companion files and host build-file snippets.
package fragment

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

var (
	varRe      = regexp.MustCompile(`\{\{([a-zA-Z_][a-zA-Z0-9_]*)\}\}`)
	ifOpenRe   = regexp.MustCompile(`\{\{#if\s+([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`)
	ifCloseStr = "{{/if}}"
)

// OverrideDir is the project-relative directory searched for fragment
// overrides before the built-in fragments are used.
const OverrideDir = ".pipegen/fragments"

// Vars is a map of variable names to values for fragment rendering.
type Vars map[string]string

// Render expands a fragment with the given variables.
// {{variable}} is replaced with its value. Missing variables cause an error.
// {{#if variable}}...{{/if}} blocks are included only if the variable is non-empty.
func Render(tmpl string, vars Vars) (string, error) {
	result, err := processConditionals(tmpl, vars)
	if err != nil {
		return "", err
	}

	var missing []string
	expanded := varRe.ReplaceAllStringFunc(result, func(match string) string {
		m := varRe.FindStringSubmatch(match)
		if m == nil {
			return match
		}
		if val, ok := vars[m[1]]; ok {
			return val
		}
		missing = append(missing, m[1])
		return match
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("missing fragment variables: %s", strings.Join(missing, ", "))
	}
	return expanded, nil
}

// processConditionals handles {{#if var}}...{{/if}} blocks, innermost first:
// for each {{/if}} the last {{#if}} before it is its opening tag.
func processConditionals(tmpl string, vars Vars) (string, error) {
	result := tmpl
	for {
		closeIdx := strings.Index(result, ifCloseStr)
		if closeIdx == -1 {
			break
		}

		prefix := result[:closeIdx]
		openLocs := ifOpenRe.FindAllStringIndex(prefix, -1)
		if openLocs == nil {
			return "", fmt.Errorf("dangling {{/if}} without matching {{#if}}")
		}

		lastOpen := openLocs[len(openLocs)-1]
		openStart, openEnd := lastOpen[0], lastOpen[1]

		m := ifOpenRe.FindStringSubmatch(prefix[openStart:openEnd])
		if m == nil {
			return "", fmt.Errorf("failed to parse conditional tag: %s", prefix[openStart:openEnd])
		}

		body := result[openEnd:closeIdx]
		closeEnd := closeIdx + len(ifCloseStr)

		var replacement string
		if val, ok := vars[m[1]]; ok && val != "" {
			replacement = body
		}
		result = result[:openStart] + replacement + result[closeEnd:]
	}

	if ifOpenRe.MatchString(result) {
		return "", fmt.Errorf("unclosed conditional block: %s", ifOpenRe.FindString(result))
	}
	return result, nil
}

// Load returns the fragment called name. A project-level override under
// OverrideDir in fsys wins over the built-in fragment. fsys may be nil.
func Load(name string, fsys billy.Filesystem) (string, error) {
	clean := path.Clean("/" + name)[1:]
	if clean == "" || clean != name {
		return "", fmt.Errorf("fragment name %q escapes %s", name, OverrideDir)
	}

	if fsys != nil {
		if data, err := util.ReadFile(fsys, path.Join(OverrideDir, clean)); err == nil {
			return string(data), nil
		}
	}

	content, ok := builtinFragments[clean]
	if !ok {
		return "", fmt.Errorf("fragment %q not found (checked %s and built-ins)", name, OverrideDir)
	}
	return content, nil
}

// Names returns the built-in fragment names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtinFragments))
	for name := range builtinFragments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
