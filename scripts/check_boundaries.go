package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const modulePath = "bibliotheque"

type violation struct {
	File   string
	Line   int
	Import string
	Rule   string
}

// layerRule lists the module-local prefixes a layer may import. Standard
// library imports are always allowed; third-party imports are not.
// {service} expands to the service root, e.g. bibliotheque/contexts/lending/loan-service.
type layerRule struct {
	name    string
	allowed []string
}

var contextLayers = map[string]layerRule{
	"domain": {
		name:    "domain",
		allowed: []string{"{service}/domain", modulePath + "/kernel"},
	},
	"application": {
		name: "application",
		allowed: []string{
			"{service}/application",
			"{service}/domain",
			"{service}/ports",
			modulePath + "/contracts",
			modulePath + "/kernel",
		},
	},
}

var kernelRule = layerRule{
	name:    "kernel",
	allowed: []string{modulePath + "/kernel"},
}

func main() {
	violations := append(checkContexts("contexts"), checkKernel("kernel")...)
	if len(violations) == 0 {
		fmt.Println("boundary checks passed")
		return
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].File != violations[j].File {
			return violations[i].File < violations[j].File
		}
		return violations[i].Line < violations[j].Line
	})
	fmt.Println("boundary violations found:")
	for _, v := range violations {
		fmt.Printf("- %s:%d imports %q (%s)\n", v.File, v.Line, v.Import, v.Rule)
	}
	os.Exit(1)
}

// checkContexts enforces that a service never imports another service, and
// that its domain and application layers stay off adapters and runtime code.
func checkContexts(root string) []violation {
	var violations []violation
	failures := walkSources(root, func(path string, imports []importLine) {
		parts := strings.Split(path, "/")
		if len(parts) < 4 {
			return
		}
		service := strings.Join([]string{modulePath, parts[0], parts[1], parts[2]}, "/")
		rule, layered := contextLayers[parts[3]]
		for _, imp := range imports {
			if hasPrefix(imp.path, modulePath+"/contexts") && !hasPrefix(imp.path, service) {
				violations = append(violations, imp.violation(path, "cross-service imports are forbidden"))
				continue
			}
			if layered && !rule.permits(imp.path, service) {
				violations = append(violations, imp.violation(path, rule.name+" import is outside its allowlist"))
			}
		}
	})
	return append(violations, failures...)
}

func checkKernel(root string) []violation {
	var violations []violation
	failures := walkSources(root, func(path string, imports []importLine) {
		for _, imp := range imports {
			if !kernelRule.permits(imp.path, "") {
				violations = append(violations, imp.violation(path, "kernel must only import the standard library"))
			}
		}
	})
	return append(violations, failures...)
}

func (r layerRule) permits(importPath string, service string) bool {
	if isStdlib(importPath) {
		return true
	}
	for _, prefix := range r.allowed {
		if hasPrefix(importPath, strings.ReplaceAll(prefix, "{service}", service)) {
			return true
		}
	}
	return false
}

type importLine struct {
	path string
	line int
}

func (i importLine) violation(file string, rule string) violation {
	return violation{File: file, Line: i.line, Import: i.path, Rule: rule}
}

// walkSources parses the imports of every non-test Go file under root and
// returns a violation for each file that does not parse.
func walkSources(root string, visit func(path string, imports []importLine)) []violation {
	var failures []violation
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		fset := token.NewFileSet()
		file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			failures = append(failures, violation{File: filepath.ToSlash(path), Line: 1, Rule: "file must parse"})
			return nil
		}
		imports := make([]importLine, 0, len(file.Imports))
		for _, imp := range file.Imports {
			imports = append(imports, importLine{
				path: strings.Trim(imp.Path.Value, "\""),
				line: fset.Position(imp.Pos()).Line,
			})
		}
		visit(filepath.ToSlash(path), imports)
		return nil
	})
	return failures
}

func hasPrefix(path string, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isStdlib(importPath string) bool {
	if hasPrefix(importPath, modulePath) {
		return false
	}
	first, _, _ := strings.Cut(importPath, "/")
	return !strings.Contains(first, ".")
}
