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

// The eligibility package is the shared kernel of the election-ops context:
// every service may import it, and it may import nothing from any service.
const sharedKernel = "electra/contexts/election-ops/eligibility"

type violation struct {
	File   string
	Line   int
	Import string
	Rule   string
}

func main() {
	violations := collectViolations("contexts")
	if len(violations) == 0 {
		fmt.Println("boundary checks passed")
		return
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].File == violations[j].File {
			if violations[i].Line == violations[j].Line {
				return violations[i].Import < violations[j].Import
			}
			return violations[i].Line < violations[j].Line
		}
		return violations[i].File < violations[j].File
	})

	fmt.Println("boundary violations found:")
	for _, v := range violations {
		fmt.Printf("- %s:%d imports %q (%s)\n", v.File, v.Line, v.Import, v.Rule)
	}
	os.Exit(1)
}

func collectViolations(root string) []violation {
	var violations []violation

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		normalized := filepath.ToSlash(path)
		parts := strings.Split(normalized, "/")
		if len(parts) < 3 || parts[0] != "contexts" {
			return nil
		}

		contextName := parts[1]
		serviceName := parts[2]
		modulePrefix := fmt.Sprintf("electra/contexts/%s/%s", contextName, serviceName)

		if modulePrefix == sharedKernel {
			violations = append(violations, validateKernelFile(path, normalized)...)
			return nil
		}
		layer := ""
		if len(parts) >= 4 {
			layer = parts[3]
		}
		violations = append(violations, validateFile(path, normalized, layer, modulePrefix)...)
		return nil
	})

	return violations
}

func validateKernelFile(path string, normalizedPath string) []violation {
	var violations []violation
	for _, imported := range fileImports(path, normalizedPath, &violations) {
		if strings.HasPrefix(imported.path, "electra/") {
			violations = append(violations, violation{
				File:   normalizedPath,
				Line:   imported.line,
				Import: imported.path,
				Rule:   "shared kernel must not depend on services",
			})
		}
	}
	return violations
}

func validateFile(path string, normalizedPath string, layer string, modulePrefix string) []violation {
	var violations []violation

	for _, imported := range fileImports(path, normalizedPath, &violations) {
		if strings.HasPrefix(imported.path, "electra/contexts/") &&
			!hasPrefix(imported.path, modulePrefix) &&
			!hasPrefix(imported.path, sharedKernel) {
			violations = append(violations, violation{
				File:   normalizedPath,
				Line:   imported.line,
				Import: imported.path,
				Rule:   "cross-service imports are forbidden",
			})
		}

		switch layer {
		case "domain":
			violations = append(violations, validateDomainImport(normalizedPath, imported.line, imported.path, modulePrefix)...)
		case "application":
			violations = append(violations, validateApplicationImport(normalizedPath, imported.line, imported.path, modulePrefix)...)
		}
	}

	return violations
}

type importRef struct {
	path string
	line int
}

func fileImports(path string, normalizedPath string, violations *[]violation) []importRef {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		*violations = append(*violations, violation{
			File: normalizedPath,
			Line: 1,
			Rule: "file must parse",
		})
		return nil
	}

	refs := make([]importRef, 0, len(file.Imports))
	for _, imp := range file.Imports {
		refs = append(refs, importRef{
			path: strings.Trim(imp.Path.Value, "\""),
			line: fset.Position(imp.Pos()).Line,
		})
	}
	return refs
}

func validateDomainImport(file string, line int, importPath string, modulePrefix string) []violation {
	var violations []violation

	if strings.Contains(importPath, "/adapters/") {
		violations = append(violations, violation{
			File:   file,
			Line:   line,
			Import: importPath,
			Rule:   "domain must not import adapters",
		})
	}

	if strings.HasPrefix(importPath, "electra/internal/") {
		violations = append(violations, violation{
			File:   file,
			Line:   line,
			Import: importPath,
			Rule:   "domain must not import runtime infrastructure",
		})
	}

	allowed := []string{
		modulePrefix + "/domain",
		sharedKernel,
	}
	if !isStdlib(importPath) && !isAllowed(importPath, allowed) {
		violations = append(violations, violation{
			File:   file,
			Line:   line,
			Import: importPath,
			Rule:   "domain import is outside explicit allowlist",
		})
	}

	return violations
}

func validateApplicationImport(file string, line int, importPath string, modulePrefix string) []violation {
	var violations []violation

	if strings.Contains(importPath, "/adapters/") {
		violations = append(violations, violation{
			File:   file,
			Line:   line,
			Import: importPath,
			Rule:   "application must not import adapters",
		})
	}

	if strings.HasPrefix(importPath, "electra/internal/") {
		violations = append(violations, violation{
			File:   file,
			Line:   line,
			Import: importPath,
			Rule:   "application must not import runtime infrastructure",
		})
	}

	allowed := []string{
		modulePrefix + "/application",
		modulePrefix + "/domain",
		modulePrefix + "/ports",
		sharedKernel,
	}
	if !isStdlib(importPath) && !isAllowed(importPath, allowed) {
		violations = append(violations, violation{
			File:   file,
			Line:   line,
			Import: importPath,
			Rule:   "application import is outside explicit allowlist",
		})
	}

	return violations
}

func hasPrefix(path string, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isAllowed(importPath string, allowedPrefixes []string) bool {
	for _, p := range allowedPrefixes {
		if hasPrefix(importPath, p) {
			return true
		}
	}
	return false
}

func isStdlib(importPath string) bool {
	if strings.HasPrefix(importPath, "electra/") {
		return false
	}
	first := importPath
	if idx := strings.Index(first, "/"); idx != -1 {
		first = first[:idx]
	}
	return !strings.Contains(first, ".")
}
