package main

import (
	"encoding/json"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	targetDir        = "internal/ui"
	translationsFile = "translations/en.json"
	ignoreMarker     = "i18n:ignore"
)

type funcRule struct {
	pkg  string
	name string
	args []int
}

type ignoreTag struct {
	line      int
	hasReason bool
}

var functionRules = []funcRule{
	{pkg: "widget", name: "NewLabel", args: []int{0}},
	{pkg: "widget", name: "NewLabelWithStyle", args: []int{0}},
	{pkg: "widget", name: "NewButton", args: []int{0}},
	{pkg: "widget", name: "NewCheck", args: []int{0}},
	{pkg: "widget", name: "NewSelect", args: []int{0}},
	{pkg: "widget", name: "NewRadioGroup", args: []int{0}},
	{pkg: "widget", name: "NewAccordionItem", args: []int{0}},
	{pkg: "widget", name: "NewButtonWithIcon", args: []int{0}},
	{pkg: "container", name: "NewTabItem", args: []int{0}},
	{pkg: "canvas", name: "NewText", args: []int{0}},
	{pkg: "dialog", name: "ShowInformation", args: []int{0, 1}},
	{pkg: "dialog", name: "ShowError", args: []int{0}},
	{pkg: "dialog", name: "ShowConfirm", args: []int{0, 1}},
	{pkg: "dialog", name: "ShowCustom", args: []int{0}},
	{pkg: "dialog", name: "NewColorPicker", args: []int{0, 1}},
	{pkg: "fyne", name: "NewNotification", args: []int{0, 1}},
}

var methodRules = map[string][]int{
	"SetPlaceHolder": {0},
	"SetText":        {0},
	"SetTitle":       {0},
}

type violation struct {
	pos     token.Position
	message string
}

func main() {
	files, err := collectGoFiles(targetDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to collect UI files: %v\n", err)
		os.Exit(1)
	}
	known, err := loadTranslationKeys(filepath.Join(targetDir, translationsFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load translations: %v\n", err)
		os.Exit(1)
	}

	fset := token.NewFileSet()
	violations := 0
	warned := map[string]struct{}{}

	for _, path := range files {
		file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to parse %s: %v\n", path, err)
			os.Exit(1)
		}

		relPath := filepath.ToSlash(path)
		found, warnLines := analyzeFile(fset, file, relPath, collectIgnoreTags(fset, file))
		if !isTestFile(relPath) {
			found = append(found, missingKeys(fset, file, known)...)
		}
		for _, v := range found {
			fmt.Printf("%s:%d:%d: %s\n", relPath, v.pos.Line, v.pos.Column, v.message)
			violations++
		}
		for _, line := range warnLines {
			key := fmt.Sprintf("%s:%d", relPath, line)
			if _, exists := warned[key]; !exists {
				fmt.Printf("WARN %s:%d: //i18n:ignore without reason\n", relPath, line)
				warned[key] = struct{}{}
			}
		}
	}

	if violations > 0 {
		os.Exit(1)
	}
}

// analyzeFile reports bare UI string literals and lang calls that run during
// package initialisation, before the translations are registered. The second
// result lists lines of //i18n:ignore tags that carry no reason.
func analyzeFile(fset *token.FileSet, file *ast.File, relPath string, commentsByLine map[int][]ignoreTag) ([]violation, []int) {
	if isTestFile(relPath) {
		return nil, nil
	}
	var out []violation
	var warnLines []int

	// check reports whether the node at pos should be flagged, recording a
	// reasonless ignore tag as a warning.
	check := func(pos token.Pos) bool {
		ignored, warnLine := ignoreStatus(commentsByLine, fset.Position(pos).Line)
		if !ignored {
			return true
		}
		if warnLine > 0 {
			warnLines = append(warnLines, warnLine)
		}
		return false
	}

	for _, decl := range file.Decls {
		var initScope ast.Node
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil && d.Name.Name == "init" {
				initScope = d.Body
			}
		case *ast.GenDecl:
			if d.Tok == token.VAR {
				initScope = d
			}
		}
		if initScope == nil {
			continue
		}
		ast.Inspect(initScope, func(n ast.Node) bool {
			if _, ok := n.(*ast.FuncLit); ok {
				return false
			}
			call, ok := n.(*ast.CallExpr)
			if !ok || !isAllowedExpr(call) {
				return true
			}
			if check(call.Pos()) {
				out = append(out, violation{
					pos:     fset.Position(call.Pos()),
					message: "lang lookups must not be called during package init (translations are not loaded yet)",
				})
			}
			return true
		})
	}

	ast.Inspect(file, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		for _, idx := range targetArgIndexes(call) {
			if idx >= len(call.Args) {
				continue
			}
			arg := unwrapExpr(call.Args[idx])
			if !isBareStringLiteral(arg) || isAllowedExpr(arg) {
				continue
			}
			if check(arg.Pos()) {
				out = append(out, violation{
					pos:     fset.Position(arg.Pos()),
					message: "bare UI string literal (use lang.X or //i18n:ignore <reason>)",
				})
			}
		}
		return true
	})

	return out, warnLines
}

// missingKeys reports lang.X calls whose literal key is absent from the
// default translation file. Calls with a computed key are reported too, since
// they cannot be checked.
func missingKeys(fset *token.FileSet, file *ast.File, known map[string]struct{}) []violation {
	var out []violation
	ast.Inspect(file, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok || !isAllowedExpr(call) || len(call.Args) == 0 {
			return true
		}
		lit, ok := unwrapExpr(call.Args[0]).(*ast.BasicLit)
		if !ok || lit.Kind != token.STRING {
			out = append(out, violation{pos: fset.Position(call.Pos()), message: "translation key must be a string literal"})
			return true
		}
		key, err := strconv.Unquote(lit.Value)
		if err != nil {
			return true
		}
		if _, ok := known[key]; !ok {
			out = append(out, violation{pos: fset.Position(lit.Pos()), message: fmt.Sprintf("translation key %q missing from %s", key, translationsFile)})
		}
		return true
	})
	return out
}

func isTestFile(path string) bool {
	return strings.HasSuffix(path, "_test.go")
}

func loadTranslationKeys(path string) (map[string]struct{}, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries map[string]any
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	keys := make(map[string]struct{}, len(entries))
	for k := range entries {
		keys[k] = struct{}{}
	}
	return keys, nil
}

func collectGoFiles(root string) ([]string, error) {
	files := make([]string, 0)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

func collectIgnoreTags(fset *token.FileSet, file *ast.File) map[int][]ignoreTag {
	tagsByLine := make(map[int][]ignoreTag)
	for _, group := range file.Comments {
		for _, c := range group.List {
			baseLine := fset.Position(c.Slash).Line
			for i, lineText := range commentLines(c.Text) {
				hasIgnore, hasReason := parseIgnoreComment(lineText)
				if !hasIgnore {
					continue
				}
				line := baseLine + i
				tagsByLine[line] = append(tagsByLine[line], ignoreTag{line: line, hasReason: hasReason})
			}
		}
	}
	return tagsByLine
}

func commentLines(text string) []string {
	if strings.HasPrefix(text, "//") {
		return []string{strings.TrimSpace(strings.TrimPrefix(text, "//"))}
	}
	if strings.HasPrefix(text, "/*") {
		trimmed := strings.TrimPrefix(text, "/*")
		trimmed = strings.TrimSuffix(trimmed, "*/")
		return strings.Split(trimmed, "\n")
	}
	return []string{text}
}

func parseIgnoreComment(text string) (bool, bool) {
	idx := strings.Index(text, ignoreMarker)
	if idx < 0 {
		return false, false
	}
	reason := strings.TrimSpace(text[idx+len(ignoreMarker):])
	return true, reason != ""
}

func ignoreStatus(tagsByLine map[int][]ignoreTag, targetLine int) (bool, int) {
	lines := []int{targetLine, targetLine - 1}
	hasIgnore := false
	hasReason := false
	noReasonLine := 0

	for _, line := range lines {
		tags := tagsByLine[line]
		for _, t := range tags {
			hasIgnore = true
			if t.hasReason {
				hasReason = true
				continue
			}
			if noReasonLine == 0 {
				noReasonLine = t.line
			}
		}
	}

	if !hasIgnore {
		return false, 0
	}
	if hasReason {
		return true, 0
	}
	return true, noReasonLine
}

func targetArgIndexes(call *ast.CallExpr) []int {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return nil
	}

	if id, ok := sel.X.(*ast.Ident); ok {
		for _, rule := range functionRules {
			if id.Name == rule.pkg && sel.Sel.Name == rule.name {
				return rule.args
			}
		}
	}

	if args, ok := methodRules[sel.Sel.Name]; ok {
		return args
	}

	return nil
}

func unwrapExpr(expr ast.Expr) ast.Expr {
	for {
		paren, ok := expr.(*ast.ParenExpr)
		if !ok {
			return expr
		}
		expr = paren.X
	}
}

func isAllowedExpr(expr ast.Expr) bool {
	call, ok := expr.(*ast.CallExpr)
	if !ok {
		return false
	}
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	id, ok := sel.X.(*ast.Ident)
	if !ok || id.Name != "lang" {
		return false
	}
	switch sel.Sel.Name {
	case "X", "L", "N", "XN":
		return true
	default:
		return false
	}
}

func isBareStringLiteral(expr ast.Expr) bool {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return false
	}
	unquoted, err := strconv.Unquote(lit.Value)
	if err != nil {
		return true
	}
	return unquoted != ""
}
