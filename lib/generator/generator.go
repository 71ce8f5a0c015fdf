// Package generator emits reflection-free row accessors.
//
// A struct is selected by a //hxtable:row line in its doc comment:
//
//	//hxtable:row
//	type Item struct {
//	    ID      int64  `table:"id"`
//	    Name    string
//	    Secret  string `table:"-"`
//	}
//
// For each selected struct the generator writes a Field(key) method into
// <file>_hxt.go, making the struct an hxtable.RowAccessor.
package generator

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Marker selects structs for generation.
const Marker = "//hxtable:row"

// Suffix is appended to the base name of generated files.
const Suffix = "_hxt.go"

// Options configures the generator.
type Options struct {
	DryRun bool
	// Out receives progress lines. Defaults to os.Stdout.
	Out io.Writer
}

// Generator generates row accessor code.
type Generator struct {
	opts Options
	fset *token.FileSet
}

// New creates a new generator.
func New(opts Options) *Generator {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return &Generator{
		opts: opts,
		fset: token.NewFileSet(),
	}
}

// Generate generates code for the given package patterns.
func (g *Generator) Generate(patterns ...string) error {
	packages, err := findPackages(patterns)
	if err != nil {
		return err
	}
	for _, pkg := range packages {
		if err := g.generatePackage(pkg); err != nil {
			return fmt.Errorf("package %s: %w", pkg, err)
		}
	}
	return nil
}

// Clean removes generated files for the given package patterns.
func (g *Generator) Clean(patterns ...string) error {
	packages, err := findPackages(patterns)
	if err != nil {
		return err
	}
	for _, pkg := range packages {
		if err := g.cleanPackage(pkg); err != nil {
			return fmt.Errorf("package %s: %w", pkg, err)
		}
	}
	return nil
}

// findPackages resolves package patterns to directory paths.
func findPackages(patterns []string) ([]string, error) {
	var packages []string
	for _, pattern := range patterns {
		if !strings.HasSuffix(pattern, "/...") {
			packages = append(packages, pattern)
			continue
		}

		root := strings.TrimSuffix(pattern, "/...")
		if root == "" {
			root = "."
		}
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			base := filepath.Base(path)
			if path != root && (strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_") || base == "vendor" || base == "testdata") {
				return filepath.SkipDir
			}

			entries, err := os.ReadDir(path)
			if err != nil {
				return nil
			}
			for _, entry := range entries {
				if !entry.IsDir() && isSourceFile(entry.Name()) {
					packages = append(packages, path)
					break
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return packages, nil
}

func isSourceFile(name string) bool {
	return strings.HasSuffix(name, ".go") &&
		!strings.HasSuffix(name, "_test.go") &&
		!strings.HasSuffix(name, Suffix)
}

// generatePackage generates code for every source file with marked structs.
func (g *Generator) generatePackage(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var files []*ast.File
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !isSourceFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		file, err := parser.ParseFile(g.fset, path, nil, parser.ParseComments)
		if err != nil {
			return err
		}
		files = append(files, file)
		names = append(names, path)
	}

	methods := collectMethods(files)
	for i, file := range files {
		rows := findRows(file, methods)
		if len(rows) == 0 {
			continue
		}
		if err := g.generateFile(names[i], file.Name.Name, rows); err != nil {
			return err
		}
	}
	return nil
}

// cleanPackage removes generated files from a package.
func (g *Generator) cleanPackage(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Suffix) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		fmt.Fprintf(g.opts.Out, "removing %s\n", path)
		if !g.opts.DryRun {
			if err := os.Remove(path); err != nil {
				return err
			}
		}
	}
	return nil
}

// RowInfo describes a struct selected for generation.
type RowInfo struct {
	TypeName string
	Fields   []FieldInfo
	Methods  []MethodInfo
}

// FieldInfo is an exported field and the keys that reach it.
type FieldInfo struct {
	Name string
	Keys []string
}

// MethodInfo is a method callable without arguments and the keys that reach
// it. Field returns the method value; the resolver calls it.
type MethodInfo struct {
	Name string
	Keys []string
}

// collectMethods maps receiver type names to their methods that take no
// arguments (or only variadic ones) and return at least one value.
func collectMethods(files []*ast.File) map[string][]string {
	methods := make(map[string][]string)
	for _, file := range files {
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv == nil || len(fn.Recv.List) != 1 || !fn.Name.IsExported() {
				continue
			}
			if !callableWithoutArgs(fn.Type) {
				continue
			}
			if recv := receiverName(fn.Recv.List[0].Type); recv != "" {
				methods[recv] = append(methods[recv], fn.Name.Name)
			}
		}
	}
	for _, names := range methods {
		sort.Strings(names)
	}
	return methods
}

func callableWithoutArgs(ft *ast.FuncType) bool {
	if ft.Results == nil || len(ft.Results.List) == 0 {
		return false
	}
	params := ft.Params.List
	switch {
	case len(params) == 0:
		return true
	case len(params) == 1 && len(params[0].Names) <= 1:
		_, variadic := params[0].Type.(*ast.Ellipsis)
		return variadic
	}
	return false
}

func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverName(t.X)
	case *ast.Ident:
		return t.Name
	}
	return ""
}

// findRows finds the marked structs declared in file.
func findRows(file *ast.File, methods map[string][]string) []*RowInfo {
	var rows []*RowInfo
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}
		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok || typeSpec.TypeParams != nil {
				continue
			}
			if !hasMarker(typeSpec.Doc) && !(len(genDecl.Specs) == 1 && hasMarker(genDecl.Doc)) {
				continue
			}
			structType, ok := typeSpec.Type.(*ast.StructType)
			if !ok {
				continue
			}
			rows = append(rows, buildRow(typeSpec.Name.Name, structType, methods[typeSpec.Name.Name]))
		}
	}
	return rows
}

func hasMarker(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		if strings.TrimSpace(c.Text) == Marker {
			return true
		}
	}
	return false
}

// buildRow assigns keys the way the reflective resolver matches them: tag
// names first, then field names, then methods. A key claimed earlier is not
// offered again.
func buildRow(name string, st *ast.StructType, methods []string) *RowInfo {
	row := &RowInfo{TypeName: name}
	claimed := make(map[string]bool)
	claim := func(keys ...string) []string {
		var out []string
		for _, k := range keys {
			if k != "" && !claimed[k] {
				claimed[k] = true
				out = append(out, k)
			}
		}
		return out
	}

	type field struct {
		name string
		tag  string
	}
	var fields []field
	for _, f := range st.Fields.List {
		if len(f.Names) == 0 {
			continue
		}
		tag := tagName(f.Tag)
		if tag == "-" {
			continue
		}
		for _, n := range f.Names {
			if n.IsExported() {
				fields = append(fields, field{name: n.Name, tag: tag})
			}
		}
	}

	keys := make([][]string, len(fields))
	for i, f := range fields {
		keys[i] = claim(f.tag)
	}
	for i, f := range fields {
		keys[i] = append(keys[i], claim(f.name, lowerFirst(f.name))...)
		row.Fields = append(row.Fields, FieldInfo{Name: f.name, Keys: keys[i]})
	}
	for _, m := range methods {
		if ks := claim(m, lowerFirst(m)); len(ks) > 0 {
			row.Methods = append(row.Methods, MethodInfo{Name: m, Keys: ks})
		}
	}
	return row
}

// tagName returns the table tag name, else the json tag name.
func tagName(lit *ast.BasicLit) string {
	if lit == nil {
		return ""
	}
	raw, err := strconv.Unquote(lit.Value)
	if err != nil {
		return ""
	}
	tag := reflect.StructTag(raw)
	if name, _, _ := strings.Cut(tag.Get("table"), ","); name != "" {
		return name
	}
	name, _, _ := strings.Cut(tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
