package generator

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"
)

// generateFile writes the *_hxt.go file for the rows of one source file.
func (g *Generator) generateFile(sourceFile, pkgName string, rows []*RowInfo) error {
	baseName := strings.TrimSuffix(filepath.Base(sourceFile), ".go")
	outputFile := filepath.Join(filepath.Dir(sourceFile), baseName+Suffix)

	fmt.Fprintf(g.opts.Out, "generating %s\n", outputFile)
	if g.opts.DryRun {
		return nil
	}

	code, err := Render(filepath.Base(sourceFile), pkgName, rows)
	if err != nil {
		return err
	}
	return os.WriteFile(outputFile, code, 0644)
}

// Render returns the formatted source of a generated file.
func Render(sourceFile, pkgName string, rows []*RowInfo) ([]byte, error) {
	tmpl, err := template.New("hxt").Funcs(template.FuncMap{
		"keys": quoteKeys,
	}).Parse(rowTemplate)
	if err != nil {
		return nil, err
	}

	data := struct {
		Source  string
		Package string
		Rows    []*RowInfo
	}{
		Source:  sourceFile,
		Package: pkgName,
		Rows:    rows,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return buf.Bytes(), fmt.Errorf("format source: %w", err)
	}
	return formatted, nil
}

func quoteKeys(keys []string) string {
	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = strconv.Quote(k)
	}
	return strings.Join(quoted, ", ")
}

const rowTemplate = `// Code generated by hxtable generate. DO NOT EDIT.
// Source: {{.Source}}

package {{.Package}}

import "github.com/pthm/hxtable"
{{range .Rows}}
var _ hxtable.RowAccessor = {{.TypeName}}{}

// Field implements hxtable.RowAccessor. Keys not known here fall back to
// reflection.
func (r {{.TypeName}}) Field(key string) (any, bool) {
	switch key {
{{- range .Fields}}
	case {{keys .Keys}}:
		return r.{{.Name}}, true
{{- end}}
{{- range .Methods}}
	case {{keys .Keys}}:
		return r.{{.Name}}, true
{{- end}}
	}
	return hxtable.StructRow{V: r}.Field(key)
}
{{end}}`
