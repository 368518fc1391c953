// Package report renders pipeline results and diagnostics for the CLI.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/arnavsurve/pascal/internal/compiler"
	"github.com/arnavsurve/pascal/internal/compiler/diag"
	"github.com/arnavsurve/pascal/internal/compiler/interp"
	"github.com/arnavsurve/pascal/internal/compiler/symbols"
	"github.com/arnavsurve/pascal/internal/compiler/token"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F87171"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B"))
)

// Renderer writes reports in one format: text, yaml or json.
type Renderer struct {
	w      io.Writer
	format string
	color  bool
}

func New(w io.Writer, format string, color bool) *Renderer {
	if format == "" {
		format = "text"
	}
	return &Renderer{w: w, format: format, color: color}
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return s.Render(text)
}

// --- documents for structured formats ---

type bindingDoc struct {
	Name  string `yaml:"name" json:"name"`
	Type  string `yaml:"type" json:"type"`
	Value any    `yaml:"value" json:"value"`
}

type resultDoc struct {
	Run      string       `yaml:"run" json:"run"`
	Source   string       `yaml:"source" json:"source"`
	Program  string       `yaml:"program" json:"program"`
	Bindings []bindingDoc `yaml:"bindings" json:"bindings"`
}

type symbolDoc struct {
	Name string `yaml:"name" json:"name"`
	Kind string `yaml:"kind" json:"kind"`
	Decl string `yaml:"decl" json:"decl"`
}

type checkDoc struct {
	Run     string      `yaml:"run" json:"run"`
	Source  string      `yaml:"source" json:"source"`
	Program string      `yaml:"program" json:"program"`
	Globals []symbolDoc `yaml:"globals" json:"globals"`
}

type tokenDoc struct {
	Line     int    `yaml:"line" json:"line"`
	Column   int    `yaml:"column" json:"column"`
	Category string `yaml:"category" json:"category"`
	Type     string `yaml:"type" json:"type"`
	Literal  string `yaml:"literal,omitempty" json:"literal,omitempty"`
	Value    any    `yaml:"value,omitempty" json:"value,omitempty"`
}

type errorDoc struct {
	Category string `yaml:"category" json:"category"`
	Reason   string `yaml:"reason" json:"reason"`
	Source   string `yaml:"source,omitempty" json:"source,omitempty"`
	Line     int    `yaml:"line,omitempty" json:"line,omitempty"`
	Column   int    `yaml:"column,omitempty" json:"column,omitempty"`
}

func (r *Renderer) structured(doc any) error {
	switch r.format {
	case "json":
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml":
		enc := yaml.NewEncoder(r.w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown report format %q", r.format)
}

// nativeValue keeps numbers as numbers, except infinities and NaN, which
// JSON cannot encode and which travel in their printed form instead.
func nativeValue(v interp.Value) any {
	if v.Kind == interp.KindReal && (math.IsInf(v.Real, 0) || math.IsNaN(v.Real)) {
		return v.String()
	}
	return v.Native()
}

// --- reports ---

// Result reports the program name and its final bindings.
func (r *Renderer) Result(res *compiler.Result) error {
	if r.format != "text" {
		doc := resultDoc{Run: res.RunID, Source: res.Source, Program: res.Program, Bindings: []bindingDoc{}}
		for _, b := range res.Bindings {
			doc.Bindings = append(doc.Bindings, bindingDoc{Name: b.Name, Type: b.Value.Kind.String(), Value: nativeValue(b.Value)})
		}
		return r.structured(doc)
	}

	if _, err := fmt.Fprintln(r.w, r.style(titleStyle, "Program "+res.Program)); err != nil {
		return err
	}
	for _, b := range res.Bindings {
		if _, err := fmt.Fprintf(r.w, "  %s = %s\n", r.style(nameStyle, b.Name), b.Value); err != nil {
			return err
		}
	}
	return nil
}

// Check reports the global symbols of an analyzed program.
func (r *Renderer) Check(res *compiler.CheckResult) error {
	if r.format != "text" {
		doc := checkDoc{Run: res.RunID, Source: res.Source, Program: res.Program, Globals: []symbolDoc{}}
		for _, sym := range res.Globals {
			doc.Globals = append(doc.Globals, symbolDoc{Name: sym.SymbolName(), Kind: symbolKind(sym), Decl: sym.String()})
		}
		return r.structured(doc)
	}

	if _, err := fmt.Fprintf(r.w, "%s %s\n", r.style(titleStyle, "Program "+res.Program), r.style(nameStyle, "ok")); err != nil {
		return err
	}
	for _, sym := range res.Globals {
		if _, err := fmt.Fprintf(r.w, "  %s\n", sym); err != nil {
			return err
		}
	}
	return nil
}

// Tokens reports a token stream, one token per line.
func (r *Renderer) Tokens(toks []token.Token) error {
	if r.format != "text" {
		docs := make([]tokenDoc, len(toks))
		for i, t := range toks {
			docs[i] = tokenDoc{Line: t.Pos.Line, Column: t.Pos.Column, Category: t.Category.String(), Type: string(t.Type), Literal: t.Literal, Value: t.Value}
		}
		return r.structured(docs)
	}

	posCol := lipgloss.NewStyle().Width(9)
	typeCol := lipgloss.NewStyle().Width(15)
	for _, t := range toks {
		pos := posCol.Render(strconv.Itoa(t.Pos.Line) + ":" + strconv.Itoa(t.Pos.Column))
		line := pos + typeCol.Render(string(t.Type)) + t.Literal
		if t.Value != nil {
			line += r.style(mutedStyle, fmt.Sprintf("  (%v)", t.Value))
		}
		if _, err := fmt.Fprintln(r.w, line); err != nil {
			return err
		}
	}
	return nil
}

// Error reports a single failure.
func (r *Renderer) Error(err error) error {
	d, isDiag := diag.As(err)

	if r.format != "text" {
		doc := errorDoc{Category: "Error", Reason: err.Error()}
		if isDiag {
			pos := d.Position()
			doc = errorDoc{Category: d.Category(), Reason: d.Reason(), Source: pos.Source, Line: pos.Line, Column: pos.Column}
		}
		return r.structured(doc)
	}

	if !isDiag {
		_, werr := fmt.Fprintln(r.w, r.style(errorStyle, "Error: ")+err.Error())
		return werr
	}

	lines := strings.Split(diag.Format(err), "\n")
	for i, line := range lines {
		switch {
		case i == 0:
			line = r.style(errorStyle, line)
		case strings.HasPrefix(strings.TrimSpace(line), "..."):
			line = r.style(hintStyle, line)
		}
		if _, werr := fmt.Fprintln(r.w, line); werr != nil {
			return werr
		}
	}
	return nil
}

func symbolKind(sym symbols.Symbol) string {
	switch sym.(type) {
	case *symbols.Procedure:
		return "procedure"
	case *symbols.BuiltinType:
		return "type"
	}
	return "variable"
}
