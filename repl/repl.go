/*
File    : mica/repl/repl.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

// Package repl implements the Read-Eval-Print Loop for Mica. The REPL
// provides an interactive environment where users can enter Mica source
// line by line, see immediate evaluation results, and navigate command
// history using arrow keys. A leading ".gen " prefix routes the rest of
// the line through the analyzer and generator instead of the evaluator,
// printing the generated host source rather than running it.
package repl

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/akashmaji946/mica/analyzer"
	"github.com/akashmaji946/mica/eval"
	"github.com/akashmaji946/mica/generator"
	"github.com/akashmaji946/mica/lexer"
	"github.com/akashmaji946/mica/parser"
	"github.com/akashmaji946/mica/scope"
	"github.com/akashmaji946/mica/types"
	"github.com/akashmaji946/mica/value"
)

// Color definitions for REPL output.
var (
	blueColor   = color.New(color.FgBlue)
	yellowColor = color.New(color.FgYellow)
	redColor    = color.New(color.FgRed)
	greenColor  = color.New(color.FgGreen)
	cyanColor   = color.New(color.FgCyan)
)

// genPrefix switches a line from evaluation to code generation.
const genPrefix = ".gen "

// Repl represents the Read-Eval-Print Loop instance. It encapsulates all
// the configuration needed to run an interactive session.
type Repl struct {
	Banner  string // ASCII art banner displayed at startup
	Version string // Version string of the interpreter
	Author  string // Author contact information
	Line    string // Separator line for visual formatting
	License string // Software license information
	Prompt  string // Command prompt shown to the user (e.g., "mica >>> ")
}

// NewRepl creates and initializes a new REPL instance.
func NewRepl(banner string, version string, author string, line string, license string, prompt string) *Repl {
	return &Repl{Banner: banner, Version: version, Author: author, Line: line, License: license, Prompt: prompt}
}

// PrintBannerInfo displays the welcome banner and usage instructions.
func (r *Repl) PrintBannerInfo(writer io.Writer) {
	blueColor.Fprintf(writer, "%s\n", r.Line)
	greenColor.Fprintf(writer, "%s\n", r.Banner)
	blueColor.Fprintf(writer, "%s\n", r.Line)
	yellowColor.Fprintln(writer, "Version: "+r.Version+" | Author: "+r.Author+" | License: "+r.License)
	blueColor.Fprintf(writer, "%s\n", r.Line)
	cyanColor.Fprintf(writer, "%s\n", "Welcome to Mica!")
	cyanColor.Fprintf(writer, "%s\n", "Type your code and press enter")
	cyanColor.Fprintf(writer, "%s\n", "Prefix a line with '.gen ' to see its generated host source instead")
	cyanColor.Fprintf(writer, "%s\n", "Type '.exit' to quit")
	cyanColor.Fprintf(writer, "%s\n", "Use up/down arrows to navigate command history")
	blueColor.Fprintf(writer, "%s\n", r.Line)
}

// session holds the state a REPL run threads across lines: the
// evaluator's variable scope and the analyzer's type scope, so a name a
// later line defines is visible to earlier-defined names and vice versa.
// Both are created lazily, on the first line that actually needs them,
// so a REPL run that only ever uses one of eval/generate never pays for
// the other's native bindings.
type session struct {
	writer    io.Writer
	evalRoot  *scope.Scope[value.Value]
	typeRoot  *scope.Scope[types.Type]
}

func (r *Repl) newSession(writer io.Writer) *session {
	return &session{writer: writer}
}

// Start begins the REPL main loop: print the banner, open a readline
// session, then read, evaluate (or generate), and print until the user
// exits.
func (r *Repl) Start(reader io.Reader, writer io.Writer) {
	r.PrintBannerInfo(writer)

	rl, err := readline.New(r.Prompt)
	if err != nil {
		panic(err)
	}
	defer rl.Close()

	sess := r.newSession(writer)

	for {
		line, err := rl.Readline()
		if err != nil {
			writer.Write([]byte("Good Bye!\n"))
			break
		}

		line = strings.Trim(line, " \n\t\r")
		if line == "" {
			continue
		}
		if line == ".exit" {
			writer.Write([]byte("Good Bye!\n"))
			break
		}
		rl.SaveHistory(line)

		sess.executeWithRecovery(line)
	}
}

// executeWithRecovery lexes and parses line, then either generates host
// source (".gen " prefix) or evaluates it, recovering from any panic so
// a single bad line never ends the session.
func (s *session) executeWithRecovery(line string) {
	defer func() {
		if recovered := recover(); recovered != nil {
			redColor.Fprintf(s.writer, "[RUNTIME ERROR] %v\n", recovered)
		}
	}()

	generate := strings.HasPrefix(line, genPrefix)
	if generate {
		line = strings.TrimPrefix(line, genPrefix)
	}

	tokens, err := lexer.Lex(line)
	if err != nil {
		redColor.Fprintf(s.writer, "[LEXER ERROR] %s\n", err)
		return
	}

	ast, err := parser.Parse(tokens)
	if err != nil {
		redColor.Fprintf(s.writer, "[PARSE ERROR] %s\n", err)
		return
	}

	if generate {
		if s.typeRoot == nil {
			s.typeRoot = analyzer.NewGlobalScope()
		}
		typed, err := analyzer.Analyze(ast, s.typeRoot)
		if err != nil {
			redColor.Fprintf(s.writer, "[ANALYZE ERROR] %s\n", err)
			return
		}
		yellowColor.Fprintf(s.writer, "%s", generator.Generate(typed))
		return
	}

	if s.evalRoot == nil {
		s.evalRoot = eval.NewGlobalScope(s.writer)
	}
	if _, err := eval.Evaluate(ast, s.evalRoot); err != nil {
		redColor.Fprintf(s.writer, "[EVAL ERROR] %s\n", err)
	}
}
