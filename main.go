/*
File    : mica/main.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

// Package main is the entry point for the Mica interpreter. It provides
// three modes of operation: REPL (default), file execution, and a TCP
// REPL server, plus a --gen flag that runs a file through the analyzer
// and generator instead of the evaluator, printing the generated host
// source.
package main

import (
	"fmt"
	"net"
	"os"

	"github.com/fatih/color"

	"github.com/akashmaji946/mica/analyzer"
	"github.com/akashmaji946/mica/eval"
	"github.com/akashmaji946/mica/generator"
	"github.com/akashmaji946/mica/lexer"
	"github.com/akashmaji946/mica/parser"
	"github.com/akashmaji946/mica/repl"
)

var (
	version = "v1.0.0"
	author  = "akashmaji(@iisc.ac.in)"
	license = "MIT"
	prompt  = "mica >>> "
	banner  = `
  ███▄ ▄███▓ ██▓ ▄████▄   ▄▄▄
 ▓██▒▀█▀ ██▒▓██▒▒██▀ ▀█  ▒████▄
 ▓██    ▓██░▒██▒▒▓█    ▄ ▒██  ▀█▄
 ▒██    ▒██ ░██░▒▓▓▄ ▄██▒░██▄▄▄▄██
 ▒██▒   ░██▒░██░▒ ▓███▀ ░ ▓█   ▓██▒
 ░ ▒░   ░  ░░▓  ░ ░▒ ▒  ░ ▒▒   ▓▒█░
`
	line = "----------------------------------------------------------------"
)

var (
	redColor    = color.New(color.FgRed)
	yellowColor = color.New(color.FgYellow)
	cyanColor   = color.New(color.FgCyan)
)

// main dispatches on os.Args:
//
//	mica                   - start the REPL
//	mica <file>            - run a .mica file
//	mica --gen <file>      - print the file's generated host source
//	mica server <port>     - start a REPL server
//	mica --help / --version
func main() {
	if len(os.Args) <= 1 {
		repl.NewRepl(banner, version, author, line, license, prompt).Start(os.Stdin, os.Stdout)
		return
	}

	switch arg := os.Args[1]; arg {
	case "--help", "-h":
		showHelp()
	case "--version", "-v":
		showVersion()
	case "server":
		if len(os.Args) < 3 {
			redColor.Fprintf(os.Stderr, "[USAGE ERROR] missing port for server mode. Usage: mica server <port>\n")
			os.Exit(1)
		}
		startServer(os.Args[2])
	case "--gen":
		if len(os.Args) < 3 {
			redColor.Fprintf(os.Stderr, "[USAGE ERROR] missing file for --gen mode. Usage: mica --gen <file>\n")
			os.Exit(1)
		}
		runGenerate(os.Args[2])
	default:
		runFile(arg)
	}
}

func showHelp() {
	cyanColor.Println("Mica - a small, interpreted and transpiled language")
	cyanColor.Println("")
	cyanColor.Println("USAGE:")
	yellowColor.Println("  mica                    Start interactive REPL mode")
	yellowColor.Println("  mica <path-to-file>     Execute a Mica file")
	yellowColor.Println("  mica --gen <path>       Print a Mica file's generated host source")
	yellowColor.Println("  mica server <port>      Start REPL server on specified port")
	yellowColor.Println("  mica --help             Display this help message")
	yellowColor.Println("  mica --version          Display version information")
	cyanColor.Println("")
	cyanColor.Println("REPL:")
	yellowColor.Println("  .exit                   Exit the REPL")
	yellowColor.Println("  .gen <line>             Print the line's generated host source instead of running it")
}

func showVersion() {
	cyanColor.Println("Mica - a small, interpreted and transpiled language")
	cyanColor.Printf("Version: %s\n", version)
	cyanColor.Printf("License: %s\n", license)
	cyanColor.Printf("Author : %s\n", author)
}

func runFile(fileName string) {
	source, err := os.ReadFile(fileName)
	if err != nil {
		redColor.Fprintf(os.Stderr, "[FILE ERROR] could not read file %q: %v\n", fileName, err)
		os.Exit(1)
	}
	executeFileWithRecovery(string(source))
}

func executeFileWithRecovery(source string) {
	defer func() {
		if recovered := recover(); recovered != nil {
			redColor.Fprintf(os.Stderr, "[RUNTIME ERROR] %v\n", recovered)
			os.Exit(1)
		}
	}()

	tokens, err := lexer.Lex(source)
	if err != nil {
		redColor.Fprintf(os.Stderr, "[LEXER ERROR] %s\n", err)
		os.Exit(1)
	}

	ast, err := parser.Parse(tokens)
	if err != nil {
		redColor.Fprintf(os.Stderr, "[PARSE ERROR] %s\n", err)
		os.Exit(1)
	}

	root := eval.NewGlobalScope(os.Stdout)
	if _, err := eval.Evaluate(ast, root); err != nil {
		redColor.Fprintf(os.Stderr, "[EVAL ERROR] %s\n", err)
		os.Exit(1)
	}
}

func runGenerate(fileName string) {
	source, err := os.ReadFile(fileName)
	if err != nil {
		redColor.Fprintf(os.Stderr, "[FILE ERROR] could not read file %q: %v\n", fileName, err)
		os.Exit(1)
	}

	tokens, err := lexer.Lex(string(source))
	if err != nil {
		redColor.Fprintf(os.Stderr, "[LEXER ERROR] %s\n", err)
		os.Exit(1)
	}
	ast, err := parser.Parse(tokens)
	if err != nil {
		redColor.Fprintf(os.Stderr, "[PARSE ERROR] %s\n", err)
		os.Exit(1)
	}
	typed, err := analyzer.Analyze(ast, analyzer.NewGlobalScope())
	if err != nil {
		redColor.Fprintf(os.Stderr, "[ANALYZE ERROR] %s\n", err)
		os.Exit(1)
	}
	fmt.Print(generator.Generate(typed))
}

func startServer(port string) {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		redColor.Fprintf(os.Stderr, "[SERVER ERROR] failed to start server on port %s: %v\n", port, err)
		os.Exit(1)
	}
	cyanColor.Printf("Mica REPL server listening on :%s\n", port)
	defer listener.Close()

	for {
		conn, err := listener.Accept()
		if err != nil {
			redColor.Fprintf(os.Stderr, "[SERVER ERROR] failed to accept connection: %v\n", err)
			continue
		}
		go handleClient(conn)
	}
}

func handleClient(conn net.Conn) {
	defer conn.Close()
	cyanColor.Printf("new client connected from %s\n", conn.RemoteAddr())
	repl.NewRepl(banner, version, author, line, license, prompt).Start(conn, conn)
	cyanColor.Printf("client disconnected from %s\n", conn.RemoteAddr())
}
