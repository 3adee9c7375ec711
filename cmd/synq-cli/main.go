// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"
	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/synergy-network-hq/synq-language-sub000/internal/codegen"
	synqerrors "github.com/synergy-network-hq/synq-language-sub000/internal/errors"
	"github.com/synergy-network-hq/synq-language-sub000/internal/lsp"
	"github.com/synergy-network-hq/synq-language-sub000/internal/parser"
	"github.com/synergy-network-hq/synq-language-sub000/internal/pqcprovider"
	"github.com/synergy-network-hq/synq-language-sub000/internal/semantic"
	"github.com/synergy-network-hq/synq-language-sub000/internal/vm"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "compile":
		err = runCompile(os.Args[2:])
	case "run":
		err = runRun(os.Args[2:])
	case "lsp":
		err = runLSP()
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("error: %s", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  synq-cli compile <file.synqsrc>")
	fmt.Println("  synq-cli run <file.synq> [--gas N] [--max-pqc-gas N]")
	fmt.Println("  synq-cli lsp")
}

// runCompile parses, analyzes, and generates bytecode for path, writing
// the .synq binary alongside it as <path>.synq. It reports
// every accumulated semantic diagnostic before failing, matching the
// analyzer's non-fatal accumulation contract.
func runCompile(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("compile requires a source file")
	}
	path := args[0]

	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	unit, err := parser.ParseSource(path, string(source))
	if err != nil {
		reportParseError(string(source), path, err)
		return fmt.Errorf("parsing failed")
	}

	if diags := semantic.Analyze(unit.Units); len(diags) > 0 {
		reporter := synqerrors.NewErrorReporter(path, string(source))
		for _, d := range diags {
			fmt.Print(reporter.FormatError(d))
		}
		return fmt.Errorf("semantic analysis failed with %d error(s)", len(diags))
	}

	out, err := codegen.Generate(unit.Units)
	if err != nil {
		return fmt.Errorf("codegen failed: %w", err)
	}

	outPath := path + ".synq"
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	color.Green("compiled %s -> %s (%d bytes)", path, outPath, len(out))
	return nil
}

// runRun loads and executes a .synq binary. --gas and --max-pqc-gas
// override the VM's default two-pool budget.
func runRun(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("run requires a .synq file")
	}
	path := args[0]

	gasBudget := vm.DefaultInitialGas
	pqcBudget := vm.DefaultMaxPqcPerTx
	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "--gas":
			i++
			if i >= len(args) {
				return fmt.Errorf("--gas requires a value")
			}
			n, err := strconv.ParseUint(args[i], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid --gas value: %w", err)
			}
			gasBudget = n
		case "--max-pqc-gas":
			i++
			if i >= len(args) {
				return fmt.Errorf("--max-pqc-gas requires a value")
			}
			n, err := strconv.ParseUint(args[i], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid --max-pqc-gas value: %w", err)
			}
			pqcBudget = n
		default:
			return fmt.Errorf("unrecognized flag %q", args[i])
		}
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	gas := vm.NewGasMeter(gasBudget, pqcBudget)
	m, err := vm.Load(buf, gas, pqcprovider.NewReference())
	if err != nil {
		return err
	}

	if err := m.Run(); err != nil {
		return err
	}

	color.Green("halted after %d gas (%d pqc gas); final stack: %v", gas.Consumed, gas.PqcConsumed, m.Stack.Top())
	return nil
}

func runLSP() error {
	commonlog.Configure(1, nil)

	h := lsp.NewHandler()
	handler := protocol.Handler{
		Initialize:            h.Initialize,
		Initialized:           h.Initialized,
		Shutdown:              h.Shutdown,
		TextDocumentDidOpen:   h.TextDocumentDidOpen,
		TextDocumentDidChange: h.TextDocumentDidChange,
		TextDocumentDidClose:  h.TextDocumentDidClose,
	}

	s := server.NewServer(&handler, "synq", false)
	log.Println("starting synq-lsp over stdio...")
	return s.RunStdio()
}

// reportParseError prints a one-line colorized parse error message with
// the file, line and column of the failure.
func reportParseError(src, path string, err error) {
	pe, ok := err.(participle.Error)
	if !ok {
		color.Red("unexpected error: %s", err)
		return
	}

	pos := pe.Position()
	color.Red("syntax error in %s at line %d, column %d: %s", path, pos.Line, pos.Column, pe.Message())
}
