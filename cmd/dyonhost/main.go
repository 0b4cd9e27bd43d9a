// Command dyonhost is a minimal embedding demo, not a source-language
// CLI or REPL: this port has no lexer/parser (spec §1 "out of scope:
// the source parser"), so there is no script file to point it at. It
// builds one Module by hand the way a host application would, wires one
// Go function, `report`, into it via pkg/embed.Host, and runs it the
// way funvibe-funxy/cmd/funxy's main exercises its own VM: `report`
// prints the computed value, and a failed run prints its stack-traced
// error with the same isatty-gated coloring.
package main

import (
	"fmt"
	"os"

	"github.com/dyon-lang/dyon/internal/ast"
	"github.com/dyon-lang/dyon/internal/module"
	"github.com/dyon-lang/dyon/internal/typesystem"
	"github.com/dyon-lang/dyon/pkg/embed"
)

func buildModule(host *embed.Host) *module.Module {
	// sum_of_squares(n) { sum i 0..n { i * i } }
	sumOfSquares := &ast.Fn{
		Name:   "sum_of_squares",
		Args:   []ast.FnArg{{Name: "n", Ty: typesystem.F64{}}},
		HasRet: true,
		Ret:    typesystem.F64{},
		Body: &ast.Block{Exprs: []ast.Expression{
			&ast.Return{Expr: &ast.Accumulator{
				Kind: ast.AccSum,
				Name: "i",
				End:  &ast.Item{Name: "n"},
				Block: &ast.Block{Exprs: []ast.Expression{
					&ast.BinOp{Op: ast.BinMul, Left: &ast.Item{Name: "i"}, Right: &ast.Item{Name: "i"}},
				}},
			}},
		}},
	}

	// main() { report(sum_of_squares(5)) }
	main := &ast.Fn{
		Name: "main",
		Body: &ast.Block{Exprs: []ast.Expression{
			&ast.Call{Name: "report", Args: []ast.Expression{
				&ast.Call{Name: "sum_of_squares", Args: []ast.Expression{&ast.F64Literal{Value: 5}}},
			}},
		}},
	}

	prelude := module.NewPrelude()
	prelude.Add(module.ExternSig{Name: "report", Args: []string{"f64"}, HasRet: false})

	mod := module.NewModule(prelude, module.NewUseLookup(), host)
	mod.AddFunction(sumOfSquares, "dyonhost/demo")
	mod.AddFunction(main, "dyonhost/demo")
	return mod
}

func main() {
	host := embed.NewHost()
	if err := host.RegisterFunc("report", func(x float64) {
		fmt.Printf("sum_of_squares(5) = %v\n", x)
	}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	mod := buildModule(host)
	if _, err := embed.Run(mod, "main"); err != nil {
		fmt.Fprintln(os.Stderr, embed.FormatError(err))
		os.Exit(1)
	}
}
