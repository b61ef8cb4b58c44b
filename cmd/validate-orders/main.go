package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/Gunvolt24/storefront-prefetch/pkg/validate"
)

// CLI для офлайн-проверки выгрузок заказов (JSON, JSONL, ответы API /orders/my/).
// Валидные заказы печатаются в stdout по одному в строке, итог и ошибки идут в stderr.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("validate-orders", flag.ContinueOnError)
	fs.SetOutput(stderr)
	inputPath := fs.String("in", "", "path to input (.json or .jsonl); empty reads stdin as jsonl")
	formatStr := fs.String("format", "auto", "input format: auto|json|jsonl")
	details := fs.Bool("details", false, "print per-status counts and invalid records")
	strict := fs.Bool("strict", false, "exit with code 1 when any record is invalid")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	v := validate.NewOrderValidator()
	format := validate.InputFormat(*formatStr)

	var (
		rep validate.Report
		err error
	)
	if *inputPath == "" {
		rep, err = validate.ValidateReader(ctx, v, stdin, format, stdout)
	} else {
		rep, err = validate.ValidateFile(ctx, v, *inputPath, format, stdout)
	}

	if *details {
		_ = rep.WriteDetails(stderr)
	}
	if err != nil {
		fmt.Fprintf(stderr, "validation: %v (%s)\n", err, rep)
		return 1
	}
	fmt.Fprintf(stderr, "validation ok (%s)\n", rep)
	if *strict && rep.Invalid > 0 {
		return 1
	}
	return 0
}
