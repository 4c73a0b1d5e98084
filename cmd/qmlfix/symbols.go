package main

import (
	"context"
	"fmt"
	"os"

	"github.com/arjunmahishi/qmlfix/output"
	"github.com/arjunmahishi/qmlfix/qmlfix"
	"github.com/urfave/cli/v3"
)

func symbolsCommand() *cli.Command {
	return &cli.Command{
		Name:  "symbols",
		Usage: "show the root scope, id and members of a QML file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "file to analyze (required)",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "candidates",
				Usage: "include every reference candidate with its decision",
			},
			&cli.BoolFlag{
				Name:  "compact",
				Usage: "minimize output",
			},
		},
		Action: runSymbols,
	}
}

// symbolsResult is the JSON document printed by symbols.
type symbolsResult struct {
	File       string             `json:"file"`
	Scope      *qmlfix.Scope      `json:"scope"`
	Table      qmlfix.SymbolTable `json:"table"`
	Candidates []qmlfix.Exclusion `json:"candidates,omitempty"`
}

func runSymbols(_ context.Context, cmd *cli.Command) error {
	path := cmd.String("file")
	data, err := os.ReadFile(path)
	if err != nil {
		return preconditionError{err}
	}
	text := string(data)

	res := symbolsResult{File: path, Table: qmlfix.HarvestSymbols(text)}
	if scope, ok := qmlfix.LocateScope(text); ok {
		res.Scope = &scope
	}
	if cmd.Bool("candidates") {
		prefix := qmlfix.DefaultID
		if res.Table.HasID {
			prefix = res.Table.ID
		}
		res.Candidates = qmlfix.Candidates(text, res.Table, prefix)
	}

	if err := output.New(output.Config{Output: cmd.Root().Writer, Compact: cmd.Bool("compact")}).Write(res); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
