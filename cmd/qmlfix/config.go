package main

import (
	"context"

	"github.com/arjunmahishi/qmlfix/config"
	"github.com/urfave/cli/v3"
)

func defaultConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "default-config",
		Usage: "print the default .qmlfix.yaml",
		Description: "Print the built-in configuration with comments.\n\n" +
			"Examples:\n" +
			"  qmlfix default-config                  # show defaults\n" +
			"  qmlfix default-config > ui/.qmlfix.yaml # start a per-directory config",
		Action: func(_ context.Context, cmd *cli.Command) error {
			_, err := cmd.Root().Writer.Write(config.DefaultYAML())
			return err
		},
	}
}
