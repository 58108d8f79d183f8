package main

import (
	"context"
	"log"
	"os"

	"github.com/untillpro/goutils/logger"
	"github.com/urfave/cli/v3"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	root := &cli.Command{
		Name:  "eavform",
		Usage: "Render, inspect and edit EAV form payloads",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Usage: "log swallowed conditions (malformed settings, unsupported kinds)"},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if c.Bool("verbose") {
				logger.SetLogLevel(logger.LogLevelVerbose)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			renderCommand(),
			propertiesCommand(),
			validateCommand(),
			editCommand(),
			catalogCommand(),
			importOpenAPICommand(),
		},
	}

	if err := root.Run(context.Background(), args); err != nil {
		log.Fatal(err)
	}
}
