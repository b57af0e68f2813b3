package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/dsalog/internal/cli"
	"github.com/dmitrijs2005/dsalog/internal/logging"
)

func main() {

	ctx := context.Background()
	logger := logging.NewJSONLogger(os.Stderr, "warn")

	app := cli.NewApp(os.Stdin, os.Stdout, logger)
	if err := app.Run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, cli.ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}

}
