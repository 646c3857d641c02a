package main

import (
	"context"
	"fmt"
	"os"

	_ "go.uber.org/automaxprocs"

	"watttime-api/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "watttime-api:", err)
		os.Exit(1)
	}
}
