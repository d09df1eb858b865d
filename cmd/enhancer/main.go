package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/doeshing/prompt-enhancer/internal/infrastructure/cli"
)

func main() {
	// A .env next to the working directory may carry PROMPT_ENHANCER_* overrides.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, cleanup, err := cli.NewRootCmd(ctx, cli.Options{Verbose: isVerbose()})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	err = root.ExecuteContext(ctx)
	cleanup()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func isVerbose() bool {
	v := os.Getenv("PROMPT_ENHANCER_DEBUG")
	return v == "1" || strings.EqualFold(v, "true")
}
