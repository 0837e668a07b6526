package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/leafo/htmlpng"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := htmlpng.Run(ctx, os.Args[1:], os.Stdout, os.Stderr, htmlpng.NewEngine)
	stop()
	os.Exit(code)
}
