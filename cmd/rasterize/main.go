// The rasterize command saves a screenshot of a page clipped to one element.
//
//	rasterize URL filename timeout_ms [selector]
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/zap"
	"github.com/go-rod/rasterize/cmd/rasterize/commands"
)

func main() {
	l := zap.Default()
	ctx := logger.CtxWithLogger(context.Background(), l)
	logger.Default = func() logger.Logger {
		return l
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)

	err := commands.NewRoot().ExecuteContext(ctx)
	if err != nil {
		logger.Error(ctx, err)
	}

	cancel()
	belt.Flush(ctx)

	if err != nil {
		os.Exit(1)
	}
}
