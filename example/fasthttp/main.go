package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/AlexandreIorio/dotlogs"
	"github.com/AlexandreIorio/dotlogs/compat"
)

func main() {
	svc, err := dotlogs.NewBuilder().
		Directory("./fasthttp_logs").
		LevelString("Information").
		OutputTemplate("[{Caller}] {Message}{NewLine}").
		Build()
	if err != nil {
		panic(err)
	}
	defer svc.Close()

	// Create fasthttp adapter with custom level detection
	fasthttpAdapter, err := compat.NewBuilder().
		WithService(svc).
		BuildFastHTTP(
			compat.WithDefaultLevel(dotlogs.LevelInformation),
			compat.WithLevelDetector(customLevelDetector),
		)
	if err != nil {
		panic(err)
	}

	server := &fasthttp.Server{
		Handler: requestHandler(svc),
		Logger:  fasthttpAdapter,

		Name:              "MyServer",
		Concurrency:       fasthttp.DefaultConcurrency,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		TCPKeepalive:      true,
		ReduceMemoryUsage: true,
	}

	fmt.Println("Starting server on :8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		panic(err)
	}
}

// requestHandler serves the last day of log entries at /logs
func requestHandler(svc *dotlogs.Service) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		ctx.SetContentType("text/plain")
		if string(ctx.Path()) != "/logs" {
			fmt.Fprintf(ctx, "Hello, world! Path: %s\n", ctx.Path())
			return
		}

		level := string(ctx.QueryArgs().Peek("level"))
		entries, err := svc.GetLogsDays(1, level)
		if err != nil {
			ctx.SetStatusCode(fasthttp.StatusBadRequest)
			fmt.Fprintln(ctx, err)
			return
		}
		for _, e := range entries {
			fmt.Fprintf(ctx, "%s %s %s\n", e.Timestamp.Format(time.RFC3339), e.LevelName(), e.Message())
		}
	}
}

func customLevelDetector(msg string) int64 {
	if strings.Contains(msg, "connection cannot be served") {
		return dotlogs.LevelWarning
	}
	if strings.Contains(msg, "error when serving connection") {
		return dotlogs.LevelError
	}
	return compat.DetectLogLevel(msg)
}
