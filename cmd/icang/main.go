// Package main 终端前端入口：一次性生成或交互模式
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"icang-ai-api/internal/config"
	"icang-ai-api/internal/domain/entity"
	"icang-ai-api/internal/interfaces/cli"
	einoobs "icang-ai-api/internal/observability/eino"
	"icang-ai-api/internal/wire"
	"icang-ai-api/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	var (
		mode   = pflag.StringP("mode", "m", "", "mode: cerita | berita | matematika (story, info, math)")
		topic  = pflag.StringP("topic", "t", "", "topic or problem; runs once and exits when set")
		length = pflag.IntP("length", "l", entity.DefaultStoryLength, "story length in words (200-500)")
		genre  = pflag.StringP("genre", "g", string(entity.GenreHorror), "story genre: Horror | Komedi | Serius")
	)
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	// 日志写到 stderr，避免与生成内容混在一起
	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format, "stderr")
	einoobs.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := wire.InitializeContentService(cfg)
	if err != nil {
		logger.Fatal(ctx, "failed to initialize content service", err)
	}

	session := cli.NewSession(svc, os.Stdout)
	if *mode != "" {
		m, err := entity.ParseMode(*mode)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		page, _ := cli.PageForMode(m)
		session.Navigate(page)
	}
	if err := session.SetLength(*length); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := session.SetGenre(*genre); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if *topic != "" {
		if err := session.RunOnce(ctx, *topic); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := session.Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
