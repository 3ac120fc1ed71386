package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/zshift/tabletop-bot/internal/bot"
	"github.com/zshift/tabletop-bot/internal/config"
	"github.com/zshift/tabletop-bot/internal/store"
	roll "github.com/zshift/tabletop-bot/pkg"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	b, err := bot.New(cfg.DiscordToken, cfg.GuildID, st, roll.DefaultSource())
	if err != nil {
		log.Fatalf("create bot: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := b.Run(ctx); err != nil {
		log.Fatalf("run bot: %v", err)
	}
}
