// Package bot exposes the dice roller and campaign bookkeeping as
// Discord slash commands.
package bot

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/zshift/tabletop-bot/internal/scheduler"
	"github.com/zshift/tabletop-bot/internal/store"
	roll "github.com/zshift/tabletop-bot/pkg"
)

// Bot owns the Discord session and dispatches slash commands.
type Bot struct {
	session *discordgo.Session
	store   *store.Store
	sched   *scheduler.Scheduler
	rng     roll.Source
	guildID string
}

// New builds a Bot from a bot token. The gateway connection stays
// closed until Run.
func New(token, guildID string, st *store.Store, rng roll.Source) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	b := &Bot{
		session: session,
		store:   st,
		sched:   scheduler.New(st, sessionSender{session}),
		rng:     rng,
		guildID: guildID,
	}
	session.AddHandler(b.onReady)
	session.AddHandler(b.onInteraction)

	return b, nil
}

// Run opens the gateway connection, registers the slash commands in the
// configured guild, re-arms any persisted schedule and blocks until ctx
// is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	defer b.session.Close()
	defer b.sched.Stop()

	if _, err := b.session.ApplicationCommandBulkOverwrite(
		b.session.State.User.ID, b.guildID, commands); err != nil {
		return fmt.Errorf("register commands: %w", err)
	}
	if err := b.sched.Sync(ctx); err != nil {
		return fmt.Errorf("sync scheduler: %w", err)
	}

	<-ctx.Done()
	log.Println("bot: shutting down")

	return nil
}

func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	log.Printf("bot: logged in as %s", r.User.String())
}

// sessionSender adapts the Discord session to the scheduler's Sender.
type sessionSender struct {
	session *discordgo.Session
}

func (s sessionSender) Send(channelID, message string) error {
	_, err := s.session.ChannelMessageSend(channelID, message)
	return err
}
