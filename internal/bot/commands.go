package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/zshift/tabletop-bot/internal/store"
	roll "github.com/zshift/tabletop-bot/pkg"
)

var commands = []*discordgo.ApplicationCommand{
	{
		Name:        "roll",
		Description: "Roll dice, e.g. 3d20k2+5",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "dice",
			Description: "Dice expression",
			Required:    true,
		}},
	},
	{
		Name:        "exp",
		Description: "Give a player experience",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "player",
				Description: "The player receiving experience",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "amount",
				Description: "Experience to add",
				Required:    true,
			},
		},
	},
	{
		Name:        "experience",
		Description: "Show everyone's experience",
	},
	{
		Name:        "registerplayer",
		Description: "Register a player",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "player",
			Description: "The player to register",
			Required:    true,
		}},
	},
	{
		Name:        "mvp",
		Description: "Vote for the session's MVP",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "player",
			Description: "Your MVP pick",
			Required:    true,
		}},
	},
	{
		Name:        "resolve-mvp",
		Description: "Tally the MVP votes",
	},
	{
		Name:        "schedule",
		Description: "Schedule an announcement",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "on",
				Description: "When to send it, RFC 3339 (e.g. 2026-08-23T19:00:00-05:00)",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "message",
				Description: "The announcement text",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionChannel,
				Name:        "channel",
				Description: "Target channel, defaults to the current one",
			},
		},
	},
	{
		Name:        "connections",
		Description: "Show database connection stats",
	},
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	content, err := b.dispatch(context.Background(), i, data)
	if err != nil {
		log.Printf("bot: %s: %v", data.Name, err)
		content = "Something went wrong, sorry."
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	}); err != nil {
		log.Printf("bot: respond to %s: %v", data.Name, err)
	}
}

func (b *Bot) dispatch(ctx context.Context, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) (string, error) {
	switch data.Name {
	case "roll":
		return b.handleRoll(data)
	case "exp":
		return b.handleExp(ctx, data)
	case "experience":
		return b.handleExperience(ctx)
	case "registerplayer":
		return b.handleRegisterPlayer(ctx, data)
	case "mvp":
		return b.handleMVP(ctx, i, data)
	case "resolve-mvp":
		return b.handleResolveMVP(ctx)
	case "schedule":
		return b.handleSchedule(ctx, i, data)
	case "connections":
		return b.handleConnections(), nil
	}

	return "", fmt.Errorf("unknown command %q", data.Name)
}

func (b *Bot) handleRoll(data discordgo.ApplicationCommandInteractionData) (string, error) {
	dice := option(data, "dice")
	if dice == nil {
		return "", errors.New("missing dice option")
	}

	expression := dice.StringValue()
	out, err := roll.Eval(b.rng, expression)
	if err != nil {
		return fmt.Sprintf("Could not roll **%s**: %v.", expression, err), nil
	}

	return fmt.Sprintf("Rolled **%s** = %s", expression, FormatOutput(out)), nil
}

func (b *Bot) handleExp(ctx context.Context, data discordgo.ApplicationCommandInteractionData) (string, error) {
	player := option(data, "player")
	amount := option(data, "amount")
	if player == nil || amount == nil {
		return "", errors.New("missing player or amount option")
	}

	playerID := player.UserValue(nil).ID
	current, err := b.store.XP(ctx, playerID)
	if errors.Is(err, store.ErrUnknownPlayer) {
		return fmt.Sprintf("<@%s> is not a registered player.", playerID), nil
	}
	if err != nil {
		return "", err
	}

	total := current + amount.IntValue()
	if err := b.store.SetXP(ctx, playerID, total); err != nil {
		return "", err
	}

	return fmt.Sprintf("<@%s> now has %d experience.", playerID, total), nil
}

func (b *Bot) handleExperience(ctx context.Context) (string, error) {
	all, err := b.store.AllXP(ctx)
	if err != nil {
		return "", err
	}
	if len(all) == 0 {
		return "No players are registered yet.", nil
	}

	var sb strings.Builder
	sb.WriteString("Experience:\n")
	for _, p := range all {
		fmt.Fprintf(&sb, "- <@%s>: %d\n", p.PlayerID, p.Experience)
	}

	return sb.String(), nil
}

func (b *Bot) handleRegisterPlayer(ctx context.Context, data discordgo.ApplicationCommandInteractionData) (string, error) {
	player := option(data, "player")
	if player == nil {
		return "", errors.New("missing player option")
	}

	playerID := player.UserValue(nil).ID
	err := b.store.CreatePlayer(ctx, playerID)
	if errors.Is(err, store.ErrPlayerExists) {
		return fmt.Sprintf("<@%s> is already registered.", playerID), nil
	}
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Registered <@%s>.", playerID), nil
}

func (b *Bot) handleMVP(ctx context.Context, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) (string, error) {
	player := option(data, "player")
	if player == nil {
		return "", errors.New("missing player option")
	}

	voter := interactionUser(i)
	mvpID := player.UserValue(nil).ID

	err := b.store.VoteMVP(ctx, voter.ID, mvpID)
	if errors.Is(err, store.ErrUnknownPlayer) {
		return "Only registered players can vote.", nil
	}
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("<@%s> voted for <@%s>.", voter.ID, mvpID), nil
}

func (b *Bot) handleResolveMVP(ctx context.Context) (string, error) {
	mvp, err := b.store.ResolveMVP(ctx)
	if errors.Is(err, store.ErrMissingVotes) {
		return "Not everyone has voted yet.", nil
	}
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("The MVP is <@%s>!", mvp), nil
}

func (b *Bot) handleSchedule(ctx context.Context, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) (string, error) {
	on := option(data, "on")
	message := option(data, "message")
	if on == nil || message == nil {
		return "", errors.New("missing on or message option")
	}

	sendAt, err := time.Parse(time.RFC3339, on.StringValue())
	if err != nil {
		return fmt.Sprintf("Could not parse **%s**: use RFC 3339, e.g. 2026-08-23T19:00:00-05:00.", on.StringValue()), nil
	}

	channelID := i.ChannelID
	if channel := option(data, "channel"); channel != nil {
		channelID = channel.ChannelValue(nil).ID
	}

	if err := b.sched.Schedule(ctx, store.ScheduledMessage{
		ChannelID: channelID,
		Message:   message.StringValue(),
		SendAt:    sendAt,
	}); err != nil {
		return "", err
	}

	return fmt.Sprintf("Scheduled for %s in <#%s>.", sendAt.Format(time.RFC1123), channelID), nil
}

func (b *Bot) handleConnections() string {
	stats := b.store.Stats()
	return fmt.Sprintf("Database connections: %d open, %d in use, %d idle.",
		stats.OpenConnections, stats.InUse, stats.Idle)
}

// option returns the named top-level option, or nil when absent.
func option(data discordgo.ApplicationCommandInteractionData, name string) *discordgo.ApplicationCommandInteractionDataOption {
	for _, opt := range data.Options {
		if opt.Name == name {
			return opt
		}
	}

	return nil
}

// interactionUser returns the invoking user, which lives on Member for
// guild interactions and on User for DMs.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}

	return i.User
}
