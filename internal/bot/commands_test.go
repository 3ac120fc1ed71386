package bot

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zshift/tabletop-bot/internal/store"
	roll "github.com/zshift/tabletop-bot/pkg"
)

func openTestBot(t *testing.T) *Bot {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "bot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	return &Bot{store: st, rng: roll.NewSource(1)}
}

func commandData(opts ...*discordgo.ApplicationCommandInteractionDataOption) discordgo.ApplicationCommandInteractionData {
	return discordgo.ApplicationCommandInteractionData{Options: opts}
}

func stringOption(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

func userOption(name, id string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionUser,
		Value: id,
	}
}

func intOption(name string, value int64) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionInteger,
		Value: float64(value),
	}
}

func guildInteraction(userID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: &discordgo.Member{User: &discordgo.User{ID: userID}},
	}}
}

func TestHandleRoll(t *testing.T) {
	b := &Bot{rng: roll.NewSource(1)}

	got, err := b.handleRoll(commandData(stringOption("dice", "2+3")))
	require.NoError(t, err)
	assert.Equal(t, "Rolled **2+3** = 5", got)
}

func TestHandleRollBadExpression(t *testing.T) {
	b := &Bot{rng: roll.NewSource(1)}

	got, err := b.handleRoll(commandData(stringOption("dice", "1 +")))
	require.NoError(t, err)
	assert.Contains(t, got, "Could not roll")
}

func TestHandleRollMissingOption(t *testing.T) {
	b := &Bot{rng: roll.NewSource(1)}

	_, err := b.handleRoll(commandData())
	assert.Error(t, err)
}

func TestOption(t *testing.T) {
	data := commandData(
		stringOption("first", "a"),
		stringOption("second", "b"),
	)

	require.NotNil(t, option(data, "second"))
	assert.Equal(t, "b", option(data, "second").StringValue())
	assert.Nil(t, option(data, "missing"))
}

func TestExperienceFlow(t *testing.T) {
	b := openTestBot(t)
	ctx := context.Background()

	got, err := b.handleRegisterPlayer(ctx, commandData(userOption("player", "1001")))
	require.NoError(t, err)
	assert.Equal(t, "Registered <@1001>.", got)

	got, err = b.handleRegisterPlayer(ctx, commandData(userOption("player", "1001")))
	require.NoError(t, err)
	assert.Equal(t, "<@1001> is already registered.", got)

	got, err = b.handleExp(ctx, commandData(
		userOption("player", "1001"),
		intOption("amount", 150),
	))
	require.NoError(t, err)
	assert.Equal(t, "<@1001> now has 150 experience.", got)

	got, err = b.handleExp(ctx, commandData(
		userOption("player", "1001"),
		intOption("amount", 50),
	))
	require.NoError(t, err)
	assert.Equal(t, "<@1001> now has 200 experience.", got)

	got, err = b.handleExperience(ctx)
	require.NoError(t, err)
	assert.Contains(t, got, "<@1001>: 200")
}

func TestHandleExpUnknownPlayer(t *testing.T) {
	b := openTestBot(t)

	got, err := b.handleExp(context.Background(), commandData(
		userOption("player", "ghost"),
		intOption("amount", 10),
	))
	require.NoError(t, err)
	assert.Equal(t, "<@ghost> is not a registered player.", got)
}

func TestHandleExperienceEmpty(t *testing.T) {
	b := openTestBot(t)

	got, err := b.handleExperience(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "No players are registered yet.", got)
}

func TestMVPFlow(t *testing.T) {
	b := openTestBot(t)
	ctx := context.Background()

	for _, id := range []string{"1", "2"} {
		_, err := b.handleRegisterPlayer(ctx, commandData(userOption("player", id)))
		require.NoError(t, err)
	}

	got, err := b.handleResolveMVP(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Not everyone has voted yet.", got)

	got, err = b.handleMVP(ctx, guildInteraction("1"), commandData(userOption("player", "2")))
	require.NoError(t, err)
	assert.Equal(t, "<@1> voted for <@2>.", got)

	_, err = b.handleMVP(ctx, guildInteraction("2"), commandData(userOption("player", "2")))
	require.NoError(t, err)

	got, err = b.handleResolveMVP(ctx)
	require.NoError(t, err)
	assert.Equal(t, "The MVP is <@2>!", got)
}

func TestHandleMVPUnregisteredVoter(t *testing.T) {
	b := openTestBot(t)

	got, err := b.handleMVP(context.Background(), guildInteraction("stranger"),
		commandData(userOption("player", "1")))
	require.NoError(t, err)
	assert.Equal(t, "Only registered players can vote.", got)
}

func TestHandleScheduleBadTimestamp(t *testing.T) {
	b := openTestBot(t)

	got, err := b.handleSchedule(context.Background(), guildInteraction("1"), commandData(
		stringOption("on", "next tuesday"),
		stringOption("message", "game night!"),
	))
	require.NoError(t, err)
	assert.Contains(t, got, "Could not parse")
}
