package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/jusunglee/fidelbot/internal/db"
	"github.com/jusunglee/fidelbot/internal/metrics"
	"github.com/jusunglee/fidelbot/internal/translation"
	"github.com/jusunglee/fidelbot/internal/transliteration"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const (
	defaultMaxInputRunes   = 1000
	defaultCleanupInterval = time.Hour
	discordMessageLimit    = 2000
	defaultHistoryLimit    = 5
	maxHistoryLimit        = 20
	historyPreviewRunes    = 60
	activityWindow         = 24 * time.Hour
	requestTimeout         = 30 * time.Second
)

const noticeUnchanged = "🤔 Nothing to transliterate: I couldn't find any Amharic (fidel) characters."

var (
	errRateLimited     = errors.New("rate limited")
	errEmptyInput      = errors.New("empty input")
	errMessageNotFound = errors.New("target message not resolved")
)

type Config struct {
	GuildID          string
	MaxInputRunes    int
	HistoryRetention time.Duration
	CleanupInterval  time.Duration
}

type Bot struct {
	log     Logger
	session DiscordSession
	service Transliterator
	limiter *RateLimiter
	config  Config
}

func New(log Logger, session DiscordSession, service Transliterator, config Config) *Bot {
	if config.MaxInputRunes <= 0 {
		config.MaxInputRunes = defaultMaxInputRunes
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = defaultCleanupInterval
	}
	return &Bot{
		log:     log,
		session: session,
		service: service,
		limiter: NewRateLimiter(),
		config:  config,
	}
}

func (b *Bot) Run(ctx context.Context) error {
	b.session.AddHandler(b.handleInteraction)
	b.session.AddHandler(b.handleMessage)
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		b.log.InfoContext(ctx, "connected to Discord", "username", r.User.Username)
	})

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("opening Discord connection: %w", err)
	}

	if err := b.registerCommands(ctx); err != nil {
		b.session.Close()
		return fmt.Errorf("registering commands: %w", err)
	}

	var eg errgroup.Group
	eg.Go(func() error {
		b.runCleaner(ctx)
		return nil
	})

	b.log.InfoContext(ctx, "bot is running, press Ctrl+C to stop")

	<-ctx.Done()
	b.log.Info("shutdown signal received")
	err := eg.Wait()
	b.session.Close()
	b.log.Info("shut down complete")

	return err
}

func (b *Bot) registerCommands(ctx context.Context) error {
	appID := b.session.GetUserID()
	guildID := b.config.GuildID
	if guildID != "" {
		b.log.InfoContext(ctx, "registering commands to guild", "guild_id", guildID)
		_, err := b.session.ApplicationCommandBulkOverwrite(appID, "", []*discordgo.ApplicationCommand{})
		if err != nil {
			b.log.WarnContext(ctx, "failed to clear global commands", "error", err)
		} else {
			b.log.InfoContext(ctx, "cleared global commands")
		}
	} else {
		b.log.InfoContext(ctx, "registering commands globally (may take up to 1 hour to propagate)")
	}

	_, err := b.session.ApplicationCommandBulkOverwrite(appID, guildID, commands)
	if err != nil {
		return fmt.Errorf("bulk overwrite commands: %w", err)
	}
	b.log.InfoContext(ctx, "registered commands", "count", len(commands))
	return nil
}

func (b *Bot) runCleaner(ctx context.Context) {
	for ctx.Err() == nil {
		cleanupCtx, cancel := context.WithTimeout(ctx, time.Minute)
		b.cleanup(cleanupCtx)
		cancel()
		sleepWithContext(ctx, b.config.CleanupInterval)
	}
	b.log.Info("cleaner stopped")
}

func (b *Bot) cleanup(ctx context.Context) {
	b.limiter.Sweep()
	if b.config.HistoryRetention <= 0 {
		return
	}
	rows, err := b.service.Prune(ctx, b.config.HistoryRetention)
	if err != nil {
		b.log.ErrorContext(ctx, "deleting old history", "error", err)
		return
	}
	if rows > 0 {
		b.log.InfoContext(ctx, "deleted old history", "rows", rows)
	}
}

func sleepWithContext(ctx context.Context, dur time.Duration) {
	timer := time.NewTimer(dur)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

type handlerResult struct {
	Response string
	Err      error
}

type userError struct {
	Err error
}

func (e *userError) Error() string {
	return e.Err.Error()
}

func (e *userError) Unwrap() error {
	return e.Err
}

func newUserError(err error) *userError {
	return &userError{Err: err}
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	b.handleCommand(i)
}

func (b *Bot) handleCommand(i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	var result handlerResult
	cmd := i.ApplicationCommandData().Name

	switch cmd {
	case commandTransliterate:
		result = b.handleTransliterate(ctx, i)
	case commandMessage:
		result = b.handleMessageCommand(ctx, i)
	case commandHistory:
		result = b.handleHistory(ctx, i)
	case commandHelp:
		result = handlerResult{Response: helpText}
	default:
		return
	}

	b.respond(i, result)
	b.logResult(ctx, cmd, i.ChannelID, result)
}

// handleMessage answers direct messages. Guild traffic is ignored.
func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID != "" {
		return
	}
	if m.Author.ID == b.session.GetUserID() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	result := b.transliterate(ctx, translation.Request{
		Source:    db.SourceDM,
		ChannelID: m.ChannelID,
		UserID:    m.Author.ID,
		Text:      m.Content,
	})

	_, err := b.session.ChannelMessageSendReply(m.ChannelID, truncate(result.Response, discordMessageLimit), m.Reference())
	if err != nil {
		b.log.ErrorContext(ctx, "failed to reply to direct message", "error", err, "channel_id", m.ChannelID)
	}
	b.logResult(ctx, db.SourceDM, m.ChannelID, result)
}

func (b *Bot) respond(i *discordgo.InteractionCreate, result handlerResult) {
	data := &discordgo.InteractionResponseData{
		Content: truncate(result.Response, discordMessageLimit),
	}
	if _, ok := errors.AsType[*userError](result.Err); ok {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	err := b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		b.log.Error("failed to respond to interaction", "error", err, "channel_id", i.ChannelID)
	}
}

func (b *Bot) logResult(ctx context.Context, cmd, channelID string, result handlerResult) {
	if result.Err == nil {
		metrics.BotInteractionsTotal.WithLabelValues(cmd, "ok").Inc()
		return
	}

	if _, ok := errors.AsType[*userError](result.Err); ok {
		metrics.BotInteractionsTotal.WithLabelValues(cmd, "user_error").Inc()
		b.log.WarnContext(ctx, "user error", "command", cmd, "error", result.Err, "channel_id", channelID)
	} else {
		metrics.BotInteractionsTotal.WithLabelValues(cmd, "error").Inc()
		b.log.ErrorContext(ctx, "command failed", "command", cmd, "error", result.Err, "channel_id", channelID)
	}
}

func (b *Bot) handleTransliterate(ctx context.Context, i *discordgo.InteractionCreate) handlerResult {
	options := i.ApplicationCommandData().Options
	return b.transliterate(ctx, translation.Request{
		Source:    db.SourceCommand,
		ChannelID: i.ChannelID,
		UserID:    interactionUserID(i),
		Text:      getOption(options, "text"),
	})
}

func (b *Bot) handleMessageCommand(ctx context.Context, i *discordgo.InteractionCreate) handlerResult {
	data := i.ApplicationCommandData()
	if data.Resolved == nil {
		return handlerResult{Response: "❌ I couldn't read that message.", Err: newUserError(errMessageNotFound)}
	}
	msg, ok := data.Resolved.Messages[data.TargetID]
	if !ok || msg == nil {
		return handlerResult{Response: "❌ I couldn't read that message.", Err: newUserError(errMessageNotFound)}
	}

	return b.transliterate(ctx, translation.Request{
		Source:    db.SourceMessageCommand,
		ChannelID: i.ChannelID,
		UserID:    interactionUserID(i),
		Text:      msg.Content,
	})
}

func (b *Bot) transliterate(ctx context.Context, req translation.Request) handlerResult {
	if !b.limiter.Allow(req.UserID) {
		metrics.BotRateLimitHits.Inc()
		return handlerResult{
			Response: fmt.Sprintf("⏳ Slow down! You can transliterate up to %d messages per minute.", b.limiter.max),
			Err:      newUserError(errRateLimited),
		}
	}

	if strings.TrimSpace(req.Text) == "" {
		return handlerResult{Response: "❌ Give me some Amharic text to transliterate.", Err: newUserError(errEmptyInput)}
	}

	if n := utf8.RuneCountInString(req.Text); n > b.config.MaxInputRunes {
		return handlerResult{
			Response: fmt.Sprintf("❌ That text is too long (%d characters). The limit is %d.", n, b.config.MaxInputRunes),
			Err:      newUserError(fmt.Errorf("input of %d runes exceeds limit of %d", n, b.config.MaxInputRunes)),
		}
	}

	// Text without any fidel is answered without touching history.
	if !transliteration.ContainsEthiopic(req.Text) {
		return handlerResult{Response: noticeUnchanged}
	}

	result, err := b.service.Transliterate(ctx, req)
	if err != nil {
		b.log.WarnContext(ctx, "failed to record transliteration", "source", req.Source, "error", err)
	}

	if !result.Changed() {
		return handlerResult{Response: noticeUnchanged}
	}
	return handlerResult{Response: result.Output}
}

func (b *Bot) handleHistory(ctx context.Context, i *discordgo.InteractionCreate) handlerResult {
	limit := int32(defaultHistoryLimit)
	if opt := findOption(i.ApplicationCommandData().Options, "limit"); opt != nil {
		limit = int32(min(max(opt.IntValue(), 1), maxHistoryLimit))
	}

	rows, err := b.service.Recent(ctx, i.ChannelID, limit)
	if err != nil {
		return handlerResult{Response: "❌ Failed to load history. Please try again later.", Err: fmt.Errorf("listing history: %w", err)}
	}
	if len(rows) == 0 {
		return handlerResult{Response: "No transliterations in this channel yet."}
	}

	lines := lo.Map(rows, func(t db.Transliteration, _ int) string {
		return fmt.Sprintf("• <t:%d:R> %s → %s", t.CreatedAt.Unix(), preview(t.Input), preview(t.Output))
	})
	response := "**Recent transliterations in this channel:**\n" + strings.Join(lines, "\n")

	userID := interactionUserID(i)
	count, err := b.service.UserActivity(ctx, userID, activityWindow)
	if err != nil {
		b.log.WarnContext(ctx, "failed to count user activity", "error", err, "user_id", userID)
	} else {
		response += fmt.Sprintf("\n\nYou made %d transliteration(s) in the last 24 hours.", count)
	}

	return handlerResult{Response: response}
}

func findOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string) *discordgo.ApplicationCommandInteractionDataOption {
	opt, ok := lo.Find(options, func(o *discordgo.ApplicationCommandInteractionDataOption) bool {
		return o.Name == name
	})
	if !ok {
		return nil
	}
	return opt
}

func getOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if opt := findOption(options, name); opt != nil {
		return opt.StringValue()
	}
	return ""
}

// interactionUserID returns the invoking user. Guild interactions carry a
// Member, direct messages carry a User.
func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func preview(s string) string {
	return truncate(strings.Join(strings.Fields(s), " "), historyPreviewRunes)
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}
