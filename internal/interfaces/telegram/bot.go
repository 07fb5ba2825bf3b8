package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/avolkov/tourcal/internal/domain/calendar"
	"github.com/avolkov/tourcal/internal/platform/logging"
	"github.com/avolkov/tourcal/internal/usecase"
)

const defaultUpdateTimeout = 60

// Bot serves the published calendar over Telegram. It only reads; all
// pipeline writes stay behind the internal HTTP surface.
type Bot struct {
	api          *tgbotapi.BotAPI
	queryService *usecase.QueryService
	logger       *logging.Logger
}

func NewBot(token string, queryService *usecase.QueryService, logger *logging.Logger) (*Bot, error) {
	if logger == nil {
		logger = logging.Default()
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &Bot{
		api:          api,
		queryService: queryService,
		logger:       logger,
	}, nil
}

// Run polls for updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = defaultUpdateTimeout
	updates := b.api.GetUpdatesChan(updateConfig)

	b.logger.Info("telegram bot started", "username", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			b.handleCommand(ctx, update.Message)
		}
	}
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	var reply string
	switch message.Command() {
	case "start", "help":
		reply = helpText()
	case "leagues":
		reply = b.leaguesText(ctx)
	case "calendar":
		reply = b.calendarText(ctx, strings.TrimSpace(message.CommandArguments()))
	default:
		reply = "Unknown command. " + helpText()
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, reply)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.WarnContext(ctx, "send telegram reply failed",
			"chat_id", message.Chat.ID,
			"command", message.Command(),
			"error", err,
		)
	}
}

func helpText() string {
	return strings.Join([]string{
		"Commands:",
		"/leagues - list tracked leagues",
		"/calendar <league> - upcoming fixture difficulty",
	}, "\n")
}

func (b *Bot) leaguesText(ctx context.Context) string {
	leagues, err := b.queryService.ListLeagues(ctx)
	if err != nil {
		b.logger.WarnContext(ctx, "list leagues failed", "error", err)
		return "Leagues are unavailable right now."
	}
	if len(leagues) == 0 {
		return "No leagues are configured."
	}

	var sb strings.Builder
	sb.WriteString("Tracked leagues:\n")
	for _, lg := range leagues {
		fmt.Fprintf(&sb, "%s - %s (%s)\n", lg.ID, lg.Name, lg.Season)
	}
	return sb.String()
}

func (b *Bot) calendarText(ctx context.Context, leagueID string) string {
	if leagueID == "" {
		return "Usage: /calendar <league>"
	}

	entries, err := b.queryService.GetCalendar(ctx, leagueID)
	if err != nil {
		b.logger.WarnContext(ctx, "get calendar failed", "league_id", leagueID, "error", err)
		return fmt.Sprintf("No calendar for %q.", leagueID)
	}
	if len(entries) == 0 {
		return fmt.Sprintf("Nothing published yet for %s.", leagueID)
	}

	return renderCalendar(entries)
}

func renderCalendar(entries []calendar.Entry) string {
	var sb strings.Builder
	currentTour := -1
	for _, entry := range entries {
		if entry.Tour != currentTour {
			if currentTour != -1 {
				sb.WriteByte('\n')
			}
			fmt.Fprintf(&sb, "Tour %d:\n", entry.Tour)
			currentTour = entry.Tour
		}
		fmt.Fprintf(&sb, "  %s vs %s  %s/%s\n",
			entry.HomeTeam,
			entry.AwayTeam,
			formatScore(entry.HomePointsScore),
			formatScore(entry.AwayPointsScore),
		)
	}
	return sb.String()
}

func formatScore(score *int) string {
	if score == nil {
		return "?"
	}
	return fmt.Sprintf("%+d", *score)
}
