package bot

import (
	"context"
	"fmt"
	"log"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/studyplan/internal/database"
	"github.com/example/studyplan/internal/reminder"
)

// Bot wires the Telegram transport, the persistence layer and the
// reminder engine together
type Bot struct {
	api      *tgbotapi.BotAPI
	token    string
	config   *BotConfig
	notifier *TelegramNotifier
	engine   *reminder.Engine

	subjects  *database.SubjectRepository
	revisions *database.RevisionRepository
	sessions  *database.SessionRepository
	stats     *database.StatisticsRepository

	awaitingImport map[int64]bool
}

// New creates a new bot instance
func New() (*Bot, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}
	if database.DB == nil {
		return nil, fmt.Errorf("database connection is not established")
	}

	return &Bot{
		token:          token,
		config:         DefaultConfig(),
		subjects:       database.NewSubjectRepository(),
		revisions:      database.NewRevisionRepository(),
		sessions:       database.NewSessionRepository(),
		stats:          database.NewStatisticsRepository(),
		awaitingImport: make(map[int64]bool),
	}, nil
}

// Start initializes the Telegram session and handles updates until the
// context is cancelled
func (b *Bot) Start(ctx context.Context) error {
	api, err := tgbotapi.NewBotAPI(b.token)
	if err != nil {
		return fmt.Errorf("unable to create bot: %v", err)
	}
	b.api = api
	log.Printf("Authorized on account %s", api.Self.UserName)

	b.notifier = NewTelegramNotifier(api)
	b.engine = reminder.New(reminder.NewClock(), NewStoredPermissions(b.notifier), b.notifier)
	b.engine.OnActivate(func(id int64) { b.sendReviewPrompt(ctx, id) })

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := api.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// Stop releases the reminder engine's timers and the update stream
func (b *Bot) Stop(ctx context.Context) error {
	if b.engine != nil {
		b.engine.StopAllReminders()
	}
	if b.api != nil {
		b.api.StopReceivingUpdates()
	}
	return nil
}

// refreshSchedules re-reads the working set after any change: the
// sweeper restarts over the fresh snapshot with an immediate overdue
// pass, and the policy is re-applied per item to rebuild the timers
func (b *Bot) refreshSchedules(ctx context.Context) {
	items, err := b.revisions.All(ctx)
	if err != nil {
		log.Printf("Error loading revision items: %v", err)
		return
	}
	b.engine.StartPeriodicSweep(items)
	for _, item := range items {
		b.engine.ScheduleReminder(item.ID, item.Title, item.NextReviewAt)
	}
}

// sendReviewPrompt answers an alert activation with the item details
func (b *Bot) sendReviewPrompt(ctx context.Context, id int64) {
	chatID := b.notifier.boundChat()
	if chatID == 0 {
		return
	}
	item, err := b.revisions.GetByID(ctx, id)
	if err != nil {
		log.Printf("Error loading revision item %d: %v", id, err)
		return
	}
	text := fmt.Sprintf("Reviewing %s (%s).\nSend /done %d when you have finished.",
		item.Title, item.SubjectName, item.ID)
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("Error sending review prompt: %v", err)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}
