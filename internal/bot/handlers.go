package bot

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/studyplan/internal/database"
	"github.com/example/studyplan/internal/excel"
	"github.com/example/studyplan/internal/reminder"
	"github.com/example/studyplan/pkg/models"
)

const helpText = `Commands:
/add subject | title | [yyyy-mm-dd] - track a new revision item
/list - all revision items
/due - items due for review right now
/done <id> - mark an item reviewed and schedule the next pass
/remove <id> - stop tracking an item
/log subject | minutes | [notes] - record a study session
/sessions - recent study sessions
/stats - progress per subject
/notify on|off - enable or disable reminders
/import - upload an .xlsx or .csv of revision items`

// dateLayouts lists accepted /add date formats
var dateLayouts = []string{"2006-01-02 15:04", "2006-01-02"}

func parseDate(raw string) (*time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, true
		}
	}
	return nil, false
}

// handleUpdate routes one incoming Telegram update
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallback(update.CallbackQuery)
		return
	}
	if update.Message == nil {
		return
	}

	message := update.Message
	b.notifier.BindChat(message.Chat.ID)

	if message.Document != nil && b.awaitingImport[message.Chat.ID] {
		delete(b.awaitingImport, message.Chat.ID)
		b.handleImportDocument(ctx, message)
		return
	}
	if !message.IsCommand() {
		return
	}

	switch message.Command() {
	case "start":
		b.handleStart(ctx, message)
	case "help":
		b.reply(message.Chat.ID, helpText)
	case "add":
		b.handleAdd(ctx, message)
	case "list":
		b.handleList(ctx, message)
	case "due":
		b.handleDue(ctx, message)
	case "done":
		b.handleDone(ctx, message)
	case "remove":
		b.handleRemove(ctx, message)
	case "log":
		b.handleLog(ctx, message)
	case "sessions":
		b.handleSessions(ctx, message)
	case "stats":
		b.handleStats(ctx, message)
	case "notify":
		b.handleNotify(ctx, message)
	case "import":
		b.awaitingImport[message.Chat.ID] = true
		b.reply(message.Chat.ID, "Send me an .xlsx or .csv file with columns: subject, title, next review date, review count.")
	default:
		b.reply(message.Chat.ID, "Unknown command. Send /help for the list.")
	}
}

// handleCallback answers inline button presses; reminder activations
// are routed to the engine's activation callback
func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		log.Printf("Error answering callback: %v", err)
	}
	if b.notifier.HandleActivation(callback.Data) {
		return
	}
	log.Printf("Unhandled callback data: %s", callback.Data)
}

func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) {
	outcome := b.engine.RequestPermission()
	if outcome != reminder.OutcomeGranted {
		b.reply(message.Chat.ID, "Welcome to studyplan. Reminders could not be enabled; try /notify on later.")
		return
	}
	b.refreshSchedules(ctx)
	b.reply(message.Chat.ID, "Welcome to studyplan. Reminders are on.\n"+helpText)
}

func (b *Bot) handleAdd(ctx context.Context, message *tgbotapi.Message) {
	parts := strings.Split(message.CommandArguments(), "|")
	if len(parts) < 2 {
		b.reply(message.Chat.ID, "Usage: /add subject | title | [yyyy-mm-dd]")
		return
	}
	subjectName := strings.TrimSpace(parts[0])
	title := strings.TrimSpace(parts[1])
	if subjectName == "" || title == "" {
		b.reply(message.Chat.ID, "Both subject and title are required.")
		return
	}
	var nextReview *time.Time
	if len(parts) > 2 {
		parsed, ok := parseDate(parts[2])
		if !ok {
			b.reply(message.Chat.ID, "Could not read the date; use yyyy-mm-dd.")
			return
		}
		nextReview = parsed
	}

	subject, err := b.subjects.GetOrCreate(ctx, subjectName)
	if err != nil {
		log.Printf("Error creating subject: %v", err)
		b.reply(message.Chat.ID, "Something went wrong saving the subject.")
		return
	}
	item := &models.RevisionItem{
		SubjectID:    subject.ID,
		Title:        title,
		NextReviewAt: nextReview,
	}
	if err := b.revisions.Create(ctx, item); err != nil {
		log.Printf("Error creating revision item: %v", err)
		b.reply(message.Chat.ID, "Something went wrong saving the item.")
		return
	}

	b.engine.ScheduleReminder(item.ID, item.Title, item.NextReviewAt)
	b.refreshSchedules(ctx)
	b.reply(message.Chat.ID, fmt.Sprintf("Tracking %q under %s (id %d).", title, subject.Name, item.ID))
}

func (b *Bot) handleList(ctx context.Context, message *tgbotapi.Message) {
	items, err := b.revisions.All(ctx)
	if err != nil {
		log.Printf("Error listing revision items: %v", err)
		b.reply(message.Chat.ID, "Could not load your items.")
		return
	}
	if len(items) == 0 {
		b.reply(message.Chat.ID, "No revision items yet. Add one with /add.")
		return
	}
	var sb strings.Builder
	sb.WriteString("Your revision items:\n")
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("%d. %s (%s) — %s, %d reviews\n",
			item.ID, item.Title, item.SubjectName, describeDue(item.NextReviewAt), item.ReviewCount))
	}
	b.reply(message.Chat.ID, sb.String())
}

func describeDue(nextReview *time.Time) string {
	if nextReview == nil {
		return "due now"
	}
	if !nextReview.After(time.Now()) {
		return "overdue since " + nextReview.Format("2006-01-02 15:04")
	}
	return "due " + nextReview.Format("2006-01-02 15:04")
}

func (b *Bot) handleDue(ctx context.Context, message *tgbotapi.Message) {
	items, err := b.revisions.All(ctx)
	if err != nil {
		log.Printf("Error listing revision items: %v", err)
		b.reply(message.Chat.ID, "Could not load your items.")
		return
	}
	overdue := b.engine.CheckOverdueNow(items)
	if len(overdue) == 0 {
		b.reply(message.Chat.ID, "Nothing is due right now.")
		return
	}
	if len(overdue) > b.config.DueListLimit {
		overdue = overdue[:b.config.DueListLimit]
	}
	var sb strings.Builder
	sb.WriteString("Due for review:\n")
	for _, item := range overdue {
		sb.WriteString(fmt.Sprintf("%d. %s (%s)\n", item.ID, item.Title, item.SubjectName))
	}
	b.reply(message.Chat.ID, sb.String())
}

func (b *Bot) handleDone(ctx context.Context, message *tgbotapi.Message) {
	id, err := strconv.ParseInt(strings.TrimSpace(message.CommandArguments()), 10, 64)
	if err != nil {
		b.reply(message.Chat.ID, "Usage: /done <id>")
		return
	}
	item, err := b.revisions.GetByID(ctx, id)
	if err != nil {
		b.reply(message.Chat.ID, fmt.Sprintf("No revision item with id %d.", id))
		return
	}

	// The interval is derived from the count before this completion,
	// then the count is bumped exactly once
	delay := reminder.NextDelay(item.ReviewCount)
	next := time.Now().Add(delay)
	if err := b.revisions.CompleteReview(ctx, item.ID, next); err != nil {
		log.Printf("Error completing review: %v", err)
		b.reply(message.Chat.ID, "Something went wrong recording the review.")
		return
	}

	b.engine.ScheduleReminder(item.ID, item.Title, &next)
	b.refreshSchedules(ctx)
	b.reply(message.Chat.ID, fmt.Sprintf("Nice work. %q comes back on %s.",
		item.Title, next.Format("2006-01-02 15:04")))
}

func (b *Bot) handleRemove(ctx context.Context, message *tgbotapi.Message) {
	id, err := strconv.ParseInt(strings.TrimSpace(message.CommandArguments()), 10, 64)
	if err != nil {
		b.reply(message.Chat.ID, "Usage: /remove <id>")
		return
	}
	if err := b.revisions.Delete(ctx, id); err != nil {
		log.Printf("Error deleting revision item: %v", err)
		b.reply(message.Chat.ID, "Something went wrong removing the item.")
		return
	}
	b.engine.CancelReminder(id)
	b.refreshSchedules(ctx)
	b.reply(message.Chat.ID, fmt.Sprintf("Removed item %d.", id))
}

func (b *Bot) handleLog(ctx context.Context, message *tgbotapi.Message) {
	parts := strings.Split(message.CommandArguments(), "|")
	if len(parts) < 2 {
		b.reply(message.Chat.ID, "Usage: /log subject | minutes | [notes]")
		return
	}
	subjectName := strings.TrimSpace(parts[0])
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || minutes <= 0 || subjectName == "" {
		b.reply(message.Chat.ID, "Usage: /log subject | minutes | [notes]")
		return
	}
	notes := ""
	if len(parts) > 2 {
		notes = strings.TrimSpace(parts[2])
	}

	subject, err := b.subjects.GetOrCreate(ctx, subjectName)
	if err != nil {
		log.Printf("Error creating subject: %v", err)
		b.reply(message.Chat.ID, "Something went wrong saving the subject.")
		return
	}
	session := &models.StudySession{
		SubjectID: subject.ID,
		StartedAt: time.Now().Add(-time.Duration(minutes) * time.Minute),
		Minutes:   minutes,
		Notes:     notes,
	}
	if err := b.sessions.Create(ctx, session); err != nil {
		log.Printf("Error logging session: %v", err)
		b.reply(message.Chat.ID, "Something went wrong logging the session.")
		return
	}
	b.reply(message.Chat.ID, fmt.Sprintf("Logged %d minutes of %s.", minutes, subject.Name))
}

func (b *Bot) handleSessions(ctx context.Context, message *tgbotapi.Message) {
	sessions, err := b.sessions.ListRecent(ctx, b.config.SessionListLimit)
	if err != nil {
		log.Printf("Error listing sessions: %v", err)
		b.reply(message.Chat.ID, "Could not load your sessions.")
		return
	}
	if len(sessions) == 0 {
		b.reply(message.Chat.ID, "No study sessions logged yet. Use /log.")
		return
	}
	var sb strings.Builder
	sb.WriteString("Recent study sessions:\n")
	for _, s := range sessions {
		line := fmt.Sprintf("%s — %d min of %s", s.StartedAt.Format("Jan 2 15:04"), s.Minutes, s.SubjectName)
		if s.Notes != "" {
			line += " (" + s.Notes + ")"
		}
		sb.WriteString(line + "\n")
	}
	b.reply(message.Chat.ID, sb.String())
}

func (b *Bot) handleStats(ctx context.Context, message *tgbotapi.Message) {
	stats, err := b.stats.PerSubject(ctx)
	if err != nil {
		log.Printf("Error loading statistics: %v", err)
		b.reply(message.Chat.ID, "Could not load your statistics.")
		return
	}
	if len(stats) == 0 {
		b.reply(message.Chat.ID, "Nothing tracked yet.")
		return
	}
	var sb strings.Builder
	sb.WriteString("Progress per subject:\n")
	for _, s := range stats {
		sb.WriteString(fmt.Sprintf("%s: %d items, %d reviews done, %d minutes studied\n",
			s.SubjectName, s.TotalItems, s.CompletedReviews, s.MinutesStudied))
	}
	sb.WriteString(fmt.Sprintf("\nPending reminders: %d", b.engine.PendingCount()))
	b.reply(message.Chat.ID, sb.String())
}

func (b *Bot) handleNotify(ctx context.Context, message *tgbotapi.Message) {
	switch strings.TrimSpace(strings.ToLower(message.CommandArguments())) {
	case "on":
		if b.engine.RequestPermission() != reminder.OutcomeGranted {
			b.reply(message.Chat.ID, "Could not enable reminders, try again later.")
			return
		}
		b.refreshSchedules(ctx)
		b.reply(message.Chat.ID, "Reminders are on.")
	case "off":
		if err := database.SetNotificationsEnabled(ctx, message.Chat.ID, false); err != nil {
			log.Printf("Error disabling notifications: %v", err)
			b.reply(message.Chat.ID, "Could not disable reminders, try again later.")
			return
		}
		b.engine.StopAllReminders()
		b.reply(message.Chat.ID, "Reminders are off.")
	default:
		b.reply(message.Chat.ID, fmt.Sprintf("Reminders are currently %s. Use /notify on or /notify off.",
			b.engine.CurrentPermission()))
	}
}

func (b *Bot) handleImportDocument(ctx context.Context, message *tgbotapi.Message) {
	doc := message.Document
	ext := strings.ToLower(filepath.Ext(doc.FileName))
	if ext != ".xlsx" && ext != ".csv" {
		b.reply(message.Chat.ID, "Only .xlsx and .csv files are supported.")
		return
	}

	url, err := b.api.GetFileDirectURL(doc.FileID)
	if err != nil {
		log.Printf("Error resolving file URL: %v", err)
		b.reply(message.Chat.ID, "Could not download the file.")
		return
	}
	path, err := downloadToTemp(url, ext)
	if err != nil {
		log.Printf("Error downloading import file: %v", err)
		b.reply(message.Chat.ID, "Could not download the file.")
		return
	}
	defer os.Remove(path)

	config := excel.DefaultImportConfig()
	config.FilePath = path
	result, err := excel.ImportItems(ctx, config)
	if err != nil {
		log.Printf("Error importing items: %v", err)
		b.reply(message.Chat.ID, "The import failed.")
		return
	}

	b.refreshSchedules(ctx)
	summary := fmt.Sprintf("Imported %d rows: %d created, %d updated, %d skipped.",
		result.TotalProcessed, result.Created, result.Updated, result.Skipped)
	if len(result.Errors) > 0 {
		summary += fmt.Sprintf("\n%d rows had problems, e.g. %s", len(result.Errors), result.Errors[0])
	}
	b.reply(message.Chat.ID, summary)
}

func downloadToTemp(url, ext string) (string, error) {
	resp, err := http.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	f, err := os.CreateTemp("", "studyplan-import-*"+ext)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
