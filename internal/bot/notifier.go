package bot

import (
	"fmt"
	"log"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/studyplan/internal/reminder"
)

// TelegramNotifier surfaces reminder alerts as chat messages. A later
// alert with the same correlation tag deletes the earlier message
// first, so at most one alert per item is ever visible in the chat.
type TelegramNotifier struct {
	api *tgbotapi.BotAPI

	mu       sync.Mutex
	chatID   int64
	messages map[string]int    // correlation tag -> message id
	actions  map[string]func() // callback data -> activation callback
}

// NewTelegramNotifier creates a notifier bound to nothing; alerts fail
// until a chat talks to the bot and BindChat is called
func NewTelegramNotifier(api *tgbotapi.BotAPI) *TelegramNotifier {
	return &TelegramNotifier{
		api:      api,
		messages: make(map[string]int),
		actions:  make(map[string]func()),
	}
}

// BindChat points alerts at the chat that talked to the bot
func (n *TelegramNotifier) BindChat(chatID int64) {
	n.mu.Lock()
	n.chatID = chatID
	n.mu.Unlock()
}

func (n *TelegramNotifier) boundChat() int64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.chatID
}

// Show implements reminder.Notifier
func (n *TelegramNotifier) Show(note reminder.Notification) (reminder.Handle, error) {
	chatID := n.boundChat()
	if chatID == 0 {
		return nil, fmt.Errorf("no chat bound yet")
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("🔔 %s\n%s", note.Title, note.Body))
	if note.OnActivate != nil {
		data := "activate:" + note.Tag
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Review now", data),
			),
		)
		n.mu.Lock()
		n.actions[data] = note.OnActivate
		n.mu.Unlock()
	}

	// Replace any visible alert carrying the same tag
	n.mu.Lock()
	prev, hadPrev := n.messages[note.Tag]
	n.mu.Unlock()
	if hadPrev {
		if _, err := n.api.Request(tgbotapi.NewDeleteMessage(chatID, prev)); err != nil {
			log.Printf("Error deleting superseded alert: %v", err)
		}
	}

	sent, err := n.api.Send(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to send reminder: %v", err)
	}

	n.mu.Lock()
	n.messages[note.Tag] = sent.MessageID
	n.mu.Unlock()

	return &messageHandle{
		notifier:  n,
		tag:       note.Tag,
		chatID:    chatID,
		messageID: sent.MessageID,
	}, nil
}

// HandleActivation runs the callback registered for an alert button and
// reports whether the data belonged to one
func (n *TelegramNotifier) HandleActivation(data string) bool {
	n.mu.Lock()
	fn, ok := n.actions[data]
	if ok {
		delete(n.actions, data)
	}
	n.mu.Unlock()
	if !ok {
		return false
	}
	fn()
	return true
}

// messageHandle retires one sent alert
type messageHandle struct {
	notifier  *TelegramNotifier
	tag       string
	chatID    int64
	messageID int
}

// Dismiss deletes the alert message unless a newer alert for the same
// tag already replaced it
func (h *messageHandle) Dismiss() {
	h.notifier.mu.Lock()
	cur, ok := h.notifier.messages[h.tag]
	current := ok && cur == h.messageID
	if current {
		delete(h.notifier.messages, h.tag)
	}
	h.notifier.mu.Unlock()

	if !current {
		return
	}
	if _, err := h.notifier.api.Request(tgbotapi.NewDeleteMessage(h.chatID, h.messageID)); err != nil {
		log.Printf("Error retiring alert: %v", err)
	}
}
