// Package telegram bridges urgent admin events to a Telegram chat,
// giving on-call admins an out-of-band channel beyond in-app
// notifications. The bridge is best-effort: a failed send is logged
// and never affects the workflow that produced the event.
package telegram

import (
	"log"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// AlertBot posts urgent alerts to a configured admin chat. It
// implements notify.UrgentSink.
type AlertBot struct {
	BotAPI      *tgbotapi.BotAPI
	AdminChatID int64
}

// NewAlertBot creates the bridge. It fails when the token is invalid
// or the chat id does not parse; callers treat an absent token as
// "bridge disabled" before getting here.
func NewAlertBot(token, adminChatID string) (*AlertBot, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false

	chatID, err := strconv.ParseInt(adminChatID, 10, 64)
	if err != nil {
		return nil, err
	}

	log.Printf("INFO: Telegram alert bridge authorized on account %s", bot.Self.UserName)
	return &AlertBot{BotAPI: bot, AdminChatID: chatID}, nil
}

// SendUrgent posts one urgent event to the admin chat.
func (b *AlertBot) SendUrgent(title, message string) {
	msg := tgbotapi.NewMessage(b.AdminChatID, title+"\n\n"+message)
	if _, err := b.BotAPI.Send(msg); err != nil {
		log.Printf("ERROR: Failed to send telegram alert: %v", err)
	}
}
