package telegram

import (
	"fmt"
	"strings"

	"go-emprego-automation/internal/scraper"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Bot struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:    api,
		chatID: chatID,
	}, nil
}

func (b *Bot) escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
		")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
		"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
		"}", "\\}", ".", "\\.", "!", "\\!",
	)
	return replacer.Replace(text)
}

func (b *Bot) SendJob(job scraper.Job) error {
	//build message chunks
	msgText := fmt.Sprintf("💼 *%s*\n", b.escapeMarkdown(job.Title))
	if job.Company != "" {
		msgText += fmt.Sprintf("🏢 %s\n", b.escapeMarkdown(job.Company))
	}

	loc := job.Location
	if loc == "" {
		loc = "N/A"
	}
	msgText += fmt.Sprintf("📍 %s\n", b.escapeMarkdown(loc))

	if job.Category != "" {
		msgText += fmt.Sprintf("🗂 %s\n", b.escapeMarkdown(job.Category))
	}

	if job.PublicationDate != "" {
		msgText += fmt.Sprintf("📅 Publicado: %s\n", b.escapeMarkdown(job.PublicationDate))
	}

	if job.ExpiringDate != "" {
		msgText += fmt.Sprintf("⏳ Expira: %s\n", b.escapeMarkdown(job.ExpiringDate))
	}

	msgText += fmt.Sprintf("🔗 [Ver vaga](%s)\n", job.SourceURL)

	//create inline keyboard
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🔗 Ver vaga", job.SourceURL),
		),
	)

	msg := tgbotapi.NewMessage(b.chatID, msgText)
	msg.ParseMode = "MarkdownV2"
	msg.ReplyMarkup = keyboard

	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) SendError(err error) error {
	msg := tgbotapi.NewMessage(b.chatID, fmt.Sprintf("❌ Error: %v", err))
	_, sendErr := b.api.Send(msg)
	return sendErr
}

func (b *Bot) SendStatus(message string) error {
	msg := tgbotapi.NewMessage(b.chatID, "ℹ️ "+message)
	_, err := b.api.Send(msg)
	return err
}
