package telegram

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"jobscout/internal/models"
)

// topJobsInReport caps how many jobs the run summary pushes to the chat.
const topJobsInReport = 5

type Bot struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
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

func (b *Bot) SendJob(job models.ScoredJob) error {
	//build message chunks
	msgText := fmt.Sprintf("💼 *%s*\n", b.escapeMarkdown(job.Title))
	msgText += fmt.Sprintf("🏢 %s\n", b.escapeMarkdown(job.Company))

	loc := job.Location
	if loc == "" {
		loc = "N/A"
	}
	msgText += fmt.Sprintf("📍 %s\n", b.escapeMarkdown(loc))

	if job.Salary != "" {
		msgText += fmt.Sprintf("💰 %s\n", b.escapeMarkdown(job.Salary))
	}

	if job.Freshness != "" {
		msgText += fmt.Sprintf("📅 %s", b.escapeMarkdown(job.Freshness))
		if job.DaysSincePosted != nil {
			msgText += b.escapeMarkdown(fmt.Sprintf(" (%d days ago)", *job.DaysSincePosted))
		}
		msgText += "\n"
	}

	if job.Deadline != "" {
		msgText += fmt.Sprintf("⏳ Deadline: %s\n", b.escapeMarkdown(job.Deadline))
	}

	msgText += fmt.Sprintf("🎯 Score: %d/100", job.PriorityScore)
	msgText += b.escapeMarkdown(fmt.Sprintf(" (recency %d, company %d, salary %d, skills %d)\n",
		job.Breakdown.Recency, job.Breakdown.Company, job.Breakdown.Salary, job.Breakdown.Skills))
	msgText += fmt.Sprintf("🔖 Source: %s\n", b.escapeMarkdown(job.Source))

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🔗 View Job", job.URL),
		),
	)

	msg := tgbotapi.NewMessage(b.chatID, msgText)
	msg.ParseMode = "MarkdownV2"
	msg.ReplyMarkup = keyboard

	_, err := b.api.Send(msg)
	return err
}

// SendRunReport pushes a per-run summary followed by the top ranked jobs.
func (b *Bot) SendRunReport(newJobs []models.ScoredJob, scraped, filtered int) error {
	summary := fmt.Sprintf("🕷️ Scrape finished: %d scraped, %d passed filters, %d new", scraped, filtered, len(newJobs))
	if err := b.SendStatus(summary); err != nil {
		return err
	}

	top := newJobs
	if len(top) > topJobsInReport {
		top = top[:topJobsInReport]
	}
	for _, job := range top {
		if err := b.SendJob(job); err != nil {
			return fmt.Errorf("failed to send job %s: %w", job.URL, err)
		}
		//1 second delay to avoid 429
		time.Sleep(1 * time.Second)
	}
	return nil
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
