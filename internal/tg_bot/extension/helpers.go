package extension

import (
	"fmt"
	"math"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"community_pledge_system/internal"
	"community_pledge_system/internal/store/models"
)

const progressBarSegments = 10

func DefaultErrorMessage(chatID int64) tgbotapi.Chattable {
	return ErrorMessage(chatID, "Something went wrong, please try again.")
}

func ErrorMessage(chatID int64, text string) tgbotapi.Chattable {
	return tgbotapi.NewMessage(chatID, text)
}

// Markdown builds a message rendered with legacy markdown, which is what the
// mention and link helpers emit.
func Markdown(chatID int64, text string) tgbotapi.MessageConfig {
	message := tgbotapi.NewMessage(chatID, text)
	message.ParseMode = tgbotapi.ModeMarkdown
	message.DisableWebPagePreview = true
	return message
}

func Money(amount int) string {
	return fmt.Sprintf("$%d", amount)
}

func BoolEmoji(b bool) string {
	if b {
		return "✅"
	}
	return "❌"
}

// ProgressBar renders funding progress as a fixed-width bar. Any progress at
// all shows at least one filled segment, and the bar only fills completely
// when the target is effectively reached.
func ProgressBar(current, total int) string {
	filled := 0
	if current > 0 && total > 0 {
		percent := 100 * float64(current) / float64(total)
		perSegment := 100.0 / progressBarSegments

		switch {
		case percent < perSegment:
			filled = 1
		case 100-percent < perSegment:
			filled = progressBarSegments
		default:
			filled = int(math.Round(percent / perSegment))
		}
	}

	return strings.Repeat("█", filled) + strings.Repeat("░", progressBarSegments-filled)
}

// RenderProject is the compact listing card used in channel promotions and
// project lists.
func RenderProject(p *models.Project) string {
	text := fmt.Sprintf("*%s*\n", p.Title)
	text += fmt.Sprintf("%s %s/%s | %d backers\n",
		ProgressBar(p.PledgeTotal(), p.Total), Money(p.PledgeTotal()), Money(p.Total), p.Backers())
	text += p.Description + "\n"
	text += fmt.Sprintf("*Created by*: %s *Last updated by*: %s",
		internal.Mention(p.CreatedBy), internal.Mention(p.LastUpdatedBy))

	if p.ImageURL != "" {
		text += fmt.Sprintf("\n[Project image](%s)", p.ImageURL)
	}

	return text
}

// RenderProjectDetails is the admin view: lifecycle stamps plus the full
// pledge breakdown. Donor information is confidential, so this never goes to
// a public surface.
func RenderProjectDetails(p *models.Project) string {
	text := fmt.Sprintf("*%s*\n\n", p.Title)

	text += fmt.Sprintf("Approved: %s", BoolEmoji(p.Approved))
	if p.Approved && p.ApprovedAt != 0 {
		text += fmt.Sprintf(" (%s)", internal.FormatUnix(p.ApprovedAt))
	}
	text += "\n"

	text += fmt.Sprintf("Funded: %s", BoolEmoji(p.Funded()))
	if p.Funded() && p.FundedAt != 0 {
		text += fmt.Sprintf(" (%s)", internal.FormatUnix(p.FundedAt))
	}
	text += "\n"

	text += fmt.Sprintf("Invoices sent: %s", BoolEmoji(p.InvoicesSentAt != 0))
	if p.InvoicesSentAt != 0 {
		text += fmt.Sprintf(" (%s)", internal.FormatUnix(p.InvoicesSentAt))
	}
	text += "\n"

	text += fmt.Sprintf("DGR: %s\n", BoolEmoji(p.DGR))

	text += "\nPledges:\n"
	pledgers := make([]string, 0, len(p.Pledges))
	for member := range p.Pledges {
		pledgers = append(pledgers, member)
	}
	sort.Strings(pledgers)
	for _, member := range pledgers {
		text += fmt.Sprintf("• %s: %s\n", internal.Mention(member), Money(p.Pledges[member]))
	}

	text += fmt.Sprintf("\nTotal: %s/%s", Money(p.PledgeTotal()), Money(p.Total))
	return text
}

// InlineButtons lays out one callback button per row with data "action:value".
func InlineButtons(buttons ...tgbotapi.InlineKeyboardButton) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, button := range buttons {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func CallbackButton(label, action, value string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(label, action+":"+value)
}
