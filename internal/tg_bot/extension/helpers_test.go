package extension

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"community_pledge_system/internal"
	"community_pledge_system/internal/store/models"
)

func TestProgressBar(t *testing.T) {
	assert.Equal(t, strings.Repeat("░", 10), ProgressBar(0, 500))

	// Any progress shows at least one segment.
	assert.Equal(t, "█"+strings.Repeat("░", 9), ProgressBar(1, 500))

	assert.Equal(t, strings.Repeat("█", 5)+strings.Repeat("░", 5), ProgressBar(250, 500))

	assert.Equal(t, strings.Repeat("█", 9)+"░", ProgressBar(440, 500))

	// The last segment fills once the remaining gap drops below one segment.
	assert.Equal(t, strings.Repeat("█", 10), ProgressBar(460, 500))
	assert.Equal(t, strings.Repeat("█", 10), ProgressBar(500, 500))
	assert.Equal(t, strings.Repeat("█", 10), ProgressBar(600, 500))
}

func TestMoneyAndBoolEmoji(t *testing.T) {
	assert.Equal(t, "$250", Money(250))
	assert.Equal(t, "✅", BoolEmoji(true))
	assert.Equal(t, "❌", BoolEmoji(false))
}

func TestRenderProject(t *testing.T) {
	p := &models.Project{
		ID:            "abc",
		Title:         "Laser cutter",
		Description:   "A big laser.",
		Total:         500,
		Pledges:       map[string]int{"100": 100, "200": 150},
		CreatedBy:     "100",
		LastUpdatedBy: "200",
	}

	text := RenderProject(p)
	assert.Contains(t, text, "*Laser cutter*")
	assert.Contains(t, text, "$250/$500 | 2 backers")
	assert.Contains(t, text, "A big laser.")
	assert.Contains(t, text, "[member](tg://user?id=100)")
	assert.NotContains(t, text, "Project image")

	p.ImageURL = "https://example.org/laser.jpg"
	assert.Contains(t, RenderProject(p), "[Project image](https://example.org/laser.jpg)")
}

func TestRenderProjectDetails(t *testing.T) {
	p := &models.Project{
		ID:         "abc",
		Title:      "Laser cutter",
		Total:      500,
		Approved:   true,
		ApprovedAt: 1700000000,
		DGR:        true,
		Pledges:    map[string]int{"200": 150, "100": 100},
	}

	text := RenderProjectDetails(p)
	assert.Contains(t, text, "Approved: ✅ ("+internal.FormatUnix(1700000000)+")")
	assert.Contains(t, text, "Funded: ❌")
	assert.Contains(t, text, "Invoices sent: ❌")
	assert.Contains(t, text, "DGR: ✅")
	assert.Contains(t, text, "Total: $250/$500")

	// Pledges listed in stable member order.
	first := strings.Index(text, "tg://user?id=100")
	second := strings.Index(text, "tg://user?id=200")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	assert.Less(t, first, second)
}

func TestInlineButtons(t *testing.T) {
	markup := InlineButtons(
		CallbackButton("Approve project", "approve", "abc"),
		CallbackButton("Approve + DGR", "approve_as_dgr", "abc"),
	)

	require.Len(t, markup.InlineKeyboard, 2)
	require.Len(t, markup.InlineKeyboard[0], 1)
	assert.Equal(t, "Approve project", markup.InlineKeyboard[0][0].Text)
	assert.Equal(t, "approve:abc", *markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "approve_as_dgr:abc", *markup.InlineKeyboard[1][0].CallbackData)
}
