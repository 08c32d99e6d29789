package bot

import (
	"strings"
	"unicode/utf8"

	"github.com/go-telegram/bot/models"

	"repodeck/internal/domain"
	"repodeck/internal/view"
)

const (
	// maxCallbackData is Telegram's limit for inline button payloads.
	maxCallbackData = 64
	// maxMessageLen is Telegram's limit for a message text, in characters.
	maxMessageLen = 4096
)

const cardSep = "\n\n"

// screenMessage is one Telegram message of a rendered screen.
type screenMessage struct {
	text     string
	keyboard *models.InlineKeyboardMarkup
}

// renderScreen projects the screen state into messages: the draft first,
// then the cards packed into as few messages as the length limit allows.
// Each card's buttons travel in the message that shows the card.
func renderScreen(st view.State) []screenMessage {
	header := "Add New Repository\n" + view.DraftSummary(st.Draft)
	msgs := []screenMessage{{text: clip(header)}}

	if len(st.Repositories) == 0 {
		msgs[0].text = clip(header + cardSep + "No repositories yet.")
		return msgs
	}

	var (
		b    strings.Builder
		n    int
		rows [][]models.InlineKeyboardButton
	)
	flush := func() {
		if n == 0 {
			return
		}
		msg := screenMessage{text: b.String()}
		if len(rows) > 0 {
			msg.keyboard = &models.InlineKeyboardMarkup{InlineKeyboard: rows}
		}
		msgs = append(msgs, msg)
		b.Reset()
		n, rows = 0, nil
	}

	for _, r := range st.Repositories {
		card := clip(view.Card(r))
		size := utf8.RuneCountInString(card)
		if n > 0 && n+utf8.RuneCountInString(cardSep)+size > maxMessageLen {
			flush()
		}
		if n > 0 {
			b.WriteString(cardSep)
			n += utf8.RuneCountInString(cardSep)
		}
		b.WriteString(card)
		n += size

		if row, ok := actionRow(r); ok {
			rows = append(rows, row)
		}
	}
	flush()
	return msgs
}

// clip cuts text down to the message limit.
func clip(text string) string {
	if utf8.RuneCountInString(text) <= maxMessageLen {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxMessageLen-1]) + "…"
}

// actionRow builds the like/remove buttons. Ids too long for a callback
// payload get no buttons.
func actionRow(r domain.Repository) ([]models.InlineKeyboardButton, bool) {
	like := cmdLike + callbackSep + r.ID.String()
	remove := cmdRemove + callbackSep + r.ID.String()
	if len(like) > maxCallbackData || len(remove) > maxCallbackData {
		return nil, false
	}
	return []models.InlineKeyboardButton{
		{Text: "Like " + r.Title, CallbackData: like},
		{Text: "Remove", CallbackData: remove},
	}, true
}
