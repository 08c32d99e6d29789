package bot

import (
	"context"
	"fmt"
	"sync"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sirupsen/logrus"

	"repodeck/internal/api"
	"repodeck/internal/config"
	"repodeck/internal/scraper"
	"repodeck/internal/storage"
	"repodeck/internal/view"
)

// Handler serves one repository screen per Telegram chat.
type Handler struct {
	bot    *tgbot.Bot
	client api.Client
	drafts storage.DraftStore
	titles scraper.TitleFetcher
	log    logrus.FieldLogger

	mu       sync.Mutex
	sessions map[int64]*session
}

// session is the screen of one chat. It is mounted once, on first use.
type session struct {
	screen  *view.Screen
	mounted sync.Once
}

// NewHandler creates the bot and registers its handlers.
func NewHandler(cfg config.Config, client api.Client, drafts storage.DraftStore, titles scraper.TitleFetcher, logger logrus.FieldLogger) (*Handler, error) {
	h := newHandler(client, drafts, titles, logger)

	b, err := tgbot.New(cfg.TelegramBotToken, tgbot.WithDefaultHandler(h.messageHandler))
	if err != nil {
		h.log.WithError(err).Error("Failed to create Telegram bot instance")
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	h.bot = b
	h.registerHandlers()

	h.log.Info("Telegram bot handler initialized")
	return h, nil
}

func newHandler(client api.Client, drafts storage.DraftStore, titles scraper.TitleFetcher, logger logrus.FieldLogger) *Handler {
	return &Handler{
		client:   client,
		drafts:   drafts,
		titles:   titles,
		log:      logger.WithField("component", "bot_handler"),
		sessions: make(map[int64]*session),
	}
}

// registerHandlers wires the inline keyboard callbacks. Text messages go
// through the default handler.
func (h *Handler) registerHandlers() {
	h.bot.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, cmdLike+callbackSep, tgbot.MatchTypePrefix, h.callbackHandler)
	h.bot.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, cmdRemove+callbackSep, tgbot.MatchTypePrefix, h.callbackHandler)
}

// Start begins polling for updates. It blocks until ctx is cancelled.
func (h *Handler) Start(ctx context.Context) {
	h.log.Info("Starting Telegram bot polling...")
	h.bot.Start(ctx)
	h.log.Info("Telegram bot polling stopped.")
}

// screen returns the chat's screen, creating and mounting it on first use.
func (h *Handler) screen(ctx context.Context, chatID int64) *view.Screen {
	h.mu.Lock()
	s, ok := h.sessions[chatID]
	if !ok {
		log := h.log.WithField("chat_id", chatID)
		s = &session{screen: view.NewScreen(h.client, view.NewLogReporter(log), log)}
		h.sessions[chatID] = s
	}
	h.mu.Unlock()

	s.mounted.Do(func() {
		h.restoreDraft(ctx, chatID, s.screen)
		s.screen.Mount(ctx)
	})
	return s.screen
}

func (h *Handler) restoreDraft(ctx context.Context, chatID int64, screen *view.Screen) {
	if h.drafts == nil {
		return
	}
	draft, ok, err := h.drafts.GetDraft(ctx, chatID)
	if err != nil {
		h.log.WithError(err).WithField("chat_id", chatID).Warn("Failed to restore draft")
		return
	}
	if !ok {
		return
	}
	screen.SetTitle(draft.Title)
	screen.SetURL(draft.URL)
	screen.SetTechs(draft.Techs)
}

// persistDraft stores the current draft, or deletes it once it is empty.
func (h *Handler) persistDraft(ctx context.Context, chatID int64, screen *view.Screen) {
	if h.drafts == nil {
		return
	}
	draft := screen.State().Draft

	var err error
	if draft.IsEmpty() {
		err = h.drafts.DeleteDraft(ctx, chatID)
	} else {
		err = h.drafts.SaveDraft(ctx, chatID, draft)
	}
	if err != nil {
		h.log.WithError(err).WithField("chat_id", chatID).Warn("Failed to persist draft")
	}
}

// messageHandler handles every text message.
func (h *Handler) messageHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}
	chatID := update.Message.Chat.ID
	cmd, arg := parseCommand(update.Message.Text)

	h.log.WithFields(logrus.Fields{
		"chat_id": chatID,
		"command": cmd,
	}).Debug("Received message")

	h.send(ctx, b, chatID, h.execute(ctx, chatID, cmd, arg))
}

// callbackHandler handles the like/remove buttons.
func (h *Handler) callbackHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	q := update.CallbackQuery
	if q == nil {
		return
	}
	if _, err := b.AnswerCallbackQuery(ctx, &tgbot.AnswerCallbackQueryParams{CallbackQueryID: q.ID}); err != nil {
		h.log.WithError(err).Warn("Failed to answer callback query")
	}

	chatID := callbackChatID(q)
	resp, ok := h.dispatchCallback(ctx, chatID, q.Data)
	if !ok {
		h.log.WithField("data", q.Data).Warn("Ignoring unknown callback data")
		return
	}
	h.send(ctx, b, chatID, resp)
}

// dispatchCallback runs the command encoded in a button's callback data.
func (h *Handler) dispatchCallback(ctx context.Context, chatID int64, data string) (response, bool) {
	cmd, id, ok := parseCallback(data)
	if !ok {
		return response{}, false
	}
	return h.execute(ctx, chatID, cmd, id.String()), true
}

func callbackChatID(q *models.CallbackQuery) int64 {
	if q.Message.Message != nil {
		return q.Message.Message.Chat.ID
	}
	if q.Message.InaccessibleMessage != nil {
		return q.Message.InaccessibleMessage.Chat.ID
	}
	return q.From.ID
}

// send delivers a response: an optional notice followed by the rendered screen.
func (h *Handler) send(ctx context.Context, b *tgbot.Bot, chatID int64, resp response) {
	log := h.log.WithField("chat_id", chatID)

	if resp.notice != "" {
		if _, err := b.SendMessage(ctx, &tgbot.SendMessageParams{ChatID: chatID, Text: resp.notice}); err != nil {
			log.WithError(err).Error("Failed to send notice")
		}
	}
	if !resp.showScreen {
		return
	}

	for i, msg := range renderScreen(h.screen(ctx, chatID).State()) {
		params := &tgbot.SendMessageParams{ChatID: chatID, Text: msg.text}
		if msg.keyboard != nil {
			params.ReplyMarkup = msg.keyboard
		}
		if _, err := b.SendMessage(ctx, params); err != nil {
			log.WithError(err).WithField("part", i).Error("Failed to send screen")
			return
		}
	}
}
