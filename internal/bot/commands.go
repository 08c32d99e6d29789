package bot

import (
	"context"
	"strings"

	"repodeck/internal/domain"
)

const (
	cmdStart     = "start"
	cmdHelp      = "help"
	cmdList      = "list"
	cmdReload    = "reload"
	cmdTitle     = "title"
	cmdURL       = "url"
	cmdTechs     = "techs"
	cmdAutoTitle = "autotitle"
	cmdAdd       = "add"
	cmdLike      = "like"
	cmdRemove    = "remove"

	callbackSep = ":"
)

const welcomeMessage = "Welcome to repodeck! Fill the form with /title, /url and /techs, then send /add. " +
	"Use the buttons under the list to like or remove a repository."

const helpMessage = `/list - show the repositories
/reload - load the repositories again
/title <text> - set the title
/url <link> - set the url
/techs <a,b,c> - set the comma-separated techs
/autotitle - use the page title of the url
/add - create the repository`

// response describes what a command sends back to the chat.
type response struct {
	notice     string
	showScreen bool
}

// parseCommand splits "/cmd@bot argument" into its command and raw argument.
// Text that is not a command yields an empty command.
func parseCommand(text string) (cmd, arg string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	head, rest, _ := strings.Cut(text[1:], " ")
	head, _, _ = strings.Cut(head, "@")
	return strings.ToLower(head), strings.TrimSpace(rest)
}

// parseCallback decodes "like:<id>" and "remove:<id>".
func parseCallback(data string) (cmd string, id domain.ID, ok bool) {
	cmd, rawID, found := strings.Cut(data, callbackSep)
	if !found || rawID == "" {
		return "", "", false
	}
	if cmd != cmdLike && cmd != cmdRemove {
		return "", "", false
	}
	return cmd, domain.ID(rawID), true
}

// execute runs one command against the chat's screen.
func (h *Handler) execute(ctx context.Context, chatID int64, cmd, arg string) response {
	switch cmd {
	case cmdStart:
		h.screen(ctx, chatID)
		return response{notice: welcomeMessage, showScreen: true}
	case cmdList:
		return response{showScreen: true}
	case cmdReload:
		h.screen(ctx, chatID).Mount(ctx)
		return response{showScreen: true}
	case cmdTitle:
		screen := h.screen(ctx, chatID)
		screen.SetTitle(arg)
		h.persistDraft(ctx, chatID, screen)
		return response{showScreen: true}
	case cmdURL:
		screen := h.screen(ctx, chatID)
		screen.SetURL(arg)
		h.persistDraft(ctx, chatID, screen)
		return response{showScreen: true}
	case cmdTechs:
		screen := h.screen(ctx, chatID)
		screen.SetTechs(arg)
		h.persistDraft(ctx, chatID, screen)
		return response{showScreen: true}
	case cmdAutoTitle:
		return h.autoTitle(ctx, chatID)
	case cmdAdd:
		screen := h.screen(ctx, chatID)
		screen.Add(ctx)
		h.persistDraft(ctx, chatID, screen)
		return response{showScreen: true}
	case cmdLike:
		h.screen(ctx, chatID).Like(ctx, domain.ID(arg))
		return response{showScreen: true}
	case cmdRemove:
		h.screen(ctx, chatID).Remove(ctx, domain.ID(arg))
		return response{showScreen: true}
	default:
		return response{notice: helpMessage}
	}
}

func (h *Handler) autoTitle(ctx context.Context, chatID int64) response {
	if h.titles == nil {
		return response{notice: "Title suggestions are not available."}
	}
	screen := h.screen(ctx, chatID)
	url := screen.State().Draft.URL
	if url == "" {
		return response{notice: "Set a url first with /url <link>."}
	}

	title, err := h.titles.FetchTitle(ctx, url)
	if err != nil {
		h.log.WithError(err).WithField("chat_id", chatID).Warn("Failed to fetch page title")
		return response{notice: "Could not read a title from that url."}
	}
	screen.SetTitle(title)
	h.persistDraft(ctx, chatID, screen)
	return response{showScreen: true}
}
