// Package console drives a repository screen from a line-oriented terminal session.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sirupsen/logrus"

	"repodeck/internal/domain"
	"repodeck/internal/view"
)

const prompt = "> "

const helpText = `commands:
  title <text>     set the title
  url <link>       set the url
  techs <a,b,c>    set the comma-separated techs
  add              create the repository
  like <id>        like a repository
  remove <id>      remove a repository
  list             show the screen
  reload           load the repositories again
  quit             leave`

// Console reads commands from in and renders the screen to out.
type Console struct {
	screen *view.Screen
	in     io.Reader
	out    io.Writer
	log    logrus.FieldLogger
}

// New creates a console over an unmounted screen.
func New(screen *view.Screen, in io.Reader, out io.Writer, logger logrus.FieldLogger) *Console {
	return &Console{
		screen: screen,
		in:     in,
		out:    out,
		log:    logger.WithField("component", "console"),
	}
}

// Run mounts the screen and processes commands until quit, EOF or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	c.screen.Mount(ctx)
	c.render()

	// Cancelled on return to release the reader goroutine.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		fmt.Fprint(c.out, prompt)
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out)
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(c.out)
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("failed to read input: %w", err)
					}
				default:
				}
				return nil
			}
			if quit := c.handle(ctx, line); quit {
				return nil
			}
		}
	}
}

// handle runs one input line and reports whether the session should end.
func (c *Console) handle(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)
	c.log.WithField("command", cmd).Debug("Received console command")

	switch strings.ToLower(cmd) {
	case "":
		return false
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprintln(c.out, helpText)
		return false
	case "title":
		c.screen.SetTitle(arg)
	case "url":
		c.screen.SetURL(arg)
	case "techs":
		c.screen.SetTechs(arg)
	case "add":
		c.screen.Add(ctx)
	case "like":
		c.screen.Like(ctx, domain.ID(arg))
	case "remove":
		c.screen.Remove(ctx, domain.ID(arg))
	case "reload":
		c.screen.Mount(ctx)
	case "list":
	default:
		fmt.Fprintf(c.out, "unknown command %q, type help\n", cmd)
		return false
	}
	c.render()
	return false
}

func (c *Console) render() {
	st := c.screen.State()

	fmt.Fprintln(c.out, "Add New Repository")
	fmt.Fprintln(c.out, view.DraftSummary(st.Draft))
	fmt.Fprintln(c.out)

	if len(st.Repositories) == 0 {
		fmt.Fprintln(c.out, "No repositories yet.")
		return
	}
	fmt.Fprint(c.out, renderTable(st.Repositories))
}

// renderTable lays the collection out as a borderless table.
func renderTable(repos []domain.Repository) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"ID", "Title", "Url", "Techs", "Likes"})
	for _, r := range repos {
		t.AppendRow(table.Row{r.ID, r.Title, r.URL, view.Techs(r.Techs), view.Likes(r.Likes)})
	}
	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)
	return t.Render() + "\n"
}
