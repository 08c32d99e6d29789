package scraper

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProcess struct {
	url       string
	launchErr error
	killed    int
}

func (f *fakeProcess) Launch() (string, error) { return f.url, f.launchErr }

func (f *fakeProcess) Kill() { f.killed++ }

// deadControlURL points at a port nothing listens on any more.
func deadControlURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(nil)
	u := "ws://" + strings.TrimPrefix(srv.URL, "http://")
	srv.Close()
	return u
}

func TestStartBrowser_KillsProcessWhenConnectFails(t *testing.T) {
	proc := &fakeProcess{url: deadControlURL(t)}

	browser, err := startBrowser(proc)

	require.Error(t, err)
	assert.Nil(t, browser)
	assert.Contains(t, err.Error(), "failed to connect to browser")
	assert.Equal(t, 1, proc.killed)
}

func TestStartBrowser_LaunchFailure(t *testing.T) {
	boom := errors.New("no sandbox")
	proc := &fakeProcess{launchErr: boom}

	_, err := startBrowser(proc)

	assert.ErrorIs(t, err, boom)
	assert.Zero(t, proc.killed, "nothing was started")
}

func TestFetchTitle_RejectsNonHTTPURL(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	f := NewRodTitleFetcher(logger)

	_, err := f.FetchTitle(context.Background(), "ftp://example.com")

	assert.ErrorContains(t, err, "not an http(s) url")
}
