package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-web/internal/entity"
	"github.com/rocketscienceinc/tictactoe-web/internal/repository"
	"github.com/rocketscienceinc/tictactoe-web/internal/sound"
	"github.com/rocketscienceinc/tictactoe-web/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-web/testing/suite"
)

type client struct {
	t      *testing.T
	base   string
	client *http.Client
}

func newClient(t *testing.T, staticDir string) *client {
	t.Helper()

	logger := suite.NewLogger()
	manager := usecase.NewGameManager(logger, repository.NewMemoryGameRepository(0), sound.NewCue("", 0))

	server := httptest.NewServer(NewRouter(logger, manager, staticDir))
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &client{t: t, base: server.URL, client: &http.Client{Jar: jar}}
}

func (that *client) do(method, path, body string) *http.Response {
	that.t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), method, that.base+path, bytes.NewBufferString(body))
	require.NoError(that.t, err)

	resp, err := that.client.Do(req)
	require.NoError(that.t, err)
	that.t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func (that *client) view(method, path, body string) *usecase.View {
	that.t.Helper()

	resp := that.do(method, path, body)
	require.Equal(that.t, http.StatusOK, resp.StatusCode)

	var view usecase.View
	require.NoError(that.t, json.NewDecoder(resp.Body).Decode(&view))

	return &view
}

func (that *client) errorOf(resp *http.Response) string {
	that.t.Helper()

	var body errorResponse
	require.NoError(that.t, json.NewDecoder(resp.Body).Decode(&body))

	return body.Error
}

func TestPing(t *testing.T) {
	c := newClient(t, "")

	resp := c.do(http.MethodGet, "/ping", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGameAPI(t *testing.T) {
	t.Run("Plays a full game over HTTP", func(t *testing.T) {
		// Given: a client that opened a session
		c := newClient(t, "")
		start := c.view(http.MethodGet, "/api/game", "")
		assert.Equal(t, "Next player: X", start.Status)
		assert.NotEmpty(t, start.SessionID)

		// When: X wins the top row
		for _, cell := range []string{"0", "4", "1", "5"} {
			c.view(http.MethodPost, "/api/game/moves", `{"cell":`+cell+`}`)
		}
		won := c.view(http.MethodPost, "/api/game/moves", `{"cell":2}`)

		// Then: the winner, highlight and sound cue are returned for the same session
		assert.Equal(t, start.SessionID, won.SessionID)
		assert.Equal(t, "Winner: X", won.Status)
		assert.Equal(t, []int{0, 1, 2}, won.WinningLine)
		require.NotNil(t, won.Sound)
		assert.Equal(t, "tada.mp3", won.Sound.URL)

		// When: O clicks after the game is decided
		ignored := c.view(http.MethodPost, "/api/game/moves", `{"cell":3}`)

		// Then: nothing changes and no sound plays
		assert.Equal(t, won.Board, ignored.Board)
		assert.Nil(t, ignored.Sound)

		// When: jumping back to step 1
		back := c.view(http.MethodPost, "/api/game/jump", `{"step":1}`)

		// Then: only X's first mark is shown and O is next
		assert.Equal(t, entity.Board{entity.PlayerX}, back.Board)
		assert.Equal(t, entity.PlayerO, back.Turn)
		assert.Empty(t, back.WinningLine)
		assert.Equal(t, "Go to game start", back.Moves[0].Label)

		// When: resetting
		reset := c.view(http.MethodPost, "/api/game/reset", "")

		// Then: the board is empty again
		assert.Equal(t, entity.Board{}, reset.Board)
		assert.Len(t, reset.Moves, 1)
	})

	t.Run("Rejects invalid input", func(t *testing.T) {
		c := newClient(t, "")
		c.view(http.MethodGet, "/api/game", "")

		testCases := []struct {
			name string
			path string
			body string
		}{
			{name: "Out of range cell", path: "/api/game/moves", body: `{"cell":9}`},
			{name: "Negative cell", path: "/api/game/moves", body: `{"cell":-1}`},
			{name: "Missing cell", path: "/api/game/moves", body: `{}`},
			{name: "Malformed JSON", path: "/api/game/moves", body: `{"cell":`},
			{name: "Unknown field", path: "/api/game/moves", body: `{"cell":1,"mark":"O"}`},
			{name: "Out of range step", path: "/api/game/jump", body: `{"step":4}`},
			{name: "Missing step", path: "/api/game/jump", body: `{}`},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				resp := c.do(http.MethodPost, tc.path, tc.body)

				assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
				assert.NotEmpty(t, c.errorOf(resp))
			})
		}
	})

	t.Run("Requires a session for operations", func(t *testing.T) {
		// Given: a client that never opened a session
		c := newClient(t, "")

		// When: making a move
		resp := c.do(http.MethodPost, "/api/game/moves", `{"cell":0}`)

		// Then: the request is rejected
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Ending the session starts over", func(t *testing.T) {
		// Given: a session with a move
		c := newClient(t, "")
		first := c.view(http.MethodGet, "/api/game", "")
		c.view(http.MethodPost, "/api/game/moves", `{"cell":4}`)

		// When: ending the session
		resp := c.do(http.MethodDelete, "/api/game", "")
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		// Then: the next request gets a new empty game
		next := c.view(http.MethodGet, "/api/game", "")
		assert.NotEqual(t, first.SessionID, next.SessionID)
		assert.Equal(t, entity.Board{}, next.Board)
	})
}

func TestStaticFiles(t *testing.T) {
	// Given: a directory with the page
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html></html>"), 0o600))

	c := newClient(t, dir)

	// When: requesting the root
	resp := c.do(http.MethodGet, "/", "")

	// Then: the page is served
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

type failingGame struct{}

var errStoreDown = errors.New("store down")

func (that *failingGame) Connect(context.Context, string) (*usecase.View, error) {
	return nil, errStoreDown
}

func (that *failingGame) MakeMove(context.Context, string, int) (*usecase.View, error) {
	return nil, errStoreDown
}

func (that *failingGame) JumpTo(context.Context, string, int) (*usecase.View, error) {
	return nil, errStoreDown
}

func (that *failingGame) Reset(context.Context, string) (*usecase.View, error) {
	return nil, errStoreDown
}

func (that *failingGame) EndSession(context.Context, string) error {
	return errStoreDown
}

func TestGameAPI_InternalError(t *testing.T) {
	// Given: a router over a failing use case
	router := NewRouter(suite.NewLogger(), &failingGame{}, "")

	// When: fetching the game
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/game", nil))

	// Then: a generic 500 is returned without leaking the cause
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}
