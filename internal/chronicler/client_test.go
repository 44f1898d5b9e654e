package chronicler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ingestd/internal/config"
	"ingestd/internal/rawgame"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestFetchPage_DecodesItemsAndNextToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(pageResponse{
			Items: []rawgame.Entity{
				{EntityID: "g1", ValidFrom: time.Unix(0, 0), Data: rawgame.Game{ID: "g1", State: "Complete"}},
			},
			NextPage: "cursor-2",
		})
	}))
	defer srv.Close()

	client, err := New(config.ChroniclerConfig{BaseURL: srv.URL, PageSize: 100, Timeout: time.Second, RetryCount: 1}, testLogger())
	require.NoError(t, err)

	page, err := client.FetchPage(context.Background(), "game", "cursor-1")
	require.NoError(t, err)
	assert.Equal(t, "cursor-2", page.NextToken)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "g1", page.Items[0].Data.ID)
}

func TestFetchPage_RetriesThenAborts(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := New(config.ChroniclerConfig{BaseURL: srv.URL, PageSize: 10, Timeout: time.Second, RetryCount: 2}, testLogger())
	require.NoError(t, err)

	_, err = client.FetchPage(context.Background(), "game", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchAborted)
	assert.Equal(t, 3, attempts) // initial attempt + 2 retries
}
