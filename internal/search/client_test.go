package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaki95/showcut/config"
	"github.com/jaki95/showcut/internal/domain"
	"github.com/jaki95/showcut/internal/fetch"
)

func newTestServer(t *testing.T, broadcasts map[string]domain.Broadcast, hits []map[string]any) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		for _, h := range hits {
			data := h["data"].(map[string]any)
			if href, ok := data["href"].(string); ok && href != "" && href[0] == '/' {
				data["href"] = server.URL + href
			}
		}
		json.NewEncoder(w).Encode(map[string]any{"hits": hits})
	})
	mux.HandleFunc("/broadcast/", func(w http.ResponseWriter, r *http.Request) {
		b, ok := broadcasts[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(b)
	})
	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func hitFor(entity string, start int64, href string) map[string]any {
	return map[string]any{"data": map[string]any{"entity": entity, "start": start, "href": href}}
}

func newTestClient(server *httptest.Server) *Client {
	station := config.Default().Station
	station.SearchURL = server.URL + "/search?q=%s"
	return NewClient(fetch.NewClient(fetch.Options{Timeout: 5 * time.Second}), station)
}

func TestClient_Search(t *testing.T) {
	broadcasts := map[string]domain.Broadcast{
		"/broadcast/1": {Start: 1_000, Title: "House of Pain"},
		"/broadcast/2": {Start: 2_000, Title: "FM4 House Of Pain "},
		"/broadcast/3": {Start: 3_000, Title: "House of Pain Spezial"},
		"/broadcast/4": {Start: 4_000, Title: "FM4 - House of Pain"},
	}
	hits := []map[string]any{
		hitFor("Broadcast", 1_000, "/broadcast/1"),
		hitFor("Broadcast", 4_000, "/broadcast/4"),
		hitFor("BroadcastItem", 5_000, "/broadcast/5"),
		hitFor("Broadcast", 3_000, "/broadcast/3"),
		hitFor("Broadcast", 2_000, "/broadcast/2"),
		hitFor("Broadcast", 6_000, "/broadcast/missing"),
	}

	client := newTestClient(newTestServer(t, broadcasts, hits))

	for _, query := range []string{"House of Pain", "fm4 house of pain", "FM4-House of Pain"} {
		t.Run(query, func(t *testing.T) {
			got, err := client.Search(context.Background(), query)
			require.NoError(t, err)

			require.Len(t, got, 3)
			assert.Equal(t, int64(4_000), got[0].Start)
			assert.Equal(t, int64(2_000), got[1].Start)
			assert.Equal(t, int64(1_000), got[2].Start)
		})
	}
}

func TestClient_SearchNoMatches(t *testing.T) {
	client := newTestClient(newTestServer(t, nil, []map[string]any{}))

	got, err := client.Search(context.Background(), "Nothing")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClient_SearchQuotesShowTitle(t *testing.T) {
	broadcasts := map[string]domain.Broadcast{
		"/broadcast/1": {Start: 1_000, Title: "Davidecks (Live)"},
		"/broadcast/2": {Start: 2_000, Title: "DavidecksXLive"},
	}
	hits := []map[string]any{
		hitFor("Broadcast", 1_000, "/broadcast/1"),
		hitFor("Broadcast", 2_000, "/broadcast/2"),
	}
	client := newTestClient(newTestServer(t, broadcasts, hits))

	got, err := client.Search(context.Background(), "Davidecks (Live)")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Davidecks (Live)", got[0].Title)
}

func TestClient_SearchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server).Search(context.Background(), "Show")
	assert.ErrorIs(t, err, fetch.ErrStatus)
}

func TestClient_SearchInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := newTestClient(server).Search(context.Background(), "Show")
	assert.ErrorContains(t, err, "invalid search response")
}
