package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnowledgeSearch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /documents/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "fire code", r.URL.Query().Get("query"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, `[
			{"id": "d1", "title": "Fire Code 2023", "score": 0.92},
			{"id": "d2", "title": "Egress Standards", "score": 0.81}
		]`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	knowledge := NewKnowledge(newPeerClient(t, "knowledge", srv.URL))

	docs, err := knowledge.Search(context.Background(), "fire code", 5)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "d1", docs[0].ID)
	assert.InDelta(t, 0.92, docs[0].Score, 1e-9)
}

func TestKnowledgeSearchOmitsLimitWhenUnset(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /documents/search", func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("limit"))
		writeJSON(w, http.StatusOK, `[]`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	knowledge := NewKnowledge(newPeerClient(t, "knowledge", srv.URL))

	docs, err := knowledge.Search(context.Background(), "setback", 0)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestKnowledgeDocument(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /documents/d1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{
			"id": "d1",
			"title": "Fire Code 2023",
			"source": "NFPA",
			"tags": ["safety", "egress"]
		}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	knowledge := NewKnowledge(newPeerClient(t, "knowledge", srv.URL))

	doc, err := knowledge.Document(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, "Fire Code 2023", doc.Title)
	assert.Equal(t, []string{"safety", "egress"}, doc.Tags)
}

func TestKnowledgeSummarize(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /documents/d1/summarize", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{
			"document_id": "d1",
			"text": "Occupancy limits and egress widths.",
			"model": "summarizer-v2"
		}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	knowledge := NewKnowledge(newPeerClient(t, "knowledge", srv.URL))

	summary, err := knowledge.Summarize(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, "d1", summary.DocumentID)
	assert.Contains(t, summary.Text, "egress")
}
