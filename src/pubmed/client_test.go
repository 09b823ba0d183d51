package pubmed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeEutils(t *testing.T, esearch, esummary http.HandlerFunc) *Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/esearch.fcgi", esearch)
	mux.HandleFunc("/esummary.fcgi", esummary)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewClientWithBaseURL(srv.URL, "test-key")
}

func TestSanitizeQuery(t *testing.T) {
	assert.Equal(t, "turmeric cures cancer", SanitizeQuery("turmeric, cures (cancer)!"))
	assert.Equal(t, "anti-inflammatory diet", SanitizeQuery("  anti-inflammatory   diet?  "))
	assert.Equal(t, "", SanitizeQuery("!!!"))
}

func TestSearchArticlesJoinsSearchAndSummary(t *testing.T) {
	client := newFakeEutils(t,
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "pubmed", r.URL.Query().Get("db"))
			assert.Equal(t, "turmeric cures cancer", r.URL.Query().Get("term"))
			assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
			fmt.Fprint(w, `{"esearchresult":{"idlist":["111","222"]}}`)
		},
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "111,222", r.URL.Query().Get("id"))
			fmt.Fprint(w, `{"result":{
				"uids":["111","222"],
				"111":{"uid":"111","title":"Turmeric trial","pubdate":"2024 Jan 5","source":"JAMA",
					"authors":[{"name":"Smith J"},{"name":"Lee K"}],"elocationid":"10.1000/x1"},
				"222":{"uid":"222","title":"Curcumin review","pubdate":"2020 Mar","source":"BMJ"}
			}}`)
		},
	)

	articles := client.SearchArticles(context.Background(), "turmeric, cures (cancer)!", 5)

	require.Len(t, articles, 2)
	assert.Equal(t, "111", articles[0].ID)
	assert.Equal(t, "Turmeric trial", articles[0].Title)
	assert.Equal(t, "JAMA", articles[0].Source)
	assert.Equal(t, []string{"Smith J", "Lee K"}, articles[0].Authors)
	assert.Equal(t, "10.1000/x1", articles[0].DOI)
	assert.Equal(t, "https://pubmed.ncbi.nlm.nih.gov/111/", articles[0].URL)
	assert.Equal(t, "222", articles[1].ID)
}

func TestSearchArticlesEmptyIDList(t *testing.T) {
	summaryCalled := false
	client := newFakeEutils(t,
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"esearchresult":{"idlist":[]}}`)
		},
		func(w http.ResponseWriter, r *http.Request) {
			summaryCalled = true
		},
	)

	articles := client.SearchArticles(context.Background(), "no such thing", 5)
	assert.Empty(t, articles)
	assert.False(t, summaryCalled)
}

func TestSearchArticlesAbsorbsUpstreamFailure(t *testing.T) {
	client := newFakeEutils(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		},
		func(w http.ResponseWriter, r *http.Request) {},
	)

	assert.Empty(t, client.SearchArticles(context.Background(), "anything", 5))
}

func TestSearchArticlesAbsorbsMalformedResponse(t *testing.T) {
	client := newFakeEutils(t,
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<html>not json</html>`)
		},
		func(w http.ResponseWriter, r *http.Request) {},
	)

	assert.Empty(t, client.SearchArticles(context.Background(), "anything", 5))
}

func TestSearchArticlesSkipsRecordsWithoutUID(t *testing.T) {
	client := newFakeEutils(t,
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"esearchresult":{"idlist":["111","333"]}}`)
		},
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"result":{
				"uids":["111","333"],
				"111":{"uid":"111","title":"Kept","pubdate":"2024","source":"BMJ"},
				"333":{"title":"No uid field"}
			}}`)
		},
	)

	articles := client.SearchArticles(context.Background(), "x", 5)
	require.Len(t, articles, 1)
	assert.Equal(t, "Kept", articles[0].Title)
}
