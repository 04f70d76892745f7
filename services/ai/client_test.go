package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaikhimran1006/Student-Market-Place/models"
)

func TestClientAvailable(t *testing.T) {
	assert.False(t, NewClient("", "", "").Available())
	assert.True(t, NewClient("sk-test", "", "").Available())

	var nilClient *Client
	assert.False(t, nilClient.Available())
}

func TestCompleteKeylessReturnsMock(t *testing.T) {
	c := NewClient("", "", "")

	reply, err := c.Complete(context.Background(), "analyze sentiment of this review", 100)
	require.NoError(t, err)
	assert.Contains(t, reply, "sentiment")
}

func TestCompleteRetriesOn5xx(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"second try"}}]}`))
	}))
	defer server.Close()

	c := NewClient("key", server.URL, "test-model")
	reply, err := c.Complete(context.Background(), "hello", 10)
	require.NoError(t, err)
	assert.Equal(t, "second try", reply)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCompleteDoesNotRetryOn4xx(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"auth"}}`))
	}))
	defer server.Close()

	c := NewClient("key", server.URL, "test-model")
	_, err := c.Complete(context.Background(), "hello", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad key")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCompleteJSONExtractsWrappedBlock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Sure! Here you go:\n{\"value\": 7}\nHope that helps."}}]}`))
	}))
	defer server.Close()

	c := NewClient("key", server.URL, "test-model")
	var out struct {
		Value int `json:"value"`
	}
	require.NoError(t, c.CompleteJSON(context.Background(), "give me json", 10, &out))
	assert.Equal(t, 7, out.Value)
}

func TestAnalyzeReviewSentimentNeutralOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient("key", server.URL, "test-model")
	analysis := AnalyzeReviewSentiment(context.Background(), c, "great product, arrived on time")

	assert.Equal(t, "neutral", analysis.Sentiment)
	assert.Zero(t, analysis.SentimentScore)
	assert.False(t, analysis.IsSpam)
	assert.NotNil(t, analysis.AnalyzedAt)
}

func TestAnalyzeReviewSentimentKeyless(t *testing.T) {
	c := NewClient("", "", "")
	analysis := AnalyzeReviewSentiment(context.Background(), c, "great product, arrived on time")

	assert.Equal(t, "positive", analysis.Sentiment)
	assert.False(t, analysis.IsSpam)
}

func TestSummarizeReviewsEmpty(t *testing.T) {
	c := NewClient("", "", "")
	summary := SummarizeReviews(context.Background(), c, nil)

	assert.Equal(t, "neutral", summary.OverallSentiment)
	assert.Zero(t, summary.ReviewCount)
}

func TestSummarizeReviewsComputedFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	reviews := []models.Review{
		{Rating: 5, Content: "excellent"},
		{Rating: 4, Content: "pretty good"},
	}
	c := NewClient("key", server.URL, "test-model")
	summary := SummarizeReviews(context.Background(), c, reviews)

	assert.Equal(t, 2, summary.ReviewCount)
	assert.Equal(t, 4.5, summary.AverageRating)
	assert.Equal(t, "neutral", summary.OverallSentiment)
	assert.Equal(t, 50, summary.RecommendationRate)
}
