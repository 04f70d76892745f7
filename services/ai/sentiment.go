package ai

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shaikhimran1006/Student-Market-Place/models"
)

type sentimentVerdict struct {
	Sentiment      string   `json:"sentiment"`
	SentimentScore float64  `json:"sentimentScore"`
	Summary        string   `json:"summary"`
	ExtractedPros  []string `json:"extractedPros"`
	ExtractedCons  []string `json:"extractedCons"`
	IsSpam         bool     `json:"isSpam"`
	SpamScore      float64  `json:"spamScore"`
}

// AnalyzeReviewSentiment scores a single review text. Provider failure
// yields the neutral default, never an error.
func AnalyzeReviewSentiment(ctx context.Context, client *Client, content string) models.ReviewAnalysis {
	prompt := fmt.Sprintf(`Analyze the following product review and provide sentiment analysis:

Review: "%s"

Provide your analysis in the following JSON format:
{
  "sentiment": "positive" | "negative" | "neutral" | "mixed",
  "sentimentScore": <number between -1 (very negative) and 1 (very positive)>,
  "summary": "<brief 1-sentence summary>",
  "extractedPros": ["<pro1>", "<pro2>"],
  "extractedCons": ["<con1>", "<con2>"],
  "isSpam": <boolean>,
  "spamScore": <number between 0 and 1>
}`, content)

	var verdict sentimentVerdict
	if err := client.CompleteJSON(ctx, prompt, 500, &verdict); err != nil {
		return neutralSentiment()
	}
	if verdict.Sentiment == "" {
		verdict.Sentiment = "neutral"
	}

	now := time.Now()
	return models.ReviewAnalysis{
		Sentiment:      verdict.Sentiment,
		SentimentScore: verdict.SentimentScore,
		Summary:        verdict.Summary,
		IsSpam:         verdict.IsSpam,
		SpamScore:      verdict.SpamScore,
		AnalyzedAt:     &now,
	}
}

// ReviewSummary aggregates the voice of all reviews for a product page.
type ReviewSummary struct {
	OverallSentiment   string   `json:"overall_sentiment"`
	Summary            string   `json:"summary"`
	Pros               []string `json:"pros"`
	Cons               []string `json:"cons"`
	KeyHighlights      []string `json:"key_highlights"`
	RecommendationRate int      `json:"recommendation_rate"`
	ReviewCount        int      `json:"review_count"`
	AverageRating      float64  `json:"average_rating"`
}

// SummarizeReviews produces a cross-review summary via the completion
// provider, with a computed fallback when the provider is unavailable.
func SummarizeReviews(ctx context.Context, client *Client, reviews []models.Review) ReviewSummary {
	if len(reviews) == 0 {
		return ReviewSummary{OverallSentiment: "neutral", Summary: "No reviews available yet."}
	}

	var sb strings.Builder
	for i, r := range reviews {
		fmt.Fprintf(&sb, "Review %d (Rating: %d/5): %s\n\n", i+1, r.Rating, r.Content)
	}

	prompt := fmt.Sprintf(`Analyze these product reviews and provide a comprehensive summary:

%s
Provide your analysis in the following JSON format:
{
  "overallSentiment": "positive" | "negative" | "neutral" | "mixed",
  "summary": "<2-3 sentence summary of overall customer feedback>",
  "pros": ["<top 3-5 frequently mentioned positives>"],
  "cons": ["<top 3-5 frequently mentioned negatives>"],
  "keyHighlights": ["<notable points from reviews>"],
  "recommendationRate": <estimated percentage of customers who would recommend, 0-100>
}`, sb.String())

	var verdict struct {
		OverallSentiment   string   `json:"overallSentiment"`
		Summary            string   `json:"summary"`
		Pros               []string `json:"pros"`
		Cons               []string `json:"cons"`
		KeyHighlights      []string `json:"keyHighlights"`
		RecommendationRate int      `json:"recommendationRate"`
	}
	summary := ReviewSummary{
		OverallSentiment:   "neutral",
		Summary:            "Review analysis unavailable.",
		RecommendationRate: 50,
		ReviewCount:        len(reviews),
		AverageRating:      averageRating(reviews),
	}
	if err := client.CompleteJSON(ctx, prompt, 800, &verdict); err != nil {
		return summary
	}
	if verdict.OverallSentiment != "" {
		summary.OverallSentiment = verdict.OverallSentiment
	}
	if verdict.Summary != "" {
		summary.Summary = verdict.Summary
	}
	summary.Pros = verdict.Pros
	summary.Cons = verdict.Cons
	summary.KeyHighlights = verdict.KeyHighlights
	if verdict.RecommendationRate > 0 {
		summary.RecommendationRate = verdict.RecommendationRate
	}
	return summary
}

func neutralSentiment() models.ReviewAnalysis {
	now := time.Now()
	return models.ReviewAnalysis{
		Sentiment:  "neutral",
		Summary:    "Unable to analyze review.",
		AnalyzedAt: &now,
	}
}

func averageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return math.Round(float64(sum)/float64(len(reviews))*10) / 10
}
