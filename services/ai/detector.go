package ai

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/shaikhimran1006/Student-Market-Place/models"
)

// Detector scores new listings for fraud signals: price anomaly, duplicated
// descriptions and an LLM verdict, combined into one suspicion score.
type Detector struct {
	db     *gorm.DB
	client *Client
}

func NewDetector(db *gorm.DB, client *Client) *Detector {
	return &Detector{db: db, client: client}
}

// VerificationResult distinguishes a real verdict from the trust-everyone
// fallback so callers can surface degradation instead of hiding it.
type VerificationResult struct {
	Analysis models.AIAnalysis
	Degraded bool
}

// MarketData aggregates prices of active listings in one category.
type MarketData struct {
	AveragePrice *float64
	MinPrice     *float64
	MaxPrice     *float64
	SampleSize   int
}

// DuplicateCheck is the outcome of the description-overlap heuristic.
type DuplicateCheck struct {
	IsDuplicate       bool
	SimilarProductIDs []uint
	HighestSimilarity int // 0-100
}

type aiVerdict struct {
	IsSuspicious   bool   `json:"isSuspicious"`
	SuspicionScore int    `json:"suspicionScore"`
	Flags          []struct {
		Type        string `json:"type"`
		Severity    string `json:"severity"`
		Description string `json:"description"`
	} `json:"flags"`
	DescriptionAnalysis struct {
		QualityScore int      `json:"qualityScore"`
		Issues       []string `json:"issues"`
	} `json:"descriptionAnalysis"`
	Recommendation  string `json:"recommendation"`
	ConfidenceLevel int    `json:"confidenceLevel"`
}

// Verify runs the full pipeline. Any internal failure degrades to the
// unflagged default so listing creation is never blocked by scoring.
func (d *Detector) Verify(ctx context.Context, product *models.Product) VerificationResult {
	market, err := d.MarketData(product.Category)
	if err != nil {
		return VerificationResult{Analysis: defaultAnalysis(), Degraded: true}
	}

	dup, err := d.CheckDuplicates(product.Description, product.Category, product.ID)
	if err != nil {
		return VerificationResult{Analysis: defaultAnalysis(), Degraded: true}
	}

	verdict, aiDegraded := d.analyzeListing(ctx, product, market)

	abnormal := isAbnormalPrice(product.Price, market)
	combined := verdict.SuspicionScore
	if dup.IsDuplicate && combined < 70 {
		combined = 70
	}
	if abnormal && combined < 60 {
		combined = 60
	}

	now := time.Now()
	analysis := models.AIAnalysis{
		IsFlagged:       combined >= 50,
		SuspicionScore:  combined,
		PriceIsAbnormal: abnormal,
		MarketAverage:   market.AveragePrice,
		PriceDeviation:  deviationPercent(product.Price, market.AveragePrice),
		IsDuplicate:     dup.IsDuplicate,
		SimilarProducts: joinIDs(dup.SimilarProductIDs),
		QualityScore:    verdict.DescriptionAnalysis.QualityScore,
		Recommendation:  recommendation(combined),
		LastAnalyzedAt:  &now,
	}
	if analysis.IsFlagged {
		analysis.FlagReason = flagReason(verdict, dup, product.Price, market)
	}

	return VerificationResult{Analysis: analysis, Degraded: aiDegraded}
}

// MarketData excludes zero and negative prices. Absent data yields nils and
// no price penalty downstream.
func (d *Detector) MarketData(category models.ProductCategory) (MarketData, error) {
	var row struct {
		Avg   *float64
		Min   *float64
		Max   *float64
		Count int
	}
	err := d.db.Model(&models.Product{}).
		Select("AVG(price) as avg, MIN(price) as min, MAX(price) as max, COUNT(*) as count").
		Where("category = ? AND status = ? AND price > 0", category, models.StatusActive).
		Scan(&row).Error
	if err != nil {
		return MarketData{}, err
	}
	if row.Count == 0 {
		return MarketData{}, nil
	}
	if row.Avg != nil {
		rounded := math.Round(*row.Avg*100) / 100
		row.Avg = &rounded
	}
	return MarketData{AveragePrice: row.Avg, MinPrice: row.Min, MaxPrice: row.Max, SampleSize: row.Count}, nil
}

// CheckDuplicates compares the description against up to 50 active listings
// in the same category using bag-of-words overlap.
func (d *Detector) CheckDuplicates(description string, category models.ProductCategory, excludeID uint) (DuplicateCheck, error) {
	var others []models.Product
	q := d.db.Select("id", "title", "description").
		Where("category = ? AND status = ?", category, models.StatusActive).
		Limit(50)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Find(&others).Error; err != nil {
		return DuplicateCheck{}, err
	}
	if len(others) == 0 {
		return DuplicateCheck{}, nil
	}

	descWords := wordSet(description)
	type match struct {
		id    uint
		score int
	}
	var matches []match
	for _, other := range others {
		sim := similarity(descWords, wordSet(other.Description))
		if sim > 0.5 {
			matches = append(matches, match{id: other.ID, score: int(math.Round(sim * 100))})
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].score > matches[j].score })

	check := DuplicateCheck{}
	if len(matches) > 0 {
		check.HighestSimilarity = matches[0].score
		check.IsDuplicate = matches[0].score > 80
		for i, m := range matches {
			if i == 5 {
				break
			}
			check.SimilarProductIDs = append(check.SimilarProductIDs, m.id)
		}
	}
	return check, nil
}

func (d *Detector) analyzeListing(ctx context.Context, product *models.Product, market MarketData) (aiVerdict, bool) {
	prompt := fmt.Sprintf(`Analyze this product listing for potential fraud or suspicious characteristics:

Product Details:
- Title: %s
- Description: %s
- Price: $%.2f
- Category: %s
- Condition: %s

Market Context:
- Average market price for similar items: %s
- Price range: %s - %s

Analyze for:
1. Price anomalies (too low or suspiciously high)
2. Description quality (vague, copy-pasted, or misleading)
3. Common scam patterns
4. Listing completeness

Provide your analysis in JSON format:
{
  "isSuspicious": <boolean>,
  "suspicionScore": <0-100>,
  "flags": [{"type": "price" | "description" | "category" | "pattern", "severity": "low" | "medium" | "high", "description": "<explanation>"}],
  "descriptionAnalysis": {"qualityScore": <0-100>, "issues": ["<issue>"]},
  "recommendation": "approve" | "review" | "reject",
  "confidenceLevel": <0-100>
}`,
		product.Title, product.Description, product.Price, product.Category, product.Condition,
		priceOrUnknown(market.AveragePrice), priceOrUnknown(market.MinPrice), priceOrUnknown(market.MaxPrice))

	verdict := aiVerdict{Recommendation: "approve"}
	verdict.DescriptionAnalysis.QualityScore = 100

	var parsed aiVerdict
	if err := d.client.CompleteJSON(ctx, prompt, 800, &parsed); err != nil {
		// Provider down or unparsable output: neutral default.
		return verdict, true
	}
	if parsed.DescriptionAnalysis.QualityScore == 0 {
		parsed.DescriptionAnalysis.QualityScore = 100
	}
	if parsed.Recommendation == "" {
		parsed.Recommendation = "approve"
	}
	return parsed, false
}

func isAbnormalPrice(price float64, market MarketData) bool {
	if market.AveragePrice == nil || *market.AveragePrice == 0 {
		return false
	}
	return math.Abs(price-*market.AveragePrice) / *market.AveragePrice > 0.7
}

func deviationPercent(price float64, average *float64) int {
	if average == nil || *average == 0 {
		return 0
	}
	return int(math.Round((price - *average) / *average * 100))
}

func recommendation(score int) string {
	switch {
	case score >= 70:
		return "reject"
	case score >= 40:
		return "review"
	default:
		return "approve"
	}
}

func flagReason(verdict aiVerdict, dup DuplicateCheck, price float64, market MarketData) string {
	var reasons []string
	if dup.IsDuplicate {
		reasons = append(reasons, "Duplicate or very similar description found")
	}
	if isAbnormalPrice(price, market) {
		dev := deviationPercent(price, market.AveragePrice)
		direction := "above"
		if dev < 0 {
			direction = "below"
		}
		reasons = append(reasons, fmt.Sprintf("Price is %d%% %s market average", abs(dev), direction))
	}
	for _, f := range verdict.Flags {
		reasons = append(reasons, f.Description)
	}
	return strings.Join(reasons, "; ")
}

func defaultAnalysis() models.AIAnalysis {
	now := time.Now()
	return models.AIAnalysis{
		QualityScore:   100,
		Recommendation: "approve",
		LastAnalyzedAt: &now,
	}
}

func wordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[w] = struct{}{}
	}
	return set
}

func similarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	shared := 0
	for w := range a {
		if _, ok := b[w]; ok {
			shared++
		}
	}
	return float64(shared) / math.Max(float64(len(a)), float64(len(b)))
}

func priceOrUnknown(p *float64) string {
	if p == nil {
		return "Unknown"
	}
	return fmt.Sprintf("$%.2f", *p)
}

func joinIDs(ids []uint) string {
	if len(ids) == 0 {
		return ""
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ",")
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
