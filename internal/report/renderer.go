// Package report renders product metrics into email documents.
package report

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strconv"
	texttemplate "text/template"
	"time"

	"github.com/shopspring/decimal"

	"herdscope/internal/analytics"
	"herdscope/internal/model"
	apperrors "herdscope/pkg/errors"
)

//go:embed templates/*.html templates/*.txt
var templateFS embed.FS

const (
	productAlertTemplate   = "product_alert"
	trendingDigestTemplate = "trending_digest"
	testEmailTemplate      = "test_email"

	trendingDigestSubject = "📈 Trending Products Alert"
	testEmailSubject      = "🧪 HerdScope Email Test"
)

// Document is a rendered email: subject plus HTML and plain-text bodies.
type Document struct {
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text"`
}

// Renderer turns records into Documents. It is safe for concurrent use.
type Renderer struct {
	html *htmltemplate.Template
	text *texttemplate.Template
	now  func() time.Time
}

// NewRenderer parses the embedded templates. now defaults to time.Now.
func NewRenderer(now func() time.Time) (*Renderer, error) {
	if now == nil {
		now = time.Now
	}

	html, err := htmltemplate.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse html templates: %w", err)
	}
	text, err := texttemplate.ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to parse text templates: %w", err)
	}

	return &Renderer{html: html, text: text, now: now}, nil
}

type productAlertView struct {
	Name           string
	Category       string
	Status         string
	Badge          Badge
	Price          string
	Views          string
	Clicks         string
	Sales          string
	ConversionRate string
	Revenue        string
	ClickIncrease  string
	SentAt         string
}

type digestRow struct {
	Rank          int
	Name          string
	Category      string
	ClickIncrease string
	Sales         string
	Clicks        string
	Price         string
}

type digestView struct {
	Rows         []digestRow
	TotalSales   string
	TotalClicks  string
	TotalRevenue string
	SentAt       string
}

type testEmailView struct {
	SentAt string
}

// RenderProductAlert renders the alert for a single product.
func (r *Renderer) RenderProductAlert(rec model.ProductRecord) (Document, error) {
	view := productAlertView{
		Name:           rec.ProductName,
		Category:       rec.Category,
		Status:         string(rec.Status),
		Badge:          BadgeFor(rec.Status),
		Price:          formatPrice(rec.Price),
		Views:          formatCount(rec.Views),
		Clicks:         strconv.FormatInt(rec.Clicks, 10),
		Sales:          strconv.FormatInt(rec.Sales, 10),
		ConversionRate: formatRate(analytics.ConversionRate(rec)),
		Revenue:        formatMoney(analytics.Revenue(rec)),
		ClickIncrease:  formatPercent(rec.ClickIncreasePercent),
		SentAt:         r.timestamp(),
	}

	subject := fmt.Sprintf("🔥 %s - Trending Now!", rec.ProductName)
	return r.render(productAlertTemplate, subject, view)
}

// RenderTrendingDigest renders a ranked table of recs in the given order.
// An empty slice yields a document with no rows and zero totals.
func (r *Renderer) RenderTrendingDigest(recs []model.ProductRecord) (Document, error) {
	view := digestView{
		Rows:   make([]digestRow, 0, len(recs)),
		SentAt: r.timestamp(),
	}

	var sales, clicks int64
	revenue := decimal.Zero
	for i, rec := range recs {
		view.Rows = append(view.Rows, digestRow{
			Rank:          i + 1,
			Name:          rec.ProductName,
			Category:      rec.Category,
			ClickIncrease: formatPercent(rec.ClickIncreasePercent),
			Sales:         strconv.FormatInt(rec.Sales, 10),
			Clicks:        strconv.FormatInt(rec.Clicks, 10),
			Price:         formatPrice(rec.Price),
		})
		sales += rec.Sales
		clicks += rec.Clicks
		revenue = revenue.Add(analytics.Revenue(rec))
	}

	view.TotalSales = formatCount(sales)
	view.TotalClicks = formatCount(clicks)
	view.TotalRevenue = formatMoney(revenue)

	return r.render(trendingDigestTemplate, trendingDigestSubject, view)
}

// RenderTestEmail renders the connectivity check message.
func (r *Renderer) RenderTestEmail() (Document, error) {
	return r.render(testEmailTemplate, testEmailSubject, testEmailView{SentAt: r.timestamp()})
}

func (r *Renderer) timestamp() string {
	return r.now().Format(timestampLayout)
}

func (r *Renderer) render(name, subject string, view interface{}) (Document, error) {
	var html, text bytes.Buffer

	if err := r.html.ExecuteTemplate(&html, name+".html", view); err != nil {
		return Document{}, apperrors.NewInternalError("failed to render "+name, err)
	}
	if err := r.text.ExecuteTemplate(&text, name+".txt", view); err != nil {
		return Document{}, apperrors.NewInternalError("failed to render "+name, err)
	}

	return Document{Subject: subject, HTML: html.String(), Text: text.String()}, nil
}
