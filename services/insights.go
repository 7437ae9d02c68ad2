package services

import (
	"database/sql"
	"fmt"
	"io"
	"sort"
	"strings"

	"creator-dashboard/models"
	"creator-dashboard/utils"
)

const (
	leaderboardSize    = 5
	topProductsSize    = 5
	viewsByAccountSize = 10
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate computes every aggregate over the fully filtered rows. creators is
// the date-stage creator set, so the creator count matches what can be
// selected.
func (s *InsightService) Generate(filtered []*models.Row, creators []string) *models.Report {
	report := &models.Report{
		TotalCreators:       len(creators),
		Leaderboard:         []models.CreatorRank{},
		TopProductsByViews:  []models.ProductViews{},
		TopProductsByCount:  []models.ProductCount{},
		ContentDistribution: []models.LabelCount{},
		PaymentByMonth:      []models.MonthPayment{},
		ViewsByAccount:      []models.AccountViews{},
	}

	if len(filtered) == 0 {
		return report
	}

	accounts := newGroups()
	products := newGroups()
	contents := newGroups()
	months := newGroups()

	for _, r := range filtered {
		views := ParseViewCount(r.Views)
		payment := ParseCurrency(r.Payment)

		report.TotalPayment += payment

		accounts.add(r.Account, views)
		products.add(r.ProductName, views)
		contents.add(r.ContentType, 0)
		months.add(r.Month, payment)

		switch ParseStatus(r.Status) {
		case models.StatusPassed:
			report.Status.Passed++
		case models.StatusFailed:
			report.Status.Failed++
		default:
			report.Status.Other++
		}
	}

	// Leaderboard: average views per account, rounded half up
	byAvg := accounts.ranked(func(g *group) int64 { return roundDiv(g.sum, int64(g.count)) })
	for _, g := range head(byAvg, leaderboardSize) {
		report.Leaderboard = append(report.Leaderboard, models.CreatorRank{
			Name:     g.key,
			AvgViews: roundDiv(g.sum, int64(g.count)),
		})
	}

	for _, g := range head(products.ranked(func(g *group) int64 { return g.sum }), topProductsSize) {
		report.TopProductsByViews = append(report.TopProductsByViews, models.ProductViews{Name: g.key, Views: g.sum})
	}

	for _, g := range head(products.ranked(func(g *group) int64 { return int64(g.count) }), topProductsSize) {
		report.TopProductsByCount = append(report.TopProductsByCount, models.ProductCount{Name: g.key, Count: g.count})
	}

	for _, g := range contents.list {
		report.ContentDistribution = append(report.ContentDistribution, models.LabelCount{Label: g.key, Count: g.count})
	}

	// Month labels sort as plain strings, not calendar order
	byMonth := make([]*group, len(months.list))
	copy(byMonth, months.list)
	sort.SliceStable(byMonth, func(i, j int) bool { return byMonth[i].key < byMonth[j].key })
	for _, g := range byMonth {
		report.PaymentByMonth = append(report.PaymentByMonth, models.MonthPayment{Month: g.key, Payment: g.sum})
	}

	for _, g := range head(accounts.ranked(func(g *group) int64 { return g.sum }), viewsByAccountSize) {
		report.ViewsByAccount = append(report.ViewsByAccount, models.AccountViews{Name: g.key, Views: g.sum})
	}

	s.logger.Debug("[insights] %d rows → %d creators, %d products, payment %d",
		len(filtered), len(accounts.list), len(products.list), report.TotalPayment)
	return report
}

// group accumulates rows sharing one key.
type group struct {
	key   string
	sum   int64
	count int
}

// groups keeps accumulators in first-occurrence order so stable sorts break
// ties by that order.
type groups struct {
	index *utils.OrderedSet
	list  []*group
}

func newGroups() *groups {
	return &groups{index: utils.NewOrderedSet()}
}

// add skips absent keys.
func (gs *groups) add(key sql.NullString, value int64) {
	if !key.Valid || key.String == "" {
		return
	}
	if gs.index.Add(key.String) {
		gs.list = append(gs.list, &group{key: key.String})
	}
	g := gs.list[gs.index.Index(key.String)]
	g.sum += value
	g.count++
}

// ranked returns the groups sorted by metric descending, ties in
// first-occurrence order.
func (gs *groups) ranked(metric func(*group) int64) []*group {
	out := make([]*group, len(gs.list))
	copy(out, gs.list)
	sort.SliceStable(out, func(i, j int) bool { return metric(out[i]) > metric(out[j]) })
	return out
}

func head(gs []*group, n int) []*group {
	if len(gs) > n {
		return gs[:n]
	}
	return gs
}

// roundDiv is round-half-up of sum/count for non-negative inputs.
func roundDiv(sum, count int64) int64 {
	if count == 0 {
		return 0
	}
	return (2*sum + count) / (2 * count)
}

// Print writes a terminal summary of a dashboard view.
func (s *InsightService) Print(w io.Writer, v *models.View) {
	r := v.Report
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  📊 CREATOR DASHBOARD\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total payment  : \033[1;32m%s\033[0m\n", FormatRupiah(r.TotalPayment))
	fmt.Fprintf(w, "  Total creators : \033[1m%d\033[0m\n", r.TotalCreators)
	fmt.Fprintf(w, "  Videos         : \033[1m%d\033[0m (page %d of %d)\n", len(v.Filtered), v.PageNumber, v.TotalPages)
	if v.State.Creator != "" {
		fmt.Fprintf(w, "  Creator        : %s\n", v.State.Creator)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Leaderboard (avg views)\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.Leaderboard) == 0 {
		fmt.Fprintf(w, "  No creators found\n")
	}
	for i, c := range r.Leaderboard {
		fmt.Fprintf(w, "  \033[1m%d.\033[0m %-40s \033[1;32m%s\033[0m\n", i+1, truncate(c.Name, 38), FormatCompact(c.AvgViews))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Top Products by Views\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for i, p := range r.TopProductsByViews {
		fmt.Fprintf(w, "  %d. %-40s %d\n", i+1, truncate(p.Name, 38), p.Views)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Most Produced Products\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for i, p := range r.TopProductsByCount {
		fmt.Fprintf(w, "  %d. %-40s %dx\n", i+1, truncate(p.Name, 38), p.Count)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Content Types\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, c := range r.ContentDistribution {
		bar := strings.Repeat("█", min(c.Count, 40))
		fmt.Fprintf(w, "  %-30s %s (%d)\n", truncate(c.Label, 28), bar, c.Count)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Payment per Month\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, m := range r.PaymentByMonth {
		fmt.Fprintf(w, "  %-30s %s\n", truncate(m.Month, 28), FormatRupiah(m.Payment))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Views by Account\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for i, a := range r.ViewsByAccount {
		fmt.Fprintf(w, "  %2d. %-38s %s\n", i+1, truncate(a.Name, 36), FormatCompact(a.Views))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Lolos: %d | Tidak: %d | Other: %d\n", r.Status.Passed, r.Status.Failed, r.Status.Other)
	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
