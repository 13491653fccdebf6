// Package parser orchestrates the full query-understanding pipeline:
// normalization, alias matching, timeframe and quantity extraction,
// confidence scoring, terminal classification of out-of-domain input, and
// the escalation-and-reconciliation loop against the LLM fallback.
package parser

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/sharonv/disclosq/internal/catalog"
	"github.com/sharonv/disclosq/internal/hebtext"
	"github.com/sharonv/disclosq/internal/llm"
	"github.com/sharonv/disclosq/internal/match"
	"github.com/sharonv/disclosq/internal/model"
	"github.com/sharonv/disclosq/internal/quantity"
	"github.com/sharonv/disclosq/internal/reports"
	"github.com/sharonv/disclosq/internal/score"
	"github.com/sharonv/disclosq/internal/timeframe"
)

const (
	companyFuzzyThreshold = 90
	reportFuzzyThreshold  = 85

	// vagueLengthCap is the rune cap under which an otherwise empty
	// imperative request is classified as too vague.
	vagueLengthCap = 25
)

// Options tunes a Parser.
type Options struct {
	// ExpandAliases derives extra catalog aliases (legal-suffix trimming,
	// singular/plural flips) before matching.
	ExpandAliases bool
	// AllowLLM permits escalation to the LLM fallback when heuristics
	// come up short.
	AllowLLM bool
	// ForceAbsolute converts relative timeframes to absolute date ranges.
	ForceAbsolute bool
	// Today is the reference date for timeframe resolution. Zero means
	// the current UTC day.
	Today time.Time
}

// Parser runs the end-to-end parse for disclosure-search queries.
type Parser struct {
	companies catalog.Catalog
	reports   catalog.Catalog

	companyEntries []match.AliasEntry
	reportEntries  []match.AliasEntry
	adjacency      *regexp.Regexp
	umbrella       catalog.UmbrellaIndex

	provider llm.Provider
	logger   *zap.Logger
	opts     Options
}

// New builds a Parser over the given catalogs. provider may be nil, in
// which case escalation is disabled regardless of Options.AllowLLM.
func New(companies, reportCatalog catalog.Catalog, umbrella catalog.UmbrellaIndex, provider llm.Provider, logger *zap.Logger, opts Options) *Parser {
	if opts.ExpandAliases {
		companies = catalog.ExpandCompanies(companies)
		reportCatalog = catalog.ExpandReports(reportCatalog)
	}
	if umbrella == nil {
		umbrella = catalog.DefaultUmbrellaIndex()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	reportEntries := catalog.Flatten(reportCatalog)
	phrases := make([]string, 0, len(reportEntries))
	for _, e := range reportEntries {
		phrases = append(phrases, e.Alias)
	}

	return &Parser{
		companies:      companies,
		reports:        reportCatalog,
		companyEntries: catalog.Flatten(companies),
		reportEntries:  reportEntries,
		adjacency:      quantity.ReportAdjacencyPattern(phrases),
		umbrella:       umbrella,
		provider:       provider,
		logger:         logger,
		opts:           opts,
	}
}

// Parse runs the full pipeline on a single query: heuristics first, then,
// when permitted and needed, one LLM escalation reconciled through a second
// heuristic pass over a sentence synthesized from the LLM answer.
func (p *Parser) Parse(ctx context.Context, text string) *model.ParseResult {
	res := p.ParseHeuristic(text)

	if !p.shouldEscalate(res) {
		p.lateResidualCheck(text, res)
		return res
	}

	p.logger.Debug("escalating to llm",
		zap.Float64("confidence", res.Confidence),
		zap.Bool("empty", res.IsEmpty()))

	llmRes, err := p.provider.ParseQuery(ctx, text, p.companies, p.reports)
	if err != nil {
		p.logger.Warn("llm escalation failed", zap.Error(err))
		res.AddNote(fmt.Sprintf("LLM escalation failed: %v", err))
		return res
	}
	return p.reconcile(res, llmRes)
}

func (p *Parser) shouldEscalate(res *model.ParseResult) bool {
	if !p.opts.AllowLLM || p.provider == nil || res.Error != "" {
		return false
	}
	return res.IsEmpty() || res.Confidence < 1.0
}

// ParseHeuristic runs the heuristic-only phase: match, extract, score and
// classify, with no LLM involvement.
func (p *Parser) ParseHeuristic(text string) *model.ParseResult {
	res := model.NewParseResult()
	norm := hebtext.Normalize(text)
	stripped := hebtext.RemoveStopWords(norm)

	// Companies match on the stop-word-preserving text so names built
	// from particles ("אל על") survive.
	compRes := match.Find(norm, p.companyEntries, match.Options{PreferLongest: true})
	if len(compRes.Canonicals) == 0 {
		compRes = match.FindFuzzy(norm, p.companyEntries, companyFuzzyThreshold, match.Options{PreferLongest: true})
	}
	res.Companies = compRes.Canonicals
	res.MatchedCompanyAliases = compRes.MatchedAliases
	for _, n := range compRes.Notes {
		res.AddNote(n)
	}

	repRes := match.Find(stripped, p.reportEntries, match.Options{
		PreferLongest:       true,
		AllowOverlaps:       true,
		PrioritizeFullMatch: true,
	})
	if len(repRes.Canonicals) == 0 {
		repRes = match.FindFuzzy(stripped, p.reportEntries, reportFuzzyThreshold, match.Options{PreferLongest: true, AllowOverlaps: true})
	}
	res.ReportTypes = reports.Postprocess(repRes.Canonicals, norm, p.umbrella)
	res.MatchedReportAliases = repRes.MatchedAliases
	for _, n := range repRes.Notes {
		res.AddNote(n)
	}

	tf, tfNotes, tfSpan := timeframe.Extract(norm, p.opts.Today)
	if tf.Kind == model.TimeFrameRelative && p.opts.ForceAbsolute {
		tf = timeframe.RelativeToAbsolute(tf, p.opts.Today)
	}
	res.TimeFrame = tf
	for _, n := range tfNotes {
		res.AddNote(n)
	}

	// Quantity runs on the same normalized text as the timeframe so every
	// blocked span lives in one coordinate space.
	reportSpans := remapSpans(norm, repRes, stripped)
	blocked := append([]match.Span{}, reportSpans...)
	if tfSpan != nil {
		blocked = append(blocked, *tfSpan)
	}
	qty, qtyNotes, qtySpan := quantity.Extract(norm, p.adjacency, blocked)
	res.Quantity = qty
	for _, n := range qtyNotes {
		res.AddNote(n)
	}

	pooled := append([]match.Span{}, compRes.Spans...)
	pooled = append(pooled, reportSpans...)
	if tfSpan != nil {
		pooled = append(pooled, *tfSpan)
	}
	if qtySpan != nil {
		pooled = append(pooled, *qtySpan)
	}
	res.Confidence = score.Coverage(norm, pooled)
	res.HeuristicsUnderstoodText = score.CoveredText(norm, pooled)

	p.classify(text, res)
	return res
}

// remapSpans translates report-match spans from stop-word-stripped
// coordinates back into the normalized text. Aliases that appear verbatim
// get their span directly; aliases that only matched across a removed stop
// word fall back to per-token spans.
func remapSpans(norm string, repRes match.Result, stripped string) []match.Span {
	if len(repRes.Spans) == 0 {
		return nil
	}
	normTokens := hebtext.Tokens(norm)
	var out []match.Span
	for _, s := range repRes.Spans {
		if s.End > len(stripped) {
			continue
		}
		surface := stripped[s.Start:s.End]
		if idx := strings.Index(norm, surface); idx >= 0 {
			out = append(out, match.Span{Start: idx, End: idx + len(surface)})
			continue
		}
		for _, tok := range strings.Fields(surface) {
			for _, nt := range normTokens {
				if strings.EqualFold(nt.Text, tok) {
					out = append(out, match.Span{Start: nt.Start, End: nt.End})
					break
				}
			}
		}
	}
	return out
}

var (
	priceIntentRe  = regexp.MustCompile(`(?:מחיר|שער)\s+(?:ה)?מנ(?:יה|יית|יות)`)
	adviceIntentRe = regexp.MustCompile(`(?:כדאי|שווה|מומלץ)\s+(?:לקנות|למכור|להשקיע)|המלצ(?:ה|ות)\s+(?:על\s+)?(?:השקעה|השקעות|מניות)`)
	sqlKeywordRe   = regexp.MustCompile(`(?i)\b(?:SELECT|INSERT|UPDATE|DELETE|DROP|UNION)\b`)
	imperativeRe   = regexp.MustCompile(`תראה|הצג|חפש|מצא|תן|רוצה|אפשר`)
)

const (
	errPriceIntent  = "Unintelligible query: The query is about stock prices, not company announcements."
	errAdviceIntent = "Unintelligible query: The query asks for investment advice, not company announcements."
	errSQLPattern   = "Invalid query: The query contains SQL keywords."
	errNoHebrew     = "Unintelligible query: No Hebrew keywords detected in the query."
	errTooVague     = "Unintelligible query: The query is too short or vague to interpret."
	errTooShort     = "Unintelligible query: The query is too short."
)

// classify runs the pre-escalation terminal checks against the raw input.
func (p *Parser) classify(raw string, res *model.ParseResult) {
	if priceIntentRe.MatchString(raw) {
		res.SetError(errPriceIntent)
		return
	}
	if adviceIntentRe.MatchString(raw) {
		res.SetError(errAdviceIntent)
		return
	}
	if sqlKeywordRe.MatchString(raw) {
		res.SetError(errSQLPattern)
		return
	}
	if !res.IsEmpty() {
		return
	}
	if !hebtext.HasHebrew(raw) {
		if utf8.RuneCountInString(strings.TrimSpace(raw)) < 3 {
			res.SetError(errTooShort)
		} else {
			res.SetError(errNoHebrew)
		}
		return
	}
	if utf8.RuneCountInString(strings.TrimSpace(raw)) <= vagueLengthCap && imperativeRe.MatchString(raw) {
		res.SetError(errTooVague)
	}
}

// lateResidualCheck covers inputs that dodged both the pre-escalation
// classification and the LLM.
func (p *Parser) lateResidualCheck(raw string, res *model.ParseResult) {
	if res.Error != "" || !res.IsEmpty() || hebtext.HasHebrew(raw) {
		return
	}
	trimmed := strings.TrimSpace(raw)
	switch {
	case utf8.RuneCountInString(trimmed) < 3:
		res.SetError(errTooShort)
	case sqlKeywordRe.MatchString(raw):
		res.SetError(errSQLPattern)
	default:
		res.SetError(errNoHebrew)
	}
}

// synthesizeSentence turns an LLM answer into a plain sentence the
// heuristic pipeline can re-parse.
func synthesizeSentence(r *llm.Result) string {
	var parts []string
	parts = append(parts, r.Companies...)
	parts = append(parts, r.ReportTypes...)
	switch {
	case r.TimeFrame.Raw != "":
		parts = append(parts, r.TimeFrame.Raw)
	case r.TimeFrame.Kind == model.TimeFrameAbsolute:
		parts = append(parts,
			r.TimeFrame.StartDate.Format(model.DateLayout),
			"עד",
			r.TimeFrame.EndDate.Format(model.DateLayout))
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// reconcile merges the pre-escalation heuristic result, the LLM answer and
// a heuristic re-parse of the synthesized sentence into the final result.
func (p *Parser) reconcile(pre *model.ParseResult, llmRes *llm.Result) *model.ParseResult {
	sentence := synthesizeSentence(llmRes)
	if sentence == "" {
		final := model.NewParseResult()
		final.Companies = llmRes.Companies
		final.ReportTypes = llmRes.ReportTypes
		final.Quantity = llmRes.Quantity
		final.TimeFrame = llmRes.TimeFrame
		final.Confidence = pre.Confidence
		final.HeuristicsUnderstoodText = pre.HeuristicsUnderstoodText
		final.LLMRaw = llmRes.Raw
		final.Notes = append(append([]string{}, pre.Notes...), llmRes.Notes...)
		return final
	}

	final := p.ParseHeuristic(sentence)
	final.FinalUnderstoodText = final.HeuristicsUnderstoodText
	final.HeuristicsUnderstoodText = pre.HeuristicsUnderstoodText
	final.LLMRaw = llmRes.Raw

	switch {
	case llmRes.TimeFrame.Kind == model.TimeFrameAbsolute:
		final.TimeFrame = llmRes.TimeFrame
	case final.TimeFrame.Kind == model.TimeFrameRelative && p.opts.ForceAbsolute:
		final.TimeFrame = timeframe.RelativeToAbsolute(final.TimeFrame, p.opts.Today)
	case final.TimeFrame.Kind == model.TimeFrameNone && llmRes.TimeFrame.Kind != model.TimeFrameNone:
		final.TimeFrame = llmRes.TimeFrame
	}

	if len(final.ReportTypes) == 0 {
		final.ReportTypes = llmRes.ReportTypes
	}
	if final.Quantity == nil {
		final.Quantity = llmRes.Quantity
	}

	notes := append([]string{}, pre.Notes...)
	notes = append(notes, llmRes.Notes...)
	notes = append(notes, final.Notes...)
	notes = append(notes, fmt.Sprintf("Reparsed synthesized sentence with heuristics: '%s' (Option B)", sentence))
	final.Notes = notes
	return final
}
