package parser

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sharonv/disclosq/internal/model"
)

// ParseBatch runs the heuristic phase over every text, escalates the subset
// that needs it with a single batched LLM call, and reconciles each
// escalated index independently. The returned slice is aligned with texts;
// non-escalated indices keep their heuristic-only result.
func (p *Parser) ParseBatch(ctx context.Context, texts []string) []*model.ParseResult {
	results := make([]*model.ParseResult, len(texts))
	var needs []int
	for i, t := range texts {
		res := p.ParseHeuristic(t)
		results[i] = res
		if p.shouldEscalate(res) {
			needs = append(needs, i)
		} else {
			p.lateResidualCheck(t, res)
		}
	}
	if len(needs) == 0 {
		return results
	}

	subset := make([]string, len(needs))
	for j, i := range needs {
		subset[j] = texts[i]
	}

	p.logger.Debug("batch escalation", zap.Int("total", len(texts)), zap.Int("escalated", len(needs)))

	llmResults, err := p.provider.ParseQueryBatch(ctx, subset, p.companies, p.reports)
	if err != nil {
		p.logger.Warn("llm batch escalation failed", zap.Error(err))
		for _, i := range needs {
			results[i].AddNote(fmt.Sprintf("LLM escalation failed: %v", err))
			p.lateResidualCheck(texts[i], results[i])
		}
		return results
	}

	for j, i := range needs {
		if j >= len(llmResults) || llmResults[j] == nil {
			p.lateResidualCheck(texts[i], results[i])
			continue
		}
		results[i] = p.reconcile(results[i], llmResults[j])
	}
	return results
}
