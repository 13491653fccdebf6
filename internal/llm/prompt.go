package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/sharonv/disclosq/internal/catalog"
	"github.com/sharonv/disclosq/internal/model"
)

// maxPromptNames caps how many canonical names are listed in a prompt to
// keep token usage bounded.
const maxPromptNames = 200

func joinNames(c catalog.Catalog) string {
	names := c.Canonicals()
	if len(names) == 0 {
		return "(none)"
	}
	if len(names) > maxPromptNames {
		names = names[:maxPromptNames]
	}
	return strings.Join(names, ", ")
}

// BuildPrompt constructs the extraction prompt for a single query.
func BuildPrompt(text string, companies, reports catalog.Catalog, today time.Time) string {
	return fmt.Sprintf(`You extract structured search filters from Hebrew queries about company disclosures.

Today's date is %s.

Known companies: %s
Known report types: %s

Respond with a single JSON object and nothing else, using these keys:
- "COMPANIES": list of company names mentioned (use the known names when possible)
- "REPORT_TYPES": list of report types requested (use the known types when possible)
- "QUANTITY": integer result limit, or null
- "START_DATE": "YYYY-MM-DD" or null
- "END_DATE": "YYYY-MM-DD" or null
- "TIMEFRAME": the time expression quoted from the query, in Hebrew, or null

Rules:
- Resolve relative time expressions against today's date.
- A year mentioned as a time reference is never a quantity.
- Use null for anything the query does not specify.

Query: %s`,
		today.Format(model.DateLayout), joinNames(companies), joinNames(reports), text)
}

// BuildBatchPrompt constructs the extraction prompt for several queries at
// once. Each query is numbered and the model must echo the number back.
func BuildBatchPrompt(texts []string, companies, reports catalog.Catalog, today time.Time) string {
	var numbered strings.Builder
	for i, t := range texts {
		fmt.Fprintf(&numbered, "%d: %s\n", i, t)
	}
	return fmt.Sprintf(`You extract structured search filters from Hebrew queries about company disclosures.

Today's date is %s.

Known companies: %s
Known report types: %s

Below are numbered queries. Respond with a single JSON array and nothing
else. Each element must be an object with an "INDEX" key echoing the
query number, plus:
- "COMPANIES": list of company names mentioned (use the known names when possible)
- "REPORT_TYPES": list of report types requested (use the known types when possible)
- "QUANTITY": integer result limit, or null
- "START_DATE": "YYYY-MM-DD" or null
- "END_DATE": "YYYY-MM-DD" or null
- "TIMEFRAME": the time expression quoted from the query, in Hebrew, or null

Rules:
- Resolve relative time expressions against today's date.
- A year mentioned as a time reference is never a quantity.
- Use null for anything a query does not specify.
- Include exactly one element per query.

Queries:
%s`,
		today.Format(model.DateLayout), joinNames(companies), joinNames(reports), numbered.String())
}
