package kpi

import (
	"fmt"
	"strings"

	"report-dashboard/internal/format"
)

// DefaultCompany is the organisation named in the executive summary.
const DefaultCompany = "Pioneer Broadband"

// Summary writes the executive summary paragraph. It needs total revenue, ARPU,
// churn rate and a non-empty revenue-by-category aggregate; average penetration
// is mentioned only when it was computed.
func Summary(res Result, revenue CategoryAggregate, company string) (string, error) {
	if company == "" {
		company = DefaultCompany
	}

	var missing []string
	values := make(map[Metric]float64, 3)
	for _, m := range []Metric{TotalRevenue, ARPU, ChurnRate} {
		v, ok := res.Get(m)
		if !ok {
			missing = append(missing, string(m))
			continue
		}
		values[m] = v
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s not computed", ErrSummaryUnavailable, strings.Join(missing, ", "))
	}

	top, ok := revenue.Top()
	if !ok {
		return "", fmt.Errorf("%w: no revenue by %s", ErrSummaryUnavailable, categoryLabel(revenue))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "For the selected period, %s generated %s in total revenue with an ARPU of %s.",
		company, format.Currency(values[TotalRevenue]), format.Currency(values[ARPU]))
	if pen, ok := res.Get(AvgPenetration); ok {
		fmt.Fprintf(&b, " The churn rate for this period was %s, with an average penetration of %s across products.",
			format.Percent(values[ChurnRate]), format.Percent(pen))
	} else {
		fmt.Fprintf(&b, " The churn rate for this period was %s.", format.Percent(values[ChurnRate]))
	}
	fmt.Fprintf(&b, " Revenue was primarily driven by %s (%s).", top.Category, format.Currency(top.Value))
	return b.String(), nil
}

func categoryLabel(a CategoryAggregate) string {
	if a.CategoryColumn == "" {
		return "category"
	}
	return strings.ToLower(a.CategoryColumn)
}
