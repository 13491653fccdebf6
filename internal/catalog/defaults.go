package catalog

// DefaultReports returns the built-in report-type catalog used when no
// reports file is configured. It lists plain canonicals; aliases come
// from ExpandReports. Canonical names line up with the umbrella index
// and the fallback phrasings.
func DefaultReports() Catalog {
	return Catalog{
		"דוח תקופתי ושנתי":  nil,
		"דוח רבעוני":        nil,
		"דוח חצי שנתי":      nil,
		"דוחות כספיים":      nil,
		"דוח מיידי":         nil,
		"תשקיף":             nil,
		"אסיפה כללית":       nil,
		"מינוי דירקטור":     nil,
		"מינוי נושא משרה":   nil,
		"שינוי נושאי משרה":  nil,
		"הנפקה לציבור":      nil,
		"הנפקה פרטית":       nil,
		"תוצאות הנפקה":      nil,
		"הליכים משפטיים":    nil,
		"דירוג אשראי":       nil,
		"מיזוג או פיצול":    nil,
		"עסקה מהותית":       nil,
		"עסקה עם בעל שליטה": nil,
		"חלוקת רווחים":      nil,
		"פרטי תאגיד":        nil,
		"מצגת":              nil,
		"הנהלה ונושאי משרה": nil,
		"הנפקת ניירות ערך":  nil,
		"אירועים ועסקאות":   nil,
	}
}
