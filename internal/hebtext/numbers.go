package hebtext

// NumberWords maps Hebrew numeral words to their values, covering both
// masculine and feminine forms plus round tens.
var NumberWords = map[string]int{
	"אחד":    1,
	"אחת":    1,
	"שניים":  2,
	"שתיים":  2,
	"שני":    2,
	"שתי":    2,
	"שלושה":  3,
	"שלוש":   3,
	"ארבעה":  4,
	"ארבע":   4,
	"חמישה":  5,
	"חמש":    5,
	"שישה":   6,
	"שש":     6,
	"שבעה":   7,
	"שבע":    7,
	"שמונה":  8,
	"תשעה":   9,
	"תשע":    9,
	"עשרה":   10,
	"עשר":    10,
	"עשרים":  20,
	"שלושים": 30,
	"ארבעים": 40,
	"חמישים": 50,
	"שישים":  60,
	"שבעים":  70,
	"שמונים": 80,
	"תשעים":  90,
	"מאה":    100,
}

// DualWords are Hebrew dual forms meaning "two of" a time unit. They are
// time expressions, never standalone quantities.
var DualWords = map[string]int{
	"שבועיים": 2,
	"חודשיים": 2,
	"שנתיים":  2,
}
