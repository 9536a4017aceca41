package keywords

// stopWords is a curated, domain-preserving stop-list: common function
// words and particles in both scripts, deliberately excluding domain terms
// such as "defect", "requirement", "module", "user", and "test" (and their
// Chinese equivalents) that the category vocabulary above depends on.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"of": true, "to": true, "in": true, "on": true, "at": true, "for": true,
	"with": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "being": true, "this": true, "that": true,
	"these": true, "those": true, "it": true, "its": true, "as": true,
	"by": true, "from": true, "not": true, "no": true, "so": true,

	"的": true, "了": true, "和": true, "是": true, "在": true, "与": true,
	"对": true, "及": true, "等": true, "后": true, "前": true, "中": true,
	"也": true, "都": true, "有": true, "将": true, "为": true, "以": true,
	"到": true, "并": true, "但": true, "或": true, "被": true, "就": true,
	"这": true, "那": true, "而": true, "又": true, "还": true, "再": true,
}
