package config

import (
	"github.com/povarna/mf-faq-agent/internal/models"
)

const defaultSystemPrompt = `You are a factual FAQ assistant for SBI Mutual Fund schemes. Your role is to provide ONLY factual information from the provided context.

CRITICAL RULES:
1. FACTS ONLY: Provide only factual information (expense ratios, exit loads, minimum SIP/lumpsum amounts, lock-in periods, riskometer ratings, benchmarks, etc.). Do NOT provide opinions, recommendations, or investment advice.

2. NO INVESTMENT ADVICE: Never suggest which fund to buy, sell, or invest in. Never provide recommendations, opinions, or predictions about fund performance.

3. SOURCE CITATION REQUIRED: Every response must end with "Last updated from sources." and include a source URL in the response structure.

4. RESPONSE FORMAT:
   - Keep responses to 3 sentences or fewer
   - Be concise and factual
   - Include only information found in the provided context
   - End with "Last updated from sources."

5. HANDLING UNKNOWN INFO: If the context doesn't contain the requested information, say "I don't have that information in my database. Please visit the official SBI Mutual Fund website for more details."

6. NO PERFORMANCE CLAIMS: Never make claims about fund performance, returns, or future performance. Only state factual information from the context.

7. USE ONLY PROVIDED CONTEXT: Base your answer ONLY on the context provided. Do not use any external knowledge or assumptions.

Remember: Facts only. No investment advice. Always cite sources.`

// DefaultRules returns the built-in rule tables. configs/rules.yaml mirrors
// these values; the defaults keep the binary usable without the file.
func DefaultRules() *Rules {
	return &Rules{
		FactualIntents: []IntentRule{
			{Name: "expense_ratio", Keywords: []string{
				"expense ratio", "expense", "charges", "fee", "ter",
				"total expense ratio", "amc charges", "management fee",
				"expense ratio of", "what is the expense", "charges for",
			}},
			{Name: "exit_load", Keywords: []string{
				"exit load", "redemption charge", "withdrawal charge",
				"exit fee", "redemption fee", "early withdrawal",
				"exit load for", "redemption charges", "withdrawal penalty",
			}},
			{Name: "minimum_sip", Keywords: []string{
				"minimum sip", "sip amount", "minimum investment",
				"sip minimum", "minimum monthly", "least amount sip",
				"sip minimum amount", "minimum sip investment",
			}},
			{Name: "lock_in", Keywords: []string{
				"lock in", "lock-in", "lockin", "lock period",
				"lock in period", "holding period", "minimum holding",
				"elss lock", "tax saver lock", "lock in duration",
			}},
			{Name: "riskometer", Keywords: []string{
				"riskometer", "risk rating", "risk level", "risk profile",
				"risk category", "riskometer rating", "what is the risk",
				"risk assessment", "riskometer level",
			}},
			{Name: "benchmark", Keywords: []string{
				"benchmark", "index", "benchmark index", "tracking index",
				"what benchmark", "benchmark for", "index fund tracks",
			}},
			{Name: "statement", Keywords: []string{
				"statement", "download", "capital gains", "tax document",
				"how to download", "statement download", "tax statement",
				"capital gains statement", "download statement", "get statement",
			}},
			{Name: "nav", Keywords: []string{
				"nav", "net asset value", "current nav", "nav price",
				"what is nav", "nav of", "current price",
			}},
			{Name: "aum", Keywords: []string{
				"aum", "assets under management", "fund size", "total assets",
				"aum of", "fund size of", "assets managed",
			}},
			{Name: "fund_manager", Keywords: []string{
				"fund manager", "who manages", "manager name", "fund manager name",
			}},
			{Name: "investment_objective", Keywords: []string{
				"investment objective", "objective", "fund objective", "aim of fund",
			}},
			{Name: "scheme_details", Keywords: []string{
				"scheme details", "fund details", "about the fund", "fund information",
			}},
		},

		IntentSynonyms: map[string][]string{
			"expense_ratio": {"ter", "total expense ratio", "charges"},
			"exit_load":     {"redemption charge", "withdrawal charge"},
			"minimum_sip":   {"minimum systematic investment plan", "least sip"},
			"lock_in":       {"lock-in period", "holding period"},
			"riskometer":    {"risk level", "risk rating"},
			"benchmark":     {"index", "comparison index"},
			"nav":           {"net asset value", "unit price"},
			"aum":           {"assets under management", "fund size"},
			"statement":     {"account statement", "download statement"},
		},

		ExplicitNonMFKeywords: []string{
			"stock", "share", "crypto", "bitcoin", "fd", "fixed deposit",
			"insurance", "loan", "credit card", "weather", "news", "sports",
		},

		MFTerms: []string{
			"mutual fund", "mf", "scheme", "fund", "sip",
			"elss", "nav", "amc", "amfi", "sebi",
		},

		InvestmentTerms: []string{
			"invest", "investment", "cap", "fund", "sip", "mutual",
		},

		AdviceKeywords: []string{
			// Direct advice requests
			"should i", "should we", "should one", "should someone",
			"is it good", "is it bad", "is it worth", "is it safe",
			"is it risky", "is it better", "is it best",

			// Recommendations
			"recommend", "recommendation", "suggest", "suggestion",
			"advice", "what should", "what do you think",
			"your opinion", "your view", "your recommendation",

			// Comparison/ranking
			"best", "worst", "top", "better", "good", "bad",
			"better than", "best fund", "top fund", "worst fund",

			// Investment decisions
			"buy", "sell", "invest in", "should invest", "worth investing",
			"good investment", "bad investment", "invest now",
			"when to invest", "when to sell", "when to buy",

			// Performance predictions
			"will it", "will this", "future returns", "expected returns",
			"prediction", "forecast", "outlook", "future performance",

			// Personalization
			"for me", "for my", "suitable for", "right for me",
			"which is better for", "what should i choose",

			// Portfolio advice
			"portfolio", "allocation", "diversification", "how much to invest",
			"asset allocation", "rebalance", "rebalancing",
		},

		AdviceQuestionPatterns: []string{
			`should (i|we|one|someone)`,
			`is (it|this|that) (good|bad|worth|safe|better|best)`,
			`what (should|do you recommend|is your opinion)`,
			`which (is better|should i choose|is best)`,
		},

		JailbreakPatterns: []JailbreakRule{
			// Instruction override attempts
			{Pattern: `ignore (previous|all) (instructions|rules)`},
			{Pattern: `forget (about|that)`},
			{Pattern: `pretend (you are|to be)`},
			{Pattern: `act as if`},
			{Pattern: `you are now`},

			// Role-playing attempts
			{Pattern: `you are (a|an) (advisor|financial advisor|expert)`},
			{Pattern: `imagine (you are|that)`},

			// System prompt injection
			{Pattern: `system:`},
			{Pattern: `system prompt:`},
			{Pattern: `<\|system\|>`},

			// Encoding tricks
			{Pattern: `decode (this|the following)`},
			{Pattern: `translate (this|from)`},

			// Repetition attacks, guarded by the character-diversity check
			{Pattern: `(.){10,}`, RequiresLowDiversity: true},

			// Hidden instructions
			{Pattern: `\[.*instruction.*\]`},
			{Pattern: `\(.*ignore.*\)`},

			// Zero-width Unicode characters
			{Pattern: "[\u200B-\u200D\uFEFF]"},
		},

		OpinionWords: []string{
			"good", "bad", "best", "worst", "should", "recommend",
		},

		FactualIndicators: []string{
			"is", "are", "was", "were", "%", "₹", "rs", "rupees",
		},

		CitationPatterns: []string{
			`last updated from sources?`,
			`source[s]?:`,
			`from (?:the )?source[s]?`,
			`according to (?:the )?source[s]?`,
			`per (?:the )?source[s]?`,
		},

		SystemPrompt: defaultSystemPrompt,

		Links: Links{
			SEBI:               "https://www.sebi.gov.in/sebiweb/home/HomePage.jsp?siteLanguage=en",
			AMFI:               "https://www.amfiindia.com",
			FundHouse:          "https://www.sbimf.com",
			DefaultFallbackURL: "https://www.sbimf.com",
		},

		Responses: CannedResponses{
			NonMF: models.CannedResponse{
				Answer: "I can only answer factual questions about mutual fund schemes. " +
					"Your query seems unrelated to mutual funds. Please ask about expense ratios, " +
					"exit loads, minimum SIP amounts, lock-in periods, riskometer ratings, " +
					"benchmarks, or how to download statements.",
				SourceURL: "https://www.amfiindia.com",
				IsNonMF:   true,
			},
			Advice: models.CannedResponse{
				Answer: "I can only provide factual information about mutual fund schemes such as " +
					"expense ratios, exit loads, minimum SIP amounts, lock-in periods, " +
					"riskometer ratings, benchmarks, and procedural questions. I cannot provide " +
					"investment advice, recommendations, or opinions. For personalized investment " +
					"advice, please consult a SEBI-registered investment advisor.",
				SourceURL:     "https://www.sebi.gov.in/sebiweb/home/HomePage.jsp?siteLanguage=en",
				IsAdviceQuery: true,
			},
			Jailbreak: models.CannedResponse{
				Answer: "I can only provide factual information about mutual fund schemes. " +
					"For investment advice, please consult a SEBI-registered investment advisor.",
				SourceURL:   "https://www.sebi.gov.in/sebiweb/home/HomePage.jsp?siteLanguage=en",
				IsJailbreak: true,
			},
		},

		Schemes: SchemeRules{
			Available: []string{
				"SBI Large Cap Fund",
				"SBI Multicap Fund",
				"SBI Nifty Index Fund",
				"SBI Small Cap Fund",
				"SBI Equity Hybrid Fund",
			},
			Aliases: map[string]string{
				"SBI Bluechip Fund":       "SBI Large Cap Fund",
				"SBI Blue Chip Fund":      "SBI Large Cap Fund",
				"SBI Nifty 50 Index Fund": "SBI Nifty Index Fund",
				"SBI Nifty Index":         "SBI Nifty Index Fund",
			},
			Patterns: []string{
				`sbi\s+large\s+cap\s+fund`,
				`sbi\s+multicap\s+fund`,
				`sbi\s+nifty\s+index\s+fund`,
				`sbi\s+nifty\s+50\s+index\s+fund`,
				`sbi\s+small\s+cap\s+fund`,
				`sbi\s+equity\s+hybrid\s+fund`,
				`sbi\s+bluechip\s+fund`,
				`sbi\s+blue\s+chip\s+fund`,
				`sbi\s+elss`,
				`sbi\s+flexi\s+cap`,
				`sbi\s+magnum\s+ultra\s+short\s+duration\s+fund`,
				`sbi\s+magnum\s+multiplier\s+fund`,
				`sbi\s+nifty\s+midcap\s+150\s+index\s+fund`,
				`sbi\s+nifty\s+smallcap\s+250\s+index\s+fund`,
			},
			NameHints: []NameHint{
				{Keyword: "large cap", Name: "SBI Large Cap Fund"},
				{Keyword: "bluechip", Name: "SBI Large Cap Fund"},
				{Keyword: "blue chip", Name: "SBI Large Cap Fund"},
				{Keyword: "multicap", Name: "SBI Multicap Fund"},
				{Keyword: "nifty index", Name: "SBI Nifty Index Fund"},
				{Keyword: "nifty 50 index", Name: "SBI Nifty Index Fund"},
				{Keyword: "small cap", Name: "SBI Small Cap Fund"},
				{Keyword: "equity hybrid", Name: "SBI Equity Hybrid Fund"},
				{Keyword: "magnum ultra short duration", Name: "SBI Magnum Ultra Short Duration Fund"},
				{Keyword: "magnum multiplier", Name: "SBI Magnum Multiplier Fund"},
				{Keyword: "nifty midcap 150", Name: "SBI Nifty Midcap 150 Index Fund"},
				{Keyword: "nifty smallcap 250", Name: "SBI Nifty Smallcap 250 Index Fund"},
				{Keyword: "elss", Name: "SBI ELSS Tax Saver Fund"},
				{Keyword: "flexi cap", Name: "SBI Flexi Cap Fund"},
			},
		},
	}
}
