package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/povarna/mf-faq-agent/internal/models"
)

// Rules is the declarative rule set behind the classifier, the scheme
// resolver, the expander and the validator. Loaded once at startup and
// never mutated afterwards.
type Rules struct {
	FactualIntents         []IntentRule        `yaml:"factual_intents"`
	IntentSynonyms         map[string][]string `yaml:"intent_synonyms"`
	ExplicitNonMFKeywords  []string            `yaml:"explicit_non_mf_keywords"`
	MFTerms                []string            `yaml:"mf_terms"`
	InvestmentTerms        []string            `yaml:"investment_terms"`
	AdviceKeywords         []string            `yaml:"advice_keywords"`
	AdviceQuestionPatterns []string            `yaml:"advice_question_patterns"`
	JailbreakPatterns      []JailbreakRule     `yaml:"jailbreak_patterns"`
	OpinionWords           []string            `yaml:"opinion_words"`
	FactualIndicators      []string            `yaml:"factual_indicators"`
	CitationPatterns       []string            `yaml:"citation_patterns"`
	SystemPrompt           string              `yaml:"system_prompt"`
	Links                  Links               `yaml:"links"`
	Responses              CannedResponses     `yaml:"responses"`
	Schemes                SchemeRules         `yaml:"schemes"`
}

// IntentRule maps a factual intent name to its trigger phrases. Order in
// the slice is the matching order: the first intent with a matching phrase
// wins.
type IntentRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// JailbreakRule is one detection pattern. RequiresLowDiversity marks the
// excessive-repetition pattern, which only fires when the query has fewer
// than three distinct characters.
type JailbreakRule struct {
	Pattern              string `yaml:"pattern"`
	RequiresLowDiversity bool   `yaml:"requires_low_diversity,omitempty"`
}

type Links struct {
	SEBI               string `yaml:"sebi"`
	AMFI               string `yaml:"amfi"`
	FundHouse          string `yaml:"fund_house"`
	DefaultFallbackURL string `yaml:"default_fallback_url"`
}

type CannedResponses struct {
	NonMF     models.CannedResponse `yaml:"non_mf"`
	Advice    models.CannedResponse `yaml:"advice"`
	Jailbreak models.CannedResponse `yaml:"jailbreak"`
}

// SchemeRules holds the static scheme allow-list, the alias map and the
// ordered resolution patterns.
type SchemeRules struct {
	Available []string          `yaml:"available"`
	Aliases   map[string]string `yaml:"aliases"`
	Patterns  []string          `yaml:"patterns"`
	NameHints []NameHint        `yaml:"name_hints"`
}

// NameHint disambiguates a pattern match to a canonical scheme name. The
// first hint whose keyword appears in the matched text wins.
type NameHint struct {
	Keyword string `yaml:"keyword"`
	Name    string `yaml:"name"`
}

// LoadRules reads the rule tables from the YAML file pointed to by
// RULES_CONFIG_PATH (default: configs/rules.yaml). Missing file or missing
// sections fall back to the built-in defaults.
func LoadRules() (*Rules, error) {
	path := os.Getenv("RULES_CONFIG_PATH")
	if path == "" {
		path = "configs/rules.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultRules()
			return cfg, cfg.Validate()
		}
		return nil, err
	}

	var cfg Rules
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse rules config %s: %w", path, err)
	}

	applyRuleDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyRuleDefaults(cfg *Rules) {
	def := DefaultRules()

	if len(cfg.FactualIntents) == 0 {
		cfg.FactualIntents = def.FactualIntents
	}
	if len(cfg.IntentSynonyms) == 0 {
		cfg.IntentSynonyms = def.IntentSynonyms
	}
	if len(cfg.ExplicitNonMFKeywords) == 0 {
		cfg.ExplicitNonMFKeywords = def.ExplicitNonMFKeywords
	}
	if len(cfg.MFTerms) == 0 {
		cfg.MFTerms = def.MFTerms
	}
	if len(cfg.InvestmentTerms) == 0 {
		cfg.InvestmentTerms = def.InvestmentTerms
	}
	if len(cfg.AdviceKeywords) == 0 {
		cfg.AdviceKeywords = def.AdviceKeywords
	}
	if len(cfg.AdviceQuestionPatterns) == 0 {
		cfg.AdviceQuestionPatterns = def.AdviceQuestionPatterns
	}
	if len(cfg.JailbreakPatterns) == 0 {
		cfg.JailbreakPatterns = def.JailbreakPatterns
	}
	if len(cfg.OpinionWords) == 0 {
		cfg.OpinionWords = def.OpinionWords
	}
	if len(cfg.FactualIndicators) == 0 {
		cfg.FactualIndicators = def.FactualIndicators
	}
	if len(cfg.CitationPatterns) == 0 {
		cfg.CitationPatterns = def.CitationPatterns
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = def.SystemPrompt
	}
	if cfg.Links == (Links{}) {
		cfg.Links = def.Links
	}
	if cfg.Responses.NonMF.Answer == "" {
		cfg.Responses.NonMF = def.Responses.NonMF
	}
	if cfg.Responses.Advice.Answer == "" {
		cfg.Responses.Advice = def.Responses.Advice
	}
	if cfg.Responses.Jailbreak.Answer == "" {
		cfg.Responses.Jailbreak = def.Responses.Jailbreak
	}
	if len(cfg.Schemes.Available) == 0 {
		cfg.Schemes.Available = def.Schemes.Available
	}
	if len(cfg.Schemes.Aliases) == 0 {
		cfg.Schemes.Aliases = def.Schemes.Aliases
	}
	if len(cfg.Schemes.Patterns) == 0 {
		cfg.Schemes.Patterns = def.Schemes.Patterns
	}
	if len(cfg.Schemes.NameHints) == 0 {
		cfg.Schemes.NameHints = def.Schemes.NameHints
	}
}

// Validate compiles every regex so a bad table fails at startup rather than
// on the first query.
func (r *Rules) Validate() error {
	for _, p := range r.Schemes.Patterns {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("invalid scheme pattern %q: %w", p, err)
		}
	}
	for _, p := range r.JailbreakPatterns {
		if _, err := regexp.Compile(p.Pattern); err != nil {
			return fmt.Errorf("invalid jailbreak pattern %q: %w", p.Pattern, err)
		}
	}
	for _, p := range r.AdviceQuestionPatterns {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("invalid advice question pattern %q: %w", p, err)
		}
	}
	for _, p := range r.CitationPatterns {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("invalid citation pattern %q: %w", p, err)
		}
	}
	if len(r.Schemes.Available) == 0 {
		return fmt.Errorf("scheme allow-list is empty")
	}
	if r.Links.DefaultFallbackURL == "" {
		return fmt.Errorf("default fallback URL is empty")
	}
	return nil
}
