package classifier

import (
	"github.com/rs/zerolog"

	"github.com/povarna/mf-faq-agent/internal/config"
	"github.com/povarna/mf-faq-agent/internal/models"
)

// Classifier combines the safety and intent detectors under the fixed
// priority rule: jailbreak > advice > non_mf > factual. Jailbreak is the
// most severe negative class, off-topic the least.
type Classifier struct {
	jailbreak *JailbreakDetector
	advice    *AdviceDetector
	offTopic  *OffTopicDetector
	intent    *IntentDetector
	responses config.CannedResponses
	logger    *zerolog.Logger
}

func New(rules *config.Rules, logger *zerolog.Logger) (*Classifier, error) {
	jailbreak, err := NewJailbreakDetector(rules.JailbreakPatterns)
	if err != nil {
		return nil, err
	}

	advice, err := NewAdviceDetector(jailbreak, rules.AdviceKeywords, rules.AdviceQuestionPatterns)
	if err != nil {
		return nil, err
	}

	return &Classifier{
		jailbreak: jailbreak,
		advice:    advice,
		offTopic:  NewOffTopicDetector(rules.ExplicitNonMFKeywords, rules.InvestmentTerms, rules.MFTerms),
		intent:    NewIntentDetector(rules.FactualIntents),
		responses: rules.Responses,
		logger:    logger,
	}, nil
}

// Classify normalizes the raw query and applies the detectors in priority
// order. Every non-factual label carries its canned response; factual
// queries carry none. A blank query defaults to factual so it proceeds to
// retrieval rather than being blocked.
func (c *Classifier) Classify(rawQuery string) (models.Classification, *models.CannedResponse) {
	normalized := Normalize(rawQuery)

	if normalized == "" {
		return models.ClassificationFactual, nil
	}

	if c.jailbreak.Detect(normalized) {
		c.logger.Warn().Str("query", normalized).Msg("jailbreak attempt detected")
		canned := c.responses.Jailbreak
		return models.ClassificationJailbreak, &canned
	}

	if c.advice.Detect(normalized) {
		c.logger.Info().Str("query", normalized).Msg("advice-seeking query blocked")
		canned := c.responses.Advice
		return models.ClassificationAdvice, &canned
	}

	if c.offTopic.Detect(normalized) {
		c.logger.Info().Str("query", normalized).Msg("off-topic query blocked")
		canned := c.responses.NonMF
		return models.ClassificationNonMF, &canned
	}

	return models.ClassificationFactual, nil
}

// Intent exposes factual-intent detection for the expander and the
// retrieval top-k selection. Unrecognized intents return "".
func (c *Classifier) Intent(normalizedQuery string) string {
	return c.intent.Detect(normalizedQuery)
}
