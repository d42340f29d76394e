package service

import (
	"context"
	"fmt"
	"time"

	"github.com/samiatarot/platform-api/internal/domain"
	"github.com/samiatarot/platform-api/internal/infra/observability"
	"github.com/samiatarot/platform-api/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var translationTracer = otel.Tracer("service/translation")

// TranslationService fills the missing language side of bilingual fields.
// Authors submit content in one language; every create/update path runs its
// LocalizedText fields through Complete before persisting, so both columns
// are always populated.
type TranslationService struct {
	translator port.Translator
	cache      port.Cache[string]
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewTranslationService creates a new translation service.
func NewTranslationService(translator port.Translator, cache port.Cache[string], metrics *observability.Metrics, logger *zap.Logger) *TranslationService {
	return &TranslationService{translator: translator, cache: cache, metrics: metrics, logger: logger}
}

// Complete returns text with both language sides populated. A field with
// both sides filled (or both empty) passes through unchanged. When exactly
// one side is missing it is filled from the translator, falling back to a
// copy of the source text if translation fails: a translator outage must
// never block a submission. The table name only scopes the cache key.
func (s *TranslationService) Complete(ctx context.Context, table string, text domain.LocalizedText) domain.LocalizedText {
	target, ok := text.MissingSide()
	if !ok {
		return text
	}

	ctx, span := translationTracer.Start(ctx, "TranslationService.Complete")
	defer span.End()
	span.SetAttributes(
		attribute.String("translation.table", table),
		attribute.String("translation.target", string(target)),
	)

	source := target.Other()
	sourceText := text.Get(source)

	translated, err := s.translate(ctx, table, sourceText, source, target)
	if err != nil {
		s.logger.Warn("translation failed, copying source text",
			zap.String("table", table),
			zap.String("source", string(source)),
			zap.String("target", string(target)),
			zap.Error(err))
		s.metrics.IncrTranslation("fallback")
		text.Set(target, sourceText)
		return text
	}

	s.metrics.IncrTranslation("completed")
	text.Set(target, translated)
	return text
}

// CompleteAll runs Complete over several fields of one record.
func (s *TranslationService) CompleteAll(ctx context.Context, table string, fields ...*domain.LocalizedText) {
	for _, f := range fields {
		if f == nil {
			continue
		}
		*f = s.Complete(ctx, table, *f)
	}
}

// Translate is the one-shot translation used by POST /v1/translate. Unlike
// Complete it propagates errors: the admin UI wants to know when the
// translator is down.
func (s *TranslationService) Translate(ctx context.Context, req *domain.TranslateRequest) (*domain.TranslateResponse, error) {
	ctx, span := translationTracer.Start(ctx, "TranslationService.Translate")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("translate", time.Since(start))
	}()

	if req.Text == "" {
		return nil, &domain.ErrValidation{Field: "text", Message: "required"}
	}
	source := domain.ParseLanguage(req.Source, "")
	target := domain.ParseLanguage(req.Target, "")
	if !source.Valid() {
		return nil, &domain.ErrValidation{Field: "source", Message: "must be ar or en"}
	}
	if !target.Valid() || target == source {
		return nil, &domain.ErrValidation{Field: "target", Message: "must be the other supported language"}
	}

	table := req.Table
	if table == "" {
		table = "adhoc"
	}

	key := cacheKey(table, target, req.Text)
	if cached, ok := s.cache.Get(key); ok {
		s.metrics.IncrCacheHit("translations")
		return &domain.TranslateResponse{
			TranslatedText: cached,
			Source:         req.Source,
			Target:         req.Target,
			FromCache:      true,
		}, nil
	}
	s.metrics.IncrCacheMiss("translations")

	translated, err := s.translator.Translate(ctx, req.Text, source, target)
	if err != nil {
		s.metrics.IncrTranslation("error")
		return nil, err
	}

	s.cache.Set(key, translated)
	s.metrics.IncrTranslation("completed")
	return &domain.TranslateResponse{
		TranslatedText: translated,
		Source:         req.Source,
		Target:         req.Target,
	}, nil
}

func (s *TranslationService) translate(ctx context.Context, table, text string, source, target domain.Language) (string, error) {
	key := cacheKey(table, target, text)
	if cached, ok := s.cache.Get(key); ok {
		s.metrics.IncrCacheHit("translations")
		return cached, nil
	}
	s.metrics.IncrCacheMiss("translations")

	translated, err := s.translator.Translate(ctx, text, source, target)
	if err != nil {
		return "", err
	}
	s.cache.Set(key, translated)
	return translated, nil
}

func cacheKey(table string, target domain.Language, text string) string {
	return fmt.Sprintf("translations:%s:%s:%s", table, target, text)
}
