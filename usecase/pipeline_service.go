package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/scanspeak/server/domain"
	"github.com/satriahrh/scanspeak/server/domain/entities"
	"github.com/satriahrh/scanspeak/server/domain/repositories"
	"github.com/satriahrh/scanspeak/server/internal/pipeline"
)

// PipelineService runs extraction, summarization and translation for one image
type PipelineService struct {
	extractor      repositories.TextExtractor
	summaries      *SummaryService
	translator     repositories.Translator
	sourceLanguage string
	targetLanguage string
	runner         *pipeline.Runner
	logger         *zap.Logger
}

// PipelineConfig holds the fixed translation route
type PipelineConfig struct {
	SourceLanguage string
	TargetLanguage string
}

// NewPipelineService creates a new pipeline service
func NewPipelineService(
	extractor repositories.TextExtractor,
	summaries *SummaryService,
	translator repositories.Translator,
	config PipelineConfig,
	logger *zap.Logger,
) *PipelineService {
	if config.SourceLanguage == "" {
		config.SourceLanguage = entities.LanguageEnglish
	}
	if config.TargetLanguage == "" {
		config.TargetLanguage = entities.LanguageTamil
	}

	runner := pipeline.NewRunner(logger)
	runner.Observe(func(event pipeline.Event) {
		logger.Debug("Pipeline event",
			zap.String("requestID", event.RunID),
			zap.String("type", event.Type),
			zap.String("stage", string(event.StepID)),
			zap.String("error", event.Error))
	})

	return &PipelineService{
		extractor:      extractor,
		summaries:      summaries,
		translator:     translator,
		sourceLanguage: config.SourceLanguage,
		targetLanguage: config.TargetLanguage,
		runner:         runner,
		logger:         logger,
	}
}

// Process runs the three text stages in order. The returned result always
// carries one outcome per stage; stages after a failure are marked skipped.
func (s *PipelineService) Process(ctx context.Context, requestID string, image entities.ImagePayload) *entities.ProcessResult {
	result := entities.NewProcessResult(requestID, image)

	if image.Size() == 0 {
		result.Extraction.Err = domain.NewStageError(domain.StageInput, domain.KindInputMissing, "", "", domain.ErrNoImage)
		s.skipAfterExtraction(result)
		return result
	}

	logger := s.logger.With(zap.String("requestID", requestID))
	logger.Info("Processing image",
		zap.String("source", image.Source),
		zap.Int("imageSize", image.Size()))

	steps := []pipeline.Step{
		pipeline.StepFunc{Stage: domain.StageExtraction, Fn: func(ctx context.Context, _ string) pipeline.StepResult {
			text, err := s.extractor.ExtractText(ctx, image.Data)
			if err != nil {
				return pipeline.StepResult{Err: asStageError(domain.StageExtraction, s.extractor.Name(), err)}
			}
			return pipeline.StepResult{Output: text}
		}},
		pipeline.StepFunc{Stage: domain.StageSummarization, Fn: func(ctx context.Context, text string) pipeline.StepResult {
			summary, passthrough, err := s.summaries.Summarize(ctx, text)
			return pipeline.StepResult{Output: summary, Passthrough: passthrough, Err: err}
		}},
		pipeline.StepFunc{Stage: domain.StageTranslation, Fn: func(ctx context.Context, summary string) pipeline.StepResult {
			translated, err := s.translator.Translate(ctx, summary, s.sourceLanguage, s.targetLanguage)
			if err != nil {
				return pipeline.StepResult{Err: asStageError(domain.StageTranslation, s.translator.Name(), err)}
			}
			return pipeline.StepResult{Output: translated}
		}},
	}

	run := s.runner.Run(ctx, requestID, steps, "")

	result.Extraction = outcome(run, domain.StageExtraction)
	result.Summary = outcome(run, domain.StageSummarization)
	result.Translation = outcome(run, domain.StageTranslation)
	if run.CompletedAt != nil {
		result.Duration = run.CompletedAt.Sub(run.StartedAt)
	}

	if err := run.Err(); err != nil {
		logger.Warn("Pipeline stopped early",
			zap.String("errorKind", string(domain.KindOf(err))),
			zap.Error(err))
	}

	return result
}

func (s *PipelineService) skipAfterExtraction(result *entities.ProcessResult) {
	result.Summary.Err = domain.NewStageError(domain.StageSummarization, domain.KindSkipped, "", "", domain.ErrStageSkipped)
	result.Translation.Err = domain.NewStageError(domain.StageTranslation, domain.KindSkipped, "", "", domain.ErrStageSkipped)
	result.Duration = time.Since(result.StartedAt)
}

func outcome(run *pipeline.Run, stage domain.Stage) entities.StageOutcome {
	exec, _ := run.Step(stage)
	o := entities.StageOutcome{
		Stage:       stage,
		Text:        exec.Output,
		Err:         exec.Err,
		Duration:    exec.Duration(),
		Passthrough: exec.Passthrough,
	}
	if exec.StartedAt != nil {
		o.StartedAt = *exec.StartedAt
	}
	return o
}
