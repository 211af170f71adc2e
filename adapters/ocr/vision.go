package ocr

import (
	"context"
	"fmt"
	"strings"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/googleapis/gax-go/v2"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/satriahrh/scanspeak/server/domain"
	"github.com/satriahrh/scanspeak/server/domain/repositories"
)

const providerVision = "vision"

// imageAnnotator is the subset of the Vision client used here
type imageAnnotator interface {
	BatchAnnotateImages(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest, opts ...gax.CallOption) (*visionpb.BatchAnnotateImagesResponse, error)
	Close() error
}

// VisionConfig holds Google Cloud Vision credentials.
// CredentialsJSON wins over CredentialsFile; with neither set the client
// falls back to application default credentials.
type VisionConfig struct {
	CredentialsJSON string
	CredentialsFile string
	LanguageHints   []string
}

// GoogleVision implements TextExtractor using Google Cloud Vision document text detection
type GoogleVision struct {
	client        imageAnnotator
	languageHints []string
	logger        *zap.Logger
}

// Ensure GoogleVision implements the TextExtractor interface
var _ repositories.TextExtractor = (*GoogleVision)(nil)

// NewGoogleVision creates a Vision backed text extractor
func NewGoogleVision(ctx context.Context, config VisionConfig, logger *zap.Logger) (*GoogleVision, error) {
	var opts []option.ClientOption
	switch {
	case config.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(config.CredentialsJSON)))
	case config.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(config.CredentialsFile))
	default:
		logger.Info("Using application default credentials for Vision")
	}

	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vision client: %w", err)
	}

	return newGoogleVisionWithClient(client, config.LanguageHints, logger), nil
}

func newGoogleVisionWithClient(client imageAnnotator, hints []string, logger *zap.Logger) *GoogleVision {
	if len(hints) == 0 {
		hints = []string{"en"}
	}
	return &GoogleVision{
		client:        client,
		languageHints: hints,
		logger:        logger,
	}
}

// Name implements repositories.TextExtractor
func (g *GoogleVision) Name() string {
	return providerVision
}

// ExtractText runs DOCUMENT_TEXT_DETECTION on a single image
func (g *GoogleVision) ExtractText(ctx context.Context, image []byte) (string, error) {
	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: image},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
				ImageContext: &visionpb.ImageContext{
					LanguageHints: g.languageHints,
				},
			},
		},
	}

	resp, err := g.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		g.logger.Error("Vision API call failed", zap.Error(err))
		return "", domain.NewStageError(domain.StageExtraction, domain.KindTransport, providerVision, "", fmt.Errorf("Vision API call failed: %w", err))
	}

	return g.processVisionResponse(resp)
}

// processVisionResponse maps the Vision reply onto extracted text or a typed failure
func (g *GoogleVision) processVisionResponse(resp *visionpb.BatchAnnotateImagesResponse) (string, error) {
	if resp == nil || len(resp.Responses) == 0 {
		return "", domain.NewStageError(domain.StageExtraction, domain.KindNoText, providerVision, "", domain.ErrNoTextDetected)
	}

	imageResp := resp.Responses[0]
	if imageResp.Error != nil && imageResp.Error.Message != "" {
		g.logger.Warn("Vision reported a processing error", zap.String("message", imageResp.Error.Message))
		return "", domain.NewStageError(domain.StageExtraction, domain.KindServiceReported, providerVision, imageResp.Error.Message, nil)
	}

	var text string
	switch {
	case imageResp.FullTextAnnotation != nil:
		text = imageResp.FullTextAnnotation.Text
	case len(imageResp.TextAnnotations) > 0:
		// The first entity annotation holds the whole detected text
		text = imageResp.TextAnnotations[0].Description
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.NewStageError(domain.StageExtraction, domain.KindNoText, providerVision, "", domain.ErrNoTextDetected)
	}

	g.logger.Info("Vision extraction completed", zap.Int("textLength", len(text)))
	return text, nil
}

// Close closes the underlying Vision client.
func (g *GoogleVision) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
