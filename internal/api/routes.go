package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/scanspeak/server/domain"
	"github.com/satriahrh/scanspeak/server/domain/entities"
)

// ImageProcessor runs the text stages for one image
type ImageProcessor interface {
	Process(ctx context.Context, requestID string, image entities.ImagePayload) *entities.ProcessResult
}

// SpeechSynthesizer produces an MP3 clip for text
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, lang string) (*entities.AudioClip, error)
}

type handler struct {
	processor ImageProcessor
	speech    SpeechSynthesizer
	logger    *zap.Logger
}

// InitRoutes initializes all routes. The echo instance must have a Renderer
// that knows index.html and result.html.
func InitRoutes(e *echo.Echo, processor ImageProcessor, speech SpeechSynthesizer, logger *zap.Logger) {
	h := &handler{processor: processor, speech: speech, logger: logger}

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "scanspeak-server",
		})
	})

	e.GET("/", h.index)
	e.POST("/process", h.process)
	e.GET("/audio/:lang", h.audio)

	// API v1 routes
	v1 := e.Group("/api/v1")
	v1.POST("/process", h.processJSON)
}

func (h *handler) index(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", nil)
}

func (h *handler) process(c echo.Context) error {
	image, err := ReadImage(c)
	if err != nil {
		// The page flow reports unreadable input inline, like any stage failure.
		return c.String(http.StatusOK, h.inputMessage(c, err))
	}

	result := h.processor.Process(c.Request().Context(), requestID(c), image)
	return c.Render(http.StatusOK, "result.html", newResultView(result))
}

func (h *handler) processJSON(c echo.Context) error {
	image, err := ReadImage(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   string(inputErrorKind(err)),
			Message: h.inputMessage(c, err),
		})
	}

	result := h.processor.Process(c.Request().Context(), requestID(c), image)
	return c.JSON(http.StatusOK, NewProcessResponse(result))
}

func (h *handler) audio(c echo.Context) error {
	lang := c.Param("lang")
	if _, ok := entities.AudioFilename(lang); !ok {
		return c.String(http.StatusNotFound, fmt.Sprintf("no audio route for language %q, supported: %s",
			lang, strings.Join(entities.SpeechLanguages(), ", ")))
	}

	clip, err := h.speech.Synthesize(c.Request().Context(), c.QueryParam("text"), lang)
	if err != nil {
		h.logger.Warn("Audio request failed",
			zap.String("requestID", requestID(c)),
			zap.String("lang", lang),
			zap.String("errorKind", string(domain.KindOf(err))),
			zap.Error(err))

		status := http.StatusBadGateway
		if domain.KindOf(err) == domain.KindInvalidInput {
			status = http.StatusBadRequest
		}
		return c.String(status, domain.Display(err))
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", clip.Filename))
	return c.Blob(http.StatusOK, clip.ContentType, clip.Data)
}

// inputMessage renders why the image could not be read
func (h *handler) inputMessage(c echo.Context, err error) string {
	if errors.Is(err, domain.ErrNoImage) {
		return domain.NoImageMessage
	}

	h.logger.Warn("Failed to decode image",
		zap.String("requestID", requestID(c)),
		zap.Error(err))
	return domain.Display(err)
}

func inputErrorKind(err error) domain.ErrorKind {
	if errors.Is(err, domain.ErrNoImage) {
		return domain.KindInputMissing
	}
	if kind := domain.KindOf(err); kind != "" {
		return kind
	}
	return domain.KindDecodeFailure
}

// requestID returns the id set by the RequestID middleware, or a fresh one
func requestID(c echo.Context) string {
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	if id := c.Request().Header.Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return uuid.NewString()
}
