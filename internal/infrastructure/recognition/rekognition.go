package recognition

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"go.uber.org/zap"

	"github.com/nutriscan/backend/internal/domain"
	"github.com/nutriscan/backend/internal/logger"
)

const (
	defaultMaxLabels     = 10
	defaultMinConfidence = 60
)

// labelsNotFood are generic labels Rekognition attaches to most meal photos
var labelsNotFood = map[string]bool{
	"food":      true,
	"meal":      true,
	"dish":      true,
	"plate":     true,
	"produce":   true,
	"lunch":     true,
	"dinner":    true,
	"breakfast": true,
	"platter":   true,
	"cutlery":   true,
	"fork":      true,
	"spoon":     true,
	"table":     true,
}

// LabelDetector is the subset of the Rekognition API the recognizer uses
type LabelDetector interface {
	DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

// RekognitionConfig configures the AWS recognizer
type RekognitionConfig struct {
	Region string
	// MinConfidence is on Rekognition's 0-100 scale
	MinConfidence float32
	MaxLabels     int32
}

// RekognitionRecognizer names foods with AWS Rekognition DetectLabels
type RekognitionRecognizer struct {
	client        LabelDetector
	minConfidence float32
	maxLabels     int32
	logger        *zap.Logger
}

// NewRekognitionRecognizer loads the default AWS credential chain for the region
func NewRekognitionRecognizer(ctx context.Context, cfg RekognitionConfig, log *zap.Logger) (*RekognitionRecognizer, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewRekognitionRecognizerWithClient(rekognition.NewFromConfig(awsCfg), cfg, log), nil
}

// NewRekognitionRecognizerWithClient wraps an existing detector
func NewRekognitionRecognizerWithClient(client LabelDetector, cfg RekognitionConfig, log *zap.Logger) *RekognitionRecognizer {
	r := &RekognitionRecognizer{
		client:        client,
		minConfidence: cfg.MinConfidence,
		maxLabels:     cfg.MaxLabels,
		logger:        logger.OrNop(log).Named("rekognition"),
	}
	if r.minConfidence <= 0 {
		r.minConfidence = defaultMinConfidence
	}
	if r.maxLabels <= 0 {
		r.maxLabels = defaultMaxLabels
	}
	return r
}

// Recognize returns the most specific label as the primary prediction.
// Generic labels such as "Food" are only used when nothing else was detected.
func (r *RekognitionRecognizer) Recognize(ctx context.Context, image domain.Image) (*domain.Recognition, error) {
	out, err := r.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: image.Data},
		MaxLabels:     aws.Int32(r.maxLabels),
		MinConfidence: aws.Float32(r.minConfidence),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRecognitionFailed, err)
	}

	var specific, generic []domain.Prediction
	for _, label := range out.Labels {
		name := strings.TrimSpace(aws.ToString(label.Name))
		if name == "" {
			continue
		}
		prediction := domain.Prediction{
			Name:       name,
			Confidence: float64(aws.ToFloat32(label.Confidence)) / 100,
		}
		if labelsNotFood[strings.ToLower(name)] {
			generic = append(generic, prediction)
			continue
		}
		specific = append(specific, prediction)
	}

	predictions := append(specific, generic...)
	if len(predictions) == 0 {
		return nil, fmt.Errorf("%w: no labels detected", domain.ErrRecognitionFailed)
	}

	r.logger.Debug("labels detected",
		zap.String("primary", predictions[0].Name),
		zap.Int("labels", len(predictions)))

	return &domain.Recognition{
		Primary:      predictions[0],
		Alternatives: predictions[1:],
	}, nil
}
