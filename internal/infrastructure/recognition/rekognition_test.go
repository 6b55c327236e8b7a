package recognition

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutriscan/backend/internal/domain"
)

type fakeDetector struct {
	labels []types.Label
	err    error
	input  *rekognition.DetectLabelsInput
}

func (f *fakeDetector) DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &rekognition.DetectLabelsOutput{Labels: f.labels}, nil
}

func label(name string, confidence float32) types.Label {
	return types.Label{Name: aws.String(name), Confidence: aws.Float32(confidence)}
}

func TestRekognitionRecognizer_Defaults(t *testing.T) {
	detector := &fakeDetector{labels: []types.Label{label("Pizza", 90)}}
	r := NewRekognitionRecognizerWithClient(detector, RekognitionConfig{}, nil)

	_, err := r.Recognize(context.Background(), testImage())
	require.NoError(t, err)

	require.NotNil(t, detector.input)
	assert.Equal(t, int32(defaultMaxLabels), aws.ToInt32(detector.input.MaxLabels))
	assert.Equal(t, float32(defaultMinConfidence), aws.ToFloat32(detector.input.MinConfidence))
	assert.Equal(t, []byte("jpeg-bytes"), detector.input.Image.Bytes)
}

func TestRekognitionRecognizer_PrefersSpecificLabels(t *testing.T) {
	detector := &fakeDetector{labels: []types.Label{
		label("Food", 99),
		label("Plate", 97),
		label("Pasta", 88),
		label("Spaghetti", 80),
	}}
	r := NewRekognitionRecognizerWithClient(detector, RekognitionConfig{MinConfidence: 70, MaxLabels: 5}, nil)

	result, err := r.Recognize(context.Background(), testImage())
	require.NoError(t, err)

	assert.Equal(t, "Pasta", result.Primary.Name)
	assert.InDelta(t, 0.88, result.Primary.Confidence, 1e-6)
	names := make([]string, 0, len(result.Alternatives))
	for _, alt := range result.Alternatives {
		names = append(names, alt.Name)
	}
	assert.Equal(t, []string{"Spaghetti", "Food", "Plate"}, names)
	assert.Equal(t, float32(70), aws.ToFloat32(detector.input.MinConfidence))
}

func TestRekognitionRecognizer_OnlyGenericLabels(t *testing.T) {
	detector := &fakeDetector{labels: []types.Label{label("Food", 95)}}
	r := NewRekognitionRecognizerWithClient(detector, RekognitionConfig{}, nil)

	result, err := r.Recognize(context.Background(), testImage())
	require.NoError(t, err)
	assert.Equal(t, "Food", result.Primary.Name)
	assert.Empty(t, result.Alternatives)
}

func TestRekognitionRecognizer_Errors(t *testing.T) {
	t.Run("api failure", func(t *testing.T) {
		r := NewRekognitionRecognizerWithClient(&fakeDetector{err: errors.New("throttled")}, RekognitionConfig{}, nil)
		_, err := r.Recognize(context.Background(), testImage())
		assert.ErrorIs(t, err, domain.ErrRecognitionFailed)
		assert.Contains(t, err.Error(), "throttled")
	})

	t.Run("no labels", func(t *testing.T) {
		r := NewRekognitionRecognizerWithClient(&fakeDetector{}, RekognitionConfig{}, nil)
		_, err := r.Recognize(context.Background(), testImage())
		assert.ErrorIs(t, err, domain.ErrRecognitionFailed)
	})
}
