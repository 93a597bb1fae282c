package retrieval

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wayfinder-ai/wayfinder/internal/domain"
)

type MockEmbedder struct {
	mock.Mock
}

func (m *MockEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func TestCosine_Identity(t *testing.T) {
	v := []float32{0.3, -0.5, 0.8}
	assert.InDelta(t, 1.0, Cosine(v, v), 1e-9)
}

func TestCosine_Orthogonal(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	assert.InDelta(t, 0.0, Cosine(a, b), 1e-9)
}

func TestCosine_Opposite(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{-1, -2, -3}
	assert.InDelta(t, -1.0, Cosine(a, b), 1e-9)
}

func TestCosine_Bounds(t *testing.T) {
	a := []float32{0.12, -0.99, 0.43, 0.01}
	b := []float32{-0.7, 0.2, 0.9, -0.33}
	score := Cosine(a, b)
	assert.LessOrEqual(t, score, 1.0)
	assert.GreaterOrEqual(t, score, -1.0)
}

func TestCosine_ZeroVector(t *testing.T) {
	a := []float32{0, 0, 0}
	b := []float32{1, 2, 3}
	score := Cosine(a, b)
	assert.False(t, math.IsNaN(score))
	assert.Equal(t, 0.0, score)
}

func TestRetrieve_RanksByCosine(t *testing.T) {
	embedder := new(MockEmbedder)
	embedder.On("GenerateEmbedding", mock.Anything, troubleshootingGuide).
		Return([]float32{0, 0, 1}, nil).Once()
	embedder.On("GenerateEmbedding", mock.Anything, "how do I pair?").
		Return([]float32{0, 1, 0}, nil)

	corpus := []*domain.Document{
		{
			ID: "https://example.com/a", URL: "https://example.com/a", Title: "A",
			Chunks:  []string{"chunk one", "chunk two", "chunk three"},
			Vectors: [][]float32{{1, 0, 0}, {0, 1, 0}, {0.5, 0.5, 0}},
		},
	}

	r := NewRetriever(embedder)
	hits, err := r.Retrieve(context.Background(), "how do I pair?", corpus, 1)

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "chunk two", hits[0].Chunk)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
	assert.Equal(t, "A", hits[0].Title)
	assert.Equal(t, "https://example.com/a", hits[0].URL)
}

func TestRetrieve_AlwaysIncludesGuide(t *testing.T) {
	embedder := new(MockEmbedder)
	embedder.On("GenerateEmbedding", mock.Anything, mock.AnythingOfType("string")).
		Return([]float32{1, 0}, nil)

	r := NewRetriever(embedder)
	hits, err := r.Retrieve(context.Background(), "anything", nil, 5)

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Wayfinder Troubleshooting Guide", hits[0].Title)
	assert.Equal(t, "wayfinder.app/help", hits[0].URL)
}

func TestRetrieve_GuideEmbeddedOnce(t *testing.T) {
	embedder := new(MockEmbedder)
	embedder.On("GenerateEmbedding", mock.Anything, troubleshootingGuide).
		Return([]float32{0, 1}, nil).Once()
	embedder.On("GenerateEmbedding", mock.Anything, "q1").Return([]float32{1, 0}, nil)
	embedder.On("GenerateEmbedding", mock.Anything, "q2").Return([]float32{1, 0}, nil)

	r := NewRetriever(embedder)
	_, err := r.Retrieve(context.Background(), "q1", nil, 5)
	require.NoError(t, err)
	_, err = r.Retrieve(context.Background(), "q2", nil, 5)
	require.NoError(t, err)

	embedder.AssertExpectations(t)
	embedder.AssertNumberOfCalls(t, "GenerateEmbedding", 3)
}

func TestRetrieve_TopKLimit(t *testing.T) {
	embedder := new(MockEmbedder)
	embedder.On("GenerateEmbedding", mock.Anything, mock.AnythingOfType("string")).
		Return([]float32{1, 0}, nil)

	corpus := []*domain.Document{
		{
			ID: "d", URL: "https://example.com/d", Title: "D",
			Chunks:  []string{"c1", "c2", "c3", "c4", "c5", "c6", "c7"},
			Vectors: [][]float32{{1, 0}, {1, 0}, {1, 0}, {1, 0}, {1, 0}, {1, 0}, {1, 0}},
		},
	}

	r := NewRetriever(embedder)
	hits, err := r.Retrieve(context.Background(), "q", corpus, 0)

	require.NoError(t, err)
	assert.Len(t, hits, DefaultTopK)
}

func TestRetrieve_QueryEmbedFailure(t *testing.T) {
	embedder := new(MockEmbedder)
	embedder.On("GenerateEmbedding", mock.Anything, troubleshootingGuide).
		Return([]float32{1}, nil).Once()
	embedder.On("GenerateEmbedding", mock.Anything, "boom").
		Return(nil, errors.New("backend down"))

	r := NewRetriever(embedder)
	_, err := r.Retrieve(context.Background(), "boom", nil, 5)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "embed query")
}
