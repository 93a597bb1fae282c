package ingest

import (
	"context"
	"errors"
	"strings"
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

const testPage = `<!DOCTYPE html>
<html>
<head><title>Support</title></head>
<body>
<article><p>Reset the device by holding the power button for ten seconds until the light blinks.</p></article>
<footer>Call us: (555) 123-4567</footer>
</body>
</html>`

func TestIndex_BuildsAlignedDocuments(t *testing.T) {
	embedder := new(MockEmbedder)
	embedder.On("GenerateEmbedding", mock.Anything, mock.AnythingOfType("string")).
		Return([]float32{0.1, 0.2, 0.3}, nil)

	ix := NewIndexer(embedder, DefaultChunkConfig())
	docs, err := ix.Index(context.Background(), []domain.Page{
		{URL: "https://example.com/support", HTML: testPage},
	})

	require.NoError(t, err)
	require.Len(t, docs, 1)
	doc := docs[0]
	assert.Equal(t, "https://example.com/support", doc.ID)
	assert.Equal(t, "https://example.com/support", doc.URL)
	assert.Contains(t, doc.Text, "Reset the device")
	assert.Contains(t, doc.Text, "(555) 123-4567")
	require.Len(t, doc.Chunks, 1)
	require.Len(t, doc.Vectors, 1)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, doc.Vectors[0])
}

func TestIndex_SkipsEmptyPages(t *testing.T) {
	embedder := new(MockEmbedder)
	embedder.On("GenerateEmbedding", mock.Anything, mock.AnythingOfType("string")).
		Return([]float32{1}, nil)

	ix := NewIndexer(embedder, DefaultChunkConfig())
	docs, err := ix.Index(context.Background(), []domain.Page{
		{URL: "https://example.com/empty", HTML: "<!DOCTYPE html><html><body></body></html>"},
		{URL: "https://example.com/full", HTML: testPage},
	})

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "https://example.com/full", docs[0].URL)
}

func TestIndex_EmptyBatch(t *testing.T) {
	ix := NewIndexer(new(MockEmbedder), DefaultChunkConfig())

	docs, err := ix.Index(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestIndex_EmbeddingFailureAbortsBatch(t *testing.T) {
	embedder := new(MockEmbedder)
	embedder.On("GenerateEmbedding", mock.Anything, mock.AnythingOfType("string")).
		Return(nil, errors.New("backend unavailable"))

	ix := NewIndexer(embedder, DefaultChunkConfig())
	docs, err := ix.Index(context.Background(), []domain.Page{
		{URL: "https://example.com/support", HTML: testPage},
	})

	assert.Error(t, err)
	assert.Nil(t, docs)
	assert.Contains(t, err.Error(), "backend unavailable")
}

func TestIndex_VectorsFollowFlattenOrder(t *testing.T) {
	pageA := `<!DOCTYPE html><html><head><title>A</title></head><body><article><p>` +
		"Alpha content about pairing your phone with the desktop server over local wifi." +
		`</p></article></body></html>`
	pageB := `<!DOCTYPE html><html><head><title>B</title></head><body><article><p>` +
		"Beta content about firewall rules and which ports the server listens on." +
		`</p></article></body></html>`

	embedder := new(MockEmbedder)
	embedder.On("GenerateEmbedding", mock.Anything, mock.MatchedBy(func(text string) bool {
		return strings.Contains(text, "Alpha content")
	})).Return([]float32{1}, nil)
	embedder.On("GenerateEmbedding", mock.Anything, mock.MatchedBy(func(text string) bool {
		return strings.Contains(text, "Beta content")
	})).Return([]float32{2}, nil)

	ix := NewIndexer(embedder, DefaultChunkConfig())
	docs, err := ix.Index(context.Background(), []domain.Page{
		{URL: "https://example.com/a", HTML: pageA},
		{URL: "https://example.com/b", HTML: pageB},
	})

	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Len(t, docs[0].Vectors, len(docs[0].Chunks))
	require.Len(t, docs[1].Vectors, len(docs[1].Chunks))
	assert.Equal(t, []float32{1}, docs[0].Vectors[0])
	assert.Equal(t, []float32{2}, docs[1].Vectors[0])
}
