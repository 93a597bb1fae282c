package openai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAPI is a mock for the upstream backend
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func (m *MockAPI) CreateChatCompletion(ctx context.Context, messages []Message, temperature float32) (string, error) {
	args := m.Called(ctx, messages, temperature)
	return args.String(0), args.Error(1)
}

func TestClient_GenerateEmbedding_Success(t *testing.T) {
	mockAPI := new(MockAPI)
	client := &Client{api: mockAPI}

	ctx := context.Background()
	text := "How do I connect my phone to the PC server?"
	expectedEmbedding := make([]float32, 1536)
	for i := range expectedEmbedding {
		expectedEmbedding[i] = float32(i) * 0.001
	}

	mockAPI.On("CreateEmbedding", ctx, text).Return(expectedEmbedding, nil)

	embedding, err := client.GenerateEmbedding(ctx, text)

	assert.NoError(t, err)
	assert.Len(t, embedding, 1536)
	assert.Equal(t, expectedEmbedding, embedding)
	mockAPI.AssertExpectations(t)
}

func TestClient_GenerateEmbedding_EmptyText(t *testing.T) {
	client := NewClient("")

	ctx := context.Background()
	embedding, err := client.GenerateEmbedding(ctx, "")

	assert.Error(t, err)
	assert.Nil(t, embedding)
	assert.Equal(t, ErrEmptyText, err)
}

func TestClient_GenerateEmbedding_APIError(t *testing.T) {
	mockAPI := new(MockAPI)
	client := &Client{api: mockAPI}

	ctx := context.Background()
	text := "Test text"
	apiErr := errors.New("API rate limit exceeded")

	mockAPI.On("CreateEmbedding", ctx, text).Return(nil, apiErr)

	embedding, err := client.GenerateEmbedding(ctx, text)

	assert.Error(t, err)
	assert.Nil(t, embedding)
	assert.Contains(t, err.Error(), "failed to create embedding")
	mockAPI.AssertExpectations(t)
}

func TestClient_GenerateEmbedding_WrongDimensions(t *testing.T) {
	mockAPI := new(MockAPI)
	client := &Client{api: mockAPI}

	ctx := context.Background()
	text := "Test text"
	wrongEmbedding := make([]float32, 512)

	mockAPI.On("CreateEmbedding", ctx, text).Return(wrongEmbedding, nil)

	embedding, err := client.GenerateEmbedding(ctx, text)

	assert.Error(t, err)
	assert.Nil(t, embedding)
	assert.ErrorIs(t, err, ErrWrongDimensions)
	mockAPI.AssertExpectations(t)
}

func TestClient_GenerateCompletion_Success(t *testing.T) {
	mockAPI := new(MockAPI)
	client := &Client{api: mockAPI}

	ctx := context.Background()
	messages := []Message{
		{Role: RoleSystem, Content: "You are a support assistant."},
		{Role: RoleUser, Content: "How do I reset the server?"},
	}

	mockAPI.On("CreateChatCompletion", ctx, messages, float32(0.2)).
		Return("Restart the server from the tray icon. [S1]", nil)

	answer, err := client.GenerateCompletion(ctx, messages, 0.2)

	assert.NoError(t, err)
	assert.Equal(t, "Restart the server from the tray icon. [S1]", answer)
	mockAPI.AssertExpectations(t)
}

func TestClient_GenerateCompletion_NoMessages(t *testing.T) {
	client := NewClient("")

	_, err := client.GenerateCompletion(context.Background(), nil, 0.2)

	assert.Error(t, err)
	assert.Equal(t, ErrEmptyText, err)
}

func TestClient_GenerateCompletion_APIError(t *testing.T) {
	mockAPI := new(MockAPI)
	client := &Client{api: mockAPI}

	messages := []Message{{Role: RoleUser, Content: "hello"}}
	mockAPI.On("CreateChatCompletion", mock.Anything, messages, float32(0)).
		Return("", errors.New("model overloaded"))

	_, err := client.GenerateCompletion(context.Background(), messages, 0)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create completion")
	mockAPI.AssertExpectations(t)
}

func TestNewClient(t *testing.T) {
	client := NewClient("test-api-key")

	assert.NotNil(t, client)
	assert.NotNil(t, client.api)
	assert.Equal(t, DefaultEmbeddingDimensions, client.dimensions)
}
