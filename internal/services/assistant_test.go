package services

import (
	"context"
	"errors"
	"testing"

	"github.com/krushiiq/apiserver/internal/store"
	"github.com/krushiiq/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModel struct {
	configured bool
	answer     string
	err        error
	prompts    []string
	mimeTypes  []string
}

func (m *fakeModel) Configured() bool { return m.configured }

func (m *fakeModel) Generate(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return m.answer, m.err
}

func (m *fakeModel) DescribeImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	m.mimeTypes = append(m.mimeTypes, mimeType)
	return m.answer, m.err
}

type fakeArchive struct {
	key string
	err error
}

func (a fakeArchive) ArchiveImage(ctx context.Context, filename, contentType string, data []byte, metadata map[string]string) (string, error) {
	return a.key, a.err
}

func newAssistantService(model Model, archive ImageArchive) (*AssistantService, *store.MemoryGateway) {
	gw := store.NewMemoryGateway()
	recorder := NewRecorder(store.NewAdvisoryRepository(gw), nil, nil)
	return NewAssistantService(model, recorder, archive, nil), gw
}

func TestAssistantUnavailable(t *testing.T) {
	svc, gw := newAssistantService(&fakeModel{}, nil)

	assertKind(t, svc.Available(), ErrUnavailable, NotConfiguredMessage)

	_, err := svc.RecommendCrop(context.Background(), "Pune", "June")
	assertKind(t, err, ErrUnavailable, NotConfiguredMessage)

	_, err = svc.DetectDisease(context.Background(), Image{Filename: "a.png", ContentType: "image/png"})
	assertKind(t, err, ErrUnavailable, NotConfiguredMessage)
	assert.Zero(t, gw.Count(store.CollectionAI))
}

func TestAssistantRecommendCrop(t *testing.T) {
	model := &fakeModel{configured: true, answer: "Grow rice."}
	svc, gw := newAssistantService(model, nil)

	got, err := svc.RecommendCrop(context.Background(), "Pune", "June")
	require.NoError(t, err)
	assert.Equal(t, types.AIRecommendation{Recommendation: "Grow rice."}, got)
	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "in Pune during the month of June")

	var record types.AdvisoryRecord
	require.NoError(t, gw.FindOne(context.Background(), store.CollectionAI, store.Filter{"type": "crop"}, &record))
	assert.Equal(t, types.SourceAI, record.Source)
	assert.Equal(t, "Grow rice.", record.Output["recommendation"])
}

func TestAssistantUpstreamFailure(t *testing.T) {
	svc, _ := newAssistantService(&fakeModel{configured: true, err: errors.New("quota exceeded")}, nil)

	_, err := svc.RecommendPesticide(context.Background(), "rice", "blast")
	assertKind(t, err, ErrUpstream, "Failed to get AI recommendation: quota exceeded")

	_, err = svc.DetectDisease(context.Background(), Image{Filename: "a.png", ContentType: "image/png", Data: []byte{1}})
	assertKind(t, err, ErrUpstream, "Failed to process image: quota exceeded")
}

func TestAssistantDetectDiseaseArchivesImage(t *testing.T) {
	model := &fakeModel{configured: true, answer: "Leaf blast."}
	svc, gw := newAssistantService(model, fakeArchive{key: "disease-images/abc.png"})

	got, err := svc.DetectDisease(context.Background(), Image{Filename: "leaf.png", ContentType: "image/png", Data: []byte{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, "Leaf blast.", got.DetectionResult)
	assert.Equal(t, []string{"image/png"}, model.mimeTypes)

	var record types.AdvisoryRecord
	require.NoError(t, gw.FindOne(context.Background(), store.CollectionAI, store.Filter{"type": "disease"}, &record))
	assert.Equal(t, "disease-images/abc.png", record.Input["object_key"])
}

func TestAssistantArchiveFailureIsNotFatal(t *testing.T) {
	model := &fakeModel{configured: true, answer: "Healthy."}
	svc, gw := newAssistantService(model, fakeArchive{err: errors.New("bucket missing")})

	_, err := svc.DetectDisease(context.Background(), Image{Filename: "leaf.jpg", ContentType: "image/jpeg", Data: []byte{1}})
	require.NoError(t, err)
	assert.Equal(t, 1, gw.Count(store.CollectionAI))
}
