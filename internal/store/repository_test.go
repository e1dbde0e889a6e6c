package store

import (
	"context"
	"testing"

	"github.com/krushiiq/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	gw := NewMemoryGateway()
	require.NoError(t, EnsureIndexes(ctx, gw))
	repo := NewUserRepository(gw)

	created, err := repo.Create(ctx, types.User{
		Username:     "ravi",
		Email:        "ravi@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	byEmail, err := repo.GetByEmail(ctx, "ravi@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.PasswordHash)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ravi", byID.Username)

	_, err = repo.Create(ctx, types.User{Username: "other", Email: "ravi@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = repo.GetByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFarmerRepositoryUpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	gw := NewMemoryGateway()
	repo := NewFarmerRepository(gw)

	profile := types.FarmerProfile{Name: "Jane Smith", Location: "Mysore, Karnataka", LandAcres: 5, Language: "kn"}
	_, err := repo.Upsert(ctx, profile)
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, profile)
	require.NoError(t, err)

	assert.Equal(t, 1, gw.Count(CollectionFarmers))

	profile.Location = "Mandya, Karnataka"
	_, err = repo.Upsert(ctx, profile)
	require.NoError(t, err)

	got, err := repo.GetByName(ctx, "Jane Smith")
	require.NoError(t, err)
	assert.Equal(t, "Mandya, Karnataka", got.Location)
	assert.Equal(t, 5.0, got.LandAcres)
	assert.Equal(t, 1, gw.Count(CollectionFarmers))
}

func TestAdvisoryRepositoryRoutesCollections(t *testing.T) {
	ctx := context.Background()
	gw := NewMemoryGateway()
	repo := NewAdvisoryRepository(gw)

	records := []types.AdvisoryRecord{
		{Kind: types.AdvisoryCrop},
		{Kind: types.AdvisoryYield},
		{Kind: types.AdvisoryPesticide},
		{Kind: types.AdvisoryDisease},
		{Kind: types.AdvisoryDisease, Source: types.SourceAI},
	}
	for _, record := range records {
		record.Input = map[string]any{"crop": "wheat"}
		record.Output = map[string]any{"ok": true}
		saved, err := repo.Create(ctx, record)
		require.NoError(t, err)
		assert.NotEmpty(t, saved.ID)
	}

	for _, collection := range []string{
		CollectionRecommendations,
		CollectionPredictions,
		CollectionPesticides,
		CollectionDetections,
		CollectionAI,
	} {
		assert.Equal(t, 1, gw.Count(collection), collection)
	}
}

func TestMongoFilterConvertsObjectIDs(t *testing.T) {
	oid := primitive.NewObjectID()

	filter := mongoFilter(Filter{"_id": oid.Hex(), "email": "a@example.com"})
	assert.Equal(t, oid, filter["_id"])
	assert.Equal(t, "a@example.com", filter["email"])

	filter = mongoFilter(Filter{"_id": "not-an-object-id"})
	assert.Equal(t, "not-an-object-id", filter["_id"])
}

func TestUniqueIndexStatement(t *testing.T) {
	got := uniqueIndexStatement("users", "email")
	assert.Equal(t,
		`CREATE UNIQUE INDEX IF NOT EXISTS "documents_users_email_key" ON documents ((doc->>'email')) WHERE collection = 'users'`,
		got,
	)
}

func TestFilterToJSON(t *testing.T) {
	got, err := filterToJSON(Filter{"name": "Jane"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Jane"}`, got)
}
