package services_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/profilehub/internal/errors"
	"github.com/vytor/profilehub/internal/metrics"
	"github.com/vytor/profilehub/internal/models"
	"github.com/vytor/profilehub/internal/repository"
	"github.com/vytor/profilehub/internal/repository/sqlstore"
	"github.com/vytor/profilehub/internal/services"
	tu "github.com/vytor/profilehub/internal/testutil"
	"github.com/vytor/profilehub/internal/testutil/mocks"
)

func TestUpsertProfile_RejectsBlankFullName(t *testing.T) {
	for _, name := range []string{"", "   ", "\t\n"} {
		t.Run("name="+name, func(t *testing.T) {
			repo := new(mocks.MockProfileRepository)
			svc := services.NewProfileService(repo)

			_, err := svc.UpsertProfile(context.Background(), models.ProfileInput{FullName: name, Age: models.AgeOf(30)})

			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
			assert.Contains(t, err.Error(), "full_name")
			repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
		})
	}
}

func TestUpsertProfile_AgeValidation(t *testing.T) {
	tests := []struct {
		name    string
		age     models.AgeInput
		wantErr bool
		want    *int
	}{
		{name: "not provided", age: ""},
		{name: "lower bound", age: "0", want: tu.IntPtr(0)},
		{name: "upper bound", age: "120", want: tu.IntPtr(120)},
		{name: "negative", age: "-1", wantErr: true},
		{name: "too old", age: "121", wantErr: true},
		{name: "not a number", age: "abc", wantErr: true},
		{name: "fractional", age: "30.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockProfileRepository)
			svc := services.NewProfileService(repo)
			in := models.ProfileInput{FullName: "Ana", Age: tt.age}

			if tt.wantErr {
				_, err := svc.UpsertProfile(context.Background(), in)
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
				assert.Contains(t, err.Error(), "age must be a number between 0 and 120")
				repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
				return
			}

			repo.On("Upsert", mock.Anything, mock.MatchedBy(func(p models.Profile) bool {
				if tt.want == nil {
					return p.Age == nil
				}
				return p.Age != nil && *p.Age == *tt.want
			})).Return(models.UpsertResult{Mode: models.UpsertCreated, ID: 1}, nil)

			_, err := svc.UpsertProfile(context.Background(), in)
			require.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}

func TestUpsertProfile_StateLength(t *testing.T) {
	repo := new(mocks.MockProfileRepository)
	svc := services.NewProfileService(repo)

	_, err := svc.UpsertProfile(context.Background(), models.ProfileInput{FullName: "Ana", State: "SPX"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestUpsertProfile_PassesFieldsThrough(t *testing.T) {
	repo := new(mocks.MockProfileRepository)
	svc := services.NewProfileService(repo)

	want := models.Profile{
		FullName:        "Ana Maria",
		Age:             tu.IntPtr(30),
		Street:          "Rua Exemplo, 123",
		Neighborhood:    "Bairro Central",
		State:           "SP",
		Bio:             "bio",
		ProfileImageURL: "data:image/png;base64,AAAA",
	}
	repo.On("Upsert", mock.Anything, want).Return(models.UpsertResult{Mode: models.UpsertUpdated, ID: 7}, nil)

	res, err := svc.UpsertProfile(context.Background(), models.ProfileInput{
		FullName:        "Ana Maria",
		Age:             "30",
		Street:          "Rua Exemplo, 123",
		Neighborhood:    "Bairro Central",
		State:           " SP ",
		Bio:             "bio",
		ProfileImageURL: "data:image/png;base64,AAAA",
	})
	require.NoError(t, err)
	assert.Equal(t, models.UpsertResult{Mode: models.UpsertUpdated, ID: 7}, res)
	repo.AssertExpectations(t)
}

func TestUpsertProfile_VanishedRecordIsNotFound(t *testing.T) {
	repo := new(mocks.MockProfileRepository)
	svc := services.NewProfileService(repo)
	repo.On("Upsert", mock.Anything, mock.Anything).Return(models.UpsertResult{}, repository.ErrNotFound)

	before := testutil.ToFloat64(metrics.ProfileWrites.WithLabelValues(metrics.OutcomeNotFound))
	_, err := svc.UpsertProfile(context.Background(), models.ProfileInput{FullName: "Ana"})

	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.ProfileWrites.WithLabelValues(metrics.OutcomeNotFound)))
}

func TestUpsertProfile_CountsOutcome(t *testing.T) {
	for _, tc := range []struct {
		mode    models.UpsertMode
		outcome string
	}{
		{models.UpsertCreated, metrics.OutcomeCreated},
		{models.UpsertUpdated, metrics.OutcomeUpdated},
	} {
		t.Run(tc.outcome, func(t *testing.T) {
			repo := new(mocks.MockProfileRepository)
			repo.On("Upsert", mock.Anything, mock.Anything).Return(models.UpsertResult{Mode: tc.mode, ID: 1}, nil)
			counter := metrics.ProfileWrites.WithLabelValues(tc.outcome)
			before := testutil.ToFloat64(counter)

			_, err := services.NewProfileService(repo).UpsertProfile(context.Background(), models.ProfileInput{FullName: "Ana"})

			require.NoError(t, err)
			assert.Equal(t, before+1, testutil.ToFloat64(counter))
		})
	}
}

func TestUpsertProfile_StorageFailure(t *testing.T) {
	repo := new(mocks.MockProfileRepository)
	svc := services.NewProfileService(repo)
	cause := stderrors.New("database is locked")
	repo.On("Upsert", mock.Anything, mock.Anything).Return(models.UpsertResult{}, cause)

	_, err := svc.UpsertProfile(context.Background(), models.ProfileInput{FullName: "Ana"})

	require.Error(t, err)
	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeStorage, appErr.Code)
	assert.NotContains(t, appErr.Message, "locked")
	assert.ErrorIs(t, err, cause)
}

func TestFetchProfile(t *testing.T) {
	t.Run("empty store", func(t *testing.T) {
		repo := new(mocks.MockProfileRepository)
		repo.On("Get", mock.Anything).Return(nil, nil)

		_, err := services.NewProfileService(repo).FetchProfile(context.Background())
		assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
	})

	t.Run("storage failure", func(t *testing.T) {
		repo := new(mocks.MockProfileRepository)
		repo.On("Get", mock.Anything).Return(nil, stderrors.New("i/o"))

		_, err := services.NewProfileService(repo).FetchProfile(context.Background())
		assert.True(t, errors.HasCode(err, errors.ErrCodeStorage))
	})

	t.Run("found", func(t *testing.T) {
		repo := new(mocks.MockProfileRepository)
		repo.On("Get", mock.Anything).Return(&models.Profile{ID: 1, FullName: "Ana"}, nil)

		p, err := services.NewProfileService(repo).FetchProfile(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Ana", p.FullName)
	})
}

func TestListSummaries_NilBecomesEmpty(t *testing.T) {
	repo := new(mocks.MockProfileRepository)
	repo.On("ListSummaries", mock.Anything).Return(nil, nil)

	summaries, err := services.NewProfileService(repo).ListSummaries(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, summaries)
	assert.Empty(t, summaries)
}

func TestReady(t *testing.T) {
	repo := new(mocks.MockProfileRepository)
	repo.On("Ping", mock.Anything).Return(stderrors.New("connection refused")).Once()
	repo.On("Ping", mock.Anything).Return(nil).Once()
	svc := services.NewProfileService(repo)

	assert.True(t, errors.HasCode(svc.Ready(context.Background()), errors.ErrCodeStorage))
	assert.NoError(t, svc.Ready(context.Background()))
}

// The properties below run against a real SQLite store.

func TestProfileLifecycle_SQLite(t *testing.T) {
	database := tu.NewTestDB(t)
	defer tu.MustClose(t, database)
	svc := services.NewProfileService(sqlstore.NewProfileRepository(database))
	ctx := context.Background()

	_, err := svc.FetchProfile(ctx)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))

	created, err := svc.UpsertProfile(ctx, models.ProfileInput{FullName: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, models.UpsertCreated, created.Mode)
	assert.Greater(t, created.ID, int64(0))

	p, err := svc.FetchProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, created.ID, p.ID)
	assert.Equal(t, "Ana", p.FullName)

	updated, err := svc.UpsertProfile(ctx, models.ProfileInput{FullName: "Ana Maria"})
	require.NoError(t, err)
	assert.Equal(t, models.UpsertUpdated, updated.Mode)
	assert.Equal(t, created.ID, updated.ID)

	summaries, err := svc.ListSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Ana Maria", summaries[0].FullName)

	_, err = svc.UpsertProfile(ctx, models.ProfileInput{FullName: " "})
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
	p, err = svc.FetchProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", p.FullName, "rejected input must not be written")
}
