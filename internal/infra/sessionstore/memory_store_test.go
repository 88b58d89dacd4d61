package sessionstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/samutthan/internal/domain/diagnosis"
	"github.com/yanqian/samutthan/internal/domain/i18n"
	"github.com/yanqian/samutthan/internal/domain/wizard"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()
	session := wizard.NewSession("s1", i18n.LocaleEnglish, time.Now())

	require.NoError(t, store.Create(ctx, session))
	require.ErrorIs(t, store.Create(ctx, session), wizard.ErrSessionExists)

	got, ok, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "s1", got.ID)

	got.Profile.Name = "Somchai"
	require.NoError(t, store.Save(ctx, got))
	got, _, err = store.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "Somchai", got.Profile.Name)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, ok, err = store.Get(ctx, "s1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2024, 4, 10, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, wizard.NewSession("s1", i18n.LocaleThai, now)))

	now = now.Add(2 * time.Minute)
	_, ok, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Create(ctx, wizard.NewSession("s1", i18n.LocaleThai, now)))
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()
	session := wizard.NewSession("s1", i18n.LocaleEnglish, time.Now())
	session.Record.Symptoms = []string{"Fever"}
	session.Diagnosis = &diagnosis.Result{Recommendations: diagnosis.Recommendations{Herbs: []string{"a"}}}
	require.NoError(t, store.Save(ctx, session))

	got, _, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	got.Record.Symptoms[0] = "Cough"
	got.Diagnosis.Recommendations.Herbs[0] = "b"

	again, _, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, []string{"Fever"}, again.Record.Symptoms)
	require.Equal(t, []string{"a"}, again.Diagnosis.Recommendations.Herbs)
}

func TestDecodeSessionRoundTrip(t *testing.T) {
	session, ok, err := decodeSession([]byte(`{"id":"s1","locale":"en","step":2,"record":{"symptoms":null}}`))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, wizard.StepSymptoms, session.Step)
	require.NotNil(t, session.Record.Symptoms)

	_, _, err = decodeSession([]byte(`{`))
	require.Error(t, err)
}
