package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounts(t *testing.T) {
	f := newFixture(t)
	dash := NewDashboardService(f.db, f.profiles)

	counts, err := dash.Counts("ghost@example.com")
	require.NoError(t, err)
	assert.Zero(t, counts.RequestsForMyPosts)
	assert.Zero(t, counts.BooksIAppliedFor)

	f.profile(t, "owner@example.com", "Olga", "", "", "")
	f.profile(t, "a@example.com", "Asha", "", "", "")
	f.profile(t, "b@example.com", "Bala", "", "", "")
	p1 := f.post(t, "owner@example.com", "Calculus", "Maths")
	p2 := f.post(t, "owner@example.com", "Algebra", "Maths")
	p3 := f.post(t, "b@example.com", "Poems", "Arts")

	_, err = f.apps.Apply("a@example.com", p1.ID)
	require.NoError(t, err)
	_, err = f.apps.Apply("b@example.com", p1.ID)
	require.NoError(t, err)
	_, err = f.apps.Apply("a@example.com", p2.ID)
	require.NoError(t, err)
	_, err = f.apps.Apply("a@example.com", p3.ID)
	require.NoError(t, err)

	counts, err = dash.Counts("owner@example.com")
	require.NoError(t, err)
	assert.EqualValues(t, 3, counts.RequestsForMyPosts)
	assert.EqualValues(t, 0, counts.BooksIAppliedFor)

	counts, err = dash.Counts("a@example.com")
	require.NoError(t, err)
	assert.EqualValues(t, 0, counts.RequestsForMyPosts)
	assert.EqualValues(t, 3, counts.BooksIAppliedFor)
}
