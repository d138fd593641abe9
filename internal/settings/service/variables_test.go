package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commhub/community-settings/internal/settings/domain"
)

func TestVariables_EditAndRemove(t *testing.T) {
	s, _ := loadedSession(t, newFakeGateway())

	v, err := s.AddVariable("Instagram", "@bakery")
	require.NoError(t, err)
	require.NoError(t, s.SetVariableValue(v.ID, "@bakery_berlin"))
	require.NoError(t, s.SetVariableName(v.ID, "Instagram handle"))

	plan, _ := s.Plan()
	assert.Contains(t, plan.Project.Variables, "(Instagram handle||@bakery_berlin)")

	require.NoError(t, s.RemoveVariable(v.ID))
	assert.ErrorIs(t, s.RemoveVariable(v.ID), domain.ErrNotFound)
	assert.ErrorIs(t, s.SetVariableValue("missing", "x"), domain.ErrNotFound)
}

func TestVariables_DuplicateNamesAllowed(t *testing.T) {
	s, _ := loadedSession(t, newFakeGateway())
	_, err := s.AddVariable("Phone", "456")
	require.NoError(t, err)

	plan, _ := s.Plan()
	assert.Equal(t, "(Phone||123), (Website||), (Phone||456)", plan.Project.Variables)
}

func TestFillVariablesWithAI(t *testing.T) {
	gw := newFakeGateway()
	gw.fill = domain.AiFillResult{
		Filled: []domain.NamedValue{{Name: "website", Value: "https://bakery.example"}},
		New: []domain.NamedValue{
			{Name: "Instagram", Value: "@bakery"},
			{Name: "PHONE", Value: "999"},
			{Name: " ", Value: "dropped"},
		},
	}
	s, rep := loadedSession(t, gw)

	require.NoError(t, s.FillVariablesWithAI(context.Background()))

	require.Len(t, gw.fillRequests, 1)
	assert.Equal(t, []domain.NamedValue{{Name: "Website"}}, gw.fillRequests[0])

	vars := s.Variables()
	require.Len(t, vars, 3)
	assert.Equal(t, "123", vars[0].Value, "existing values are kept")
	assert.False(t, s.AISuggested(vars[0].ID))
	assert.Equal(t, "https://bakery.example", vars[1].Value)
	assert.True(t, s.AISuggested(vars[1].ID))
	assert.Equal(t, "Instagram", vars[2].Name)
	assert.True(t, s.AISuggested(vars[2].ID))

	assert.Equal(t, StateReady, s.State())
	assert.Len(t, rep.success, 1)
}

func TestFillVariablesWithAI_FailureLeavesValues(t *testing.T) {
	gw := newFakeGateway()
	gw.fail["RequestAiVariableFill"] = errBoom
	s, rep := loadedSession(t, gw)
	before := s.Variables()

	err := s.FillVariablesWithAI(context.Background())
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, before, s.Variables())
	assert.Equal(t, StateReady, s.State())
	assert.Len(t, rep.errors, 1)
}

func TestFillVariablesWithAI_NothingToFill(t *testing.T) {
	gw := newFakeGateway()
	s := NewSession(Options{Gateway: gw, Reporter: &recordingReporter{}, Templates: []string{}})
	require.NoError(t, s.Load(context.Background(), "p1"))
	gw.reset()

	require.NoError(t, s.FillVariablesWithAI(context.Background()))
	assert.Empty(t, gw.Calls())
}

func TestFillVariablesWithAI_EditsBlockedWhileFilling(t *testing.T) {
	gw := newFakeGateway()
	gw.fill = domain.AiFillResult{Filled: []domain.NamedValue{{Name: "Website", Value: "https://bakery.example"}}}
	s, _ := loadedSession(t, gw)
	gw.fillHold = make(chan struct{})
	phone := s.Variables()[0]

	done := make(chan error, 1)
	go func() { done <- s.FillVariablesWithAI(context.Background()) }()

	require.Eventually(t, func() bool { return s.State() == StateFilling }, time.Second, 5*time.Millisecond)

	_, err := s.AddTag()
	assert.ErrorIs(t, err, domain.ErrSessionBusy)
	assert.ErrorIs(t, s.SetVariableValue(phone.ID, "456"), domain.ErrSessionBusy)
	assert.ErrorIs(t, s.Submit(context.Background()), domain.ErrSessionBusy)
	assert.ErrorIs(t, s.Refresh(context.Background()), domain.ErrSessionBusy)
	assert.ErrorIs(t, s.FillVariablesWithAI(context.Background()), domain.ErrSessionBusy)

	close(gw.fillHold)
	require.NoError(t, <-done)
	assert.Equal(t, StateReady, s.State())
	assert.Equal(t, "123", s.Variables()[0].Value)
	assert.Equal(t, "https://bakery.example", s.Variables()[1].Value)
}
