package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commhub/community-settings/internal/projects/projectstest"
	projectsvc "github.com/commhub/community-settings/internal/projects/service"
	"github.com/commhub/community-settings/internal/settings/client"
	"github.com/commhub/community-settings/internal/settings/domain"
	"github.com/commhub/community-settings/internal/settings/service"
	"github.com/commhub/community-settings/internal/settings/store"
)

type quietReporter struct {
	warnings, errors, success []string
}

func (r *quietReporter) Warn(msg string)               { r.warnings = append(r.warnings, msg) }
func (r *quietReporter) Error(msg string)              { r.errors = append(r.errors, msg) }
func (r *quietReporter) Success(msg string)            { r.success = append(r.success, msg) }
func (r *quietReporter) Focus(section service.Section) {}

func startServer(t *testing.T) (*projectstest.Store, *client.Client) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := projectstest.NewStore()
	backend.Seed(domain.Project{ID: "p1", Name: "Bakery", Variables: "(Phone||123)"})
	backend.SeedTag(domain.Tag{ID: domain.Persisted("t1"), ProjectID: "p1", Name: "Sale", Keyword: "sale", Color: "#f00"})
	backend.SeedDefinition(domain.GlobalVariableDefinition{ID: domain.Persisted("d1"), ProjectID: "p1", Name: "City", PlaceholderKey: "city"}, "Berlin")

	router := BuildRouter(RouterDeps{
		ServiceName: "settings-api",
		Version:     "test",
		Settings:    projectsvc.NewSettingsService(backend.Deps()),
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return backend, client.New(server.URL, 5*time.Second)
}

func TestHealthRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := BuildRouter(RouterDeps{ServiceName: "settings-api", Version: "test"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"db":"disabled"`)
}

func TestSessionRoundTripOverHTTP(t *testing.T) {
	_, gw := startServer(t)
	ctx := context.Background()
	rep := &quietReporter{}

	s := service.NewSession(service.Options{Gateway: gw, Reporter: rep, Templates: []string{"Website"}})
	require.NoError(t, s.Load(ctx, "p1"))
	require.Empty(t, rep.warnings)

	require.NoError(t, s.SetProjectField("notes", "Fresh bread daily"))
	require.NoError(t, s.RemoveTag(domain.Persisted("t1")))

	tag, err := s.AddTag()
	require.NoError(t, err)
	require.NoError(t, s.EditTag(tag.ID, store.TagName, "VIP"))
	require.NoError(t, s.EditTag(tag.ID, store.TagKeyword, "vip"))

	def, err := s.AddDefinition()
	require.NoError(t, err)
	require.NoError(t, s.EditDefinition(def.ID, store.DefinitionName, "Manager"))
	require.NoError(t, s.EditDefinition(def.ID, store.DefinitionKey, "manager"))
	require.NoError(t, s.SetGlobalValue(def.ID, "Anna"))
	require.NoError(t, s.SetGlobalValue(domain.Persisted("d1"), "Hamburg"))

	require.NoError(t, s.Submit(ctx))
	assert.Equal(t, service.StateClosed, s.State())
	assert.Len(t, rep.success, 1)

	fresh := service.NewSession(service.Options{Gateway: gw, Reporter: rep, Templates: []string{}})
	require.NoError(t, fresh.Load(ctx, "p1"))

	assert.Equal(t, "Fresh bread daily", fresh.Form().Notes)
	tags := fresh.Tags()
	require.Len(t, tags, 1)
	assert.Equal(t, "VIP", tags[0].Name)

	defs := fresh.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "Manager", defs[1].Name)
	v, ok := fresh.GlobalValue(defs[1].ID)
	require.True(t, ok)
	assert.Equal(t, "Anna", v)
	v, _ = fresh.GlobalValue(domain.Persisted("d1"))
	assert.Equal(t, "Hamburg", v)

	names := make([]string, 0)
	for _, item := range fresh.Variables() {
		names = append(names, item.Name)
	}
	assert.Equal(t, []string{"Phone", "Website"}, names)
}

func TestSessionSubmitSurfacesServerRejection(t *testing.T) {
	_, gw := startServer(t)
	ctx := context.Background()
	rep := &quietReporter{}

	s := service.NewSession(service.Options{Gateway: gw, Reporter: rep, Templates: []string{}})
	require.NoError(t, s.Load(ctx, "p1"))
	require.NoError(t, s.SetProjectField("name", " "))

	err := s.Submit(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSubmitFailed)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, service.StateReady, s.State())
	assert.Len(t, rep.errors, 1)
}
