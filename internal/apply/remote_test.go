package apply

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout/internal/models"
	"jobscout/internal/store"
)

func testProfile() *Profile {
	return &Profile{
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
		Phone:    "+91-9999999999",
	}
}

func applyRow(url string) store.Row {
	return store.Row{
		ScoredJob: models.ScoredJob{
			Job: models.Job{Title: "Backend Engineer", Company: "Acme", URL: url, Source: "RemoteOK"},
		},
	}
}

func TestRemoteApplySubmitsForm(t *testing.T) {
	var submitted map[string][]string
	mux := http.NewServeMux()
	mux.HandleFunc("/jobs/1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<form id="apply-form" action="/jobs/1/submit" method="POST">
				<input type="text" name="full_name">
				<input type="email" name="email">
				<input type="tel" name="phone">
				<input type="hidden" name="job_id" value="1">
				<button type="submit">Apply</button>
			</form>
		</body></html>`))
	})
	mux.HandleFunc("/jobs/1/submit", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		submitted = r.PostForm
		w.Write([]byte("<html>Thank you for applying!</html>"))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	a := NewRemoteBoardApplier(testProfile())
	result := a.Apply(context.Background(), applyRow(server.URL+"/jobs/1"))

	assert.True(t, result.Success)
	assert.Equal(t, models.MethodAPI, result.Method)
	assert.Equal(t, "ada@example.com", submitted["email"][0])
	assert.Equal(t, "Ada Lovelace", submitted["full_name"][0])
	//hidden field default carried through
	assert.Equal(t, "1", submitted["job_id"][0])
}

func TestRemoteApplyNoForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>Email us to apply.</p></body></html>`))
	}))
	defer server.Close()

	a := NewRemoteBoardApplier(testProfile())
	result := a.Apply(context.Background(), applyRow(server.URL+"/jobs/1"))

	assert.False(t, result.Success)
	assert.Equal(t, models.ErrCategoryFormChanged, result.ErrorCategory)
}

func TestRemoteApplyLoginWall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>Please sign in to apply for this role.</p></body></html>`))
	}))
	defer server.Close()

	a := NewRemoteBoardApplier(testProfile())
	result := a.Apply(context.Background(), applyRow(server.URL+"/jobs/1"))

	assert.False(t, result.Success)
	assert.Equal(t, models.ErrCategoryLoginWall, result.ErrorCategory)
}
