package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"leadcrm/internal/crm"
)

func TestMain(m *testing.M) {
	// http.Client keepalive goroutines are expected to idle out.
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

// newTestServer wires a Client against a handler.
func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "test-token", WithHTTPClient(srv.Client()))
}

func respond(w http.ResponseWriter, status int, env map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func TestRequestHeaders(t *testing.T) {
	t.Parallel()

	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		respond(w, 200, map[string]interface{}{"success": true, "data": crm.User{UserID: 1}})
	})

	_, err := c.Me(context.Background())
	require.NoError(t, err)
}

func TestCreateLead(t *testing.T) {
	t.Parallel()

	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/lead", r.URL.Path)

		var p LeadPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		assert.Equal(t, "Acme Contact", p.ClientName)

		respond(w, 200, map[string]interface{}{
			"success": true,
			"data":    crm.Lead{LeadID: 7, ClientName: p.ClientName},
		})
	})

	lead, err := c.CreateLead(context.Background(), LeadPayload{ClientName: "Acme Contact"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), lead.LeadID)
}

func TestListLeadsPassesQuery(t *testing.T) {
	t.Parallel()

	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lead", r.URL.Path)
		assert.Equal(t, "acme", r.URL.Query().Get("search"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		respond(w, 200, map[string]interface{}{
			"success": true,
			"data": LeadPage{
				Leads: []crm.Lead{{LeadID: 1}, {LeadID: 2}},
				Total: 30, Page: 2, PageSize: 25, TotalPages: 2,
			},
		})
	})

	q := url.Values{}
	q.Set("search", "acme")
	q.Set("page", "2")
	page, err := c.ListLeads(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, page.Leads, 2)
	assert.Equal(t, 30, page.Total)
}

func TestErrorTaxonomy(t *testing.T) {
	t.Parallel()

	t.Run("envelope failure carries the backend message", func(t *testing.T) {
		c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			respond(w, 422, map[string]interface{}{"success": false, "message": "duplicate mobile number"})
		})
		_, err := c.CreateLead(context.Background(), LeadPayload{})
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 422, apiErr.Status)
		assert.Equal(t, "duplicate mobile number", err.Error())
	})

	t.Run("403 maps to ErrForbidden", func(t *testing.T) {
		c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			respond(w, 403, map[string]interface{}{"success": false, "message": "forbidden"})
		})
		_, err := c.ReferralPartners(context.Background())
		assert.True(t, IsForbidden(err))
	})

	t.Run("404 maps to ErrNotFound", func(t *testing.T) {
		c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			respond(w, 404, map[string]interface{}{"success": false, "message": "no such lead"})
		})
		_, err := c.GetLead(context.Background(), 999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("success=false on a 200 is still an error", func(t *testing.T) {
		c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			respond(w, 200, map[string]interface{}{"success": false, "message": "backend said no"})
		})
		_, err := c.GetLead(context.Background(), 1)
		require.Error(t, err)
		assert.Equal(t, "backend said no", err.Error())
	})

	t.Run("non-JSON error body falls back to the status", func(t *testing.T) {
		c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(502)
			_, _ = w.Write([]byte("<html>bad gateway</html>"))
		})
		_, err := c.GetLead(context.Background(), 1)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 502, apiErr.Status)
	})
}

func TestExportLeadsRaw(t *testing.T) {
	t.Parallel()

	blob := []byte{0x50, 0x4b, 0x03, 0x04} // xlsx magic
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lead/export", r.URL.Path)
		assert.Equal(t, "xlsx", r.URL.Query().Get("format"))
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(blob)
	})

	got, err := c.ExportLeads(context.Background(), "xlsx", nil)
	require.NoError(t, err)
	assert.Equal(t, blob, got)
}

func TestSaveLookupCreateVsUpdate(t *testing.T) {
	t.Parallel()

	var method, path string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		respond(w, 200, map[string]interface{}{"success": true, "data": crm.LookupRow{ID: 5}})
	})

	_, err := c.SaveLookup(context.Background(), "lead-sources", crm.LookupRow{Name: "Expo"})
	require.NoError(t, err)
	assert.Equal(t, "POST", method)
	assert.Equal(t, "/lead-sources", path)

	_, err = c.SaveLookup(context.Background(), "lead-sources", crm.LookupRow{ID: 5, Name: "Expo"})
	require.NoError(t, err)
	assert.Equal(t, "PUT", method)
	assert.Equal(t, "/lead-sources/5", path)
}
