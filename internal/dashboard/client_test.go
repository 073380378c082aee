package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homieapp/homie/internal/application/port"
)

func TestClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/method/organization-dashboard":
			switch r.URL.Query().Get("organization") {
			case "ORG-1":
				_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": samplePayload()})
			case "ORG-EMPTY":
				_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
			default:
				w.WriteHeader(http.StatusNotFound)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": "organization not found"})
			}
		case "/api/method/workspace/kpis":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": WorkspaceKPIs{TotalProducts: 4}})
		case "/api/method/workspace/products":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": Table{
				Columns: []string{"name", "product_price"},
				Rows:    []map[string]interface{}{{"name": "PRD-1", "product_price": 5}},
			}})
		default:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("not json"))
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second, &mockLogger{})
	ctx := context.Background()

	p, err := c.Organization(ctx, "ORG-1")
	require.NoError(t, err)
	assert.Equal(t, samplePayload(), p)

	p, err = c.Organization(ctx, "ORG-EMPTY")
	require.NoError(t, err)
	assert.Nil(t, p)

	_, err = c.Organization(ctx, "ORG-404")
	assert.ErrorIs(t, err, port.ErrRecordNotFound)
	assert.Contains(t, err.Error(), "organization not found")

	k, err := c.WorkspaceKPIs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, k.TotalProducts)

	tbl, err := c.WorkspaceTable(ctx, SectionProducts)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "product_price"}, tbl.Columns)
	assert.Equal(t, 5.0, tbl.Rows[0]["product_price"])

	_, err = c.WorkspaceTable(ctx, SectionPersons)
	assert.Error(t, err)

	_, err = c.WorkspaceTable(ctx, "nope")
	assert.ErrorIs(t, err, ErrUnknownSection)
}
