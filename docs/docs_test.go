package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerDocListsRoutes(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		Paths       map[string]map[string]json.RawMessage `json:"paths"`
		Definitions map[string]json.RawMessage            `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	routes := map[string][]string{
		"/api/v1/auth/register":           {"post"},
		"/api/v1/auth/login":              {"post"},
		"/api/v1/auth/refresh":            {"post"},
		"/api/v1/auth/me":                 {"get"},
		"/api/v1/auth/logout":             {"post"},
		"/api/v1/genre":                   {"get", "post"},
		"/api/v1/genre/{id}":              {"get", "patch", "delete"},
		"/api/v1/books":                   {"get", "post"},
		"/api/v1/books/genre/{genreId}":   {"get"},
		"/api/v1/books/{id}":              {"get", "patch", "delete"},
		"/api/v1/transactions":            {"get", "post"},
		"/api/v1/transactions/{id}":       {"get"},
		"/api/v1/transactions/statistics": {"get"},
	}
	for path, methods := range routes {
		require.Contains(t, doc.Paths, path)
		for _, m := range methods {
			assert.Contains(t, doc.Paths[path], m, "%s %s", m, path)
		}
	}

	for _, def := range []string{"dto.CreateTransactionRequest", "transaction.TransactionResponse", "transaction.StatisticsResponse", "response.Response"} {
		assert.Contains(t, doc.Definitions, def)
	}
}
