package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"salesboard/internal/api/testutils"
	"salesboard/internal/models"
)

func TestCustomerSeesOnlyOwnProjectedRecords(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/my/records",
		nil,
		testutils.AuthHeaders(testCtx.CustomerJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.CustomerRecordsResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// Stark Industries has two of the three seeded records
	assert.Len(t, resp.Records, 2)

	// The default visibility map hides region and discount
	assert.Contains(t, resp.Columns, "customerName")
	assert.Contains(t, resp.Columns, "totalAmount")
	assert.NotContains(t, resp.Columns, "region")
	assert.NotContains(t, resp.Columns, "discount")

	for _, record := range resp.Records {
		assert.Equal(t, "Stark Industries", record["customerName"])
		assert.NotContains(t, record, "id")
		assert.NotContains(t, record, "region")
		assert.NotContains(t, record, "discount")
	}
}

func TestCustomerRecordsHonorFilters(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/my/records?dateFrom=2023-10-27",
		nil,
		testutils.AuthHeaders(testCtx.CustomerJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.CustomerRecordsResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	if assert.Len(t, resp.Records, 1) {
		assert.Equal(t, "Repulsor Gauntlet", resp.Records[0]["productName"])
	}
}

func TestVisibilityConfigChangesCustomerView(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	// Read the current configuration
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/visibility/customer",
		nil,
		testutils.AuthHeaders(testCtx.AdminJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	var visResp models.VisibilityResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &visResp))
	assert.True(t, visResp.Fields["customerName"])
	assert.False(t, visResp.Fields["region"])

	// Narrow the customer view to date and total only; an id toggle is
	// silently discarded
	update := models.Visibility{"date": true, "totalAmount": true, "id": true}
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPut,
		"/api/visibility/customer",
		update,
		testutils.AuthHeaders(testCtx.AdminJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/my/records",
		nil,
		testutils.AuthHeaders(testCtx.CustomerJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.CustomerRecordsResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"date", "totalAmount"}, resp.Columns)
	for _, record := range resp.Records {
		assert.Len(t, record, 2)
		assert.NotContains(t, record, "id")
	}
}
