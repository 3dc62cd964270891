package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gatherhub/server/internal/domain"
)

func TestParsePageDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/events", nil)
	page, err := parsePage(r)
	require.NoError(t, err)
	require.Equal(t, 0, page.From)
	require.Equal(t, 10, page.Size)
}

func TestParsePageValues(t *testing.T) {
	r := httptest.NewRequest("GET", "/events?from=20&size=5", nil)
	page, err := parsePage(r)
	require.NoError(t, err)
	require.Equal(t, 20, page.From)
	require.Equal(t, 5, page.Size)
}

func TestParsePageRejectsBadValues(t *testing.T) {
	for _, query := range []string{"from=-1", "size=0", "size=abc"} {
		r := httptest.NewRequest("GET", "/events?"+query, nil)
		_, err := parsePage(r)
		require.True(t, domain.IsValidation(err), query)
	}
}

func TestParseIDListSplitsCommaValues(t *testing.T) {
	ids, err := parseIDList([]string{"1,2", "3"}, "categories")
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 3}, ids)

	_, err = parseIDList([]string{"1,x"}, "categories")
	require.True(t, domain.IsValidation(err))
}

func TestParseTimeParam(t *testing.T) {
	parsed, err := parseTimeParam("2025-06-01 12:00:00", "rangeStart")
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), *parsed)

	_, err = parseTimeParam("2025-06-01T12:00:00Z", "rangeStart")
	require.True(t, domain.IsValidation(err))

	parsed, err = parseTimeParam("", "rangeStart")
	require.NoError(t, err)
	require.Nil(t, parsed)
}

func TestAPITimeRoundtrip(t *testing.T) {
	stamp := apiTime{time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)}
	payload, err := json.Marshal(stamp)
	require.NoError(t, err)
	require.Equal(t, `"2025-06-01 12:30:00"`, string(payload))

	var decoded apiTime
	require.NoError(t, json.Unmarshal(payload, &decoded))
	require.Equal(t, stamp.Time, decoded.Time)
}

func TestDecodeBodyValidates(t *testing.T) {
	r := httptest.NewRequest("POST", "/admin/users", strings.NewReader(`{"name":"x","email":"not-an-email"}`))

	var body newUserRequest
	err := decodeBody(r, &body)
	require.True(t, domain.IsValidation(err))
}

func TestDecodeBodyRejectsEmptyAndMalformed(t *testing.T) {
	r := httptest.NewRequest("POST", "/admin/users", strings.NewReader(""))
	var body newUserRequest
	require.True(t, domain.IsValidation(decodeBody(r, &body)))

	r = httptest.NewRequest("POST", "/admin/users", strings.NewReader("{"))
	require.True(t, domain.IsValidation(decodeBody(r, &body)))
}
