package domain

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{"empty", "", time.Time{}, false},
		{"rfc3339", "2024-03-15T19:00:00Z", time.Date(2024, 3, 15, 19, 0, 0, 0, time.UTC), false},
		{"datetime-local with seconds", "2024-03-15T19:00:30", time.Date(2024, 3, 15, 19, 0, 30, 0, time.UTC), false},
		{"datetime-local", "2024-03-15T19:00", time.Date(2024, 3, 15, 19, 0, 0, 0, time.UTC), false},
		{"garbage", "tomorrow", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got.Time))
		})
	}
}

func TestEvent_JSONShape(t *testing.T) {
	raw := `{"id":1,"title":"Jazz Night","description":"","image":"","location":"Club",
		"startTime":"2024-03-15T19:00","endTime":"","categoryIds":[5],"createdBy":null}`
	var e Event
	require.NoError(t, json.Unmarshal([]byte(raw), &e))
	assert.Equal(t, EventID(1), e.ID)
	assert.Equal(t, []CategoryID{5}, e.CategoryIDs)
	assert.Nil(t, e.CreatedBy)
	assert.True(t, e.EndTime.IsZero())
	assert.Equal(t, 19, e.StartTime.Hour())

	out, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"endTime":""`)
	assert.Contains(t, string(out), `"createdBy":null`)
	assert.Contains(t, string(out), `"startTime":"2024-03-15T19:00:00Z"`)
}

func TestTimestamp_JSONKeepsFractionalSeconds(t *testing.T) {
	tests := []string{
		`"2023-03-15T18:00:00.5Z"`,
		`"2023-03-15T18:00:00.123456789+02:00"`,
		`"2023-03-15T18:00:00Z"`,
	}
	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(raw), &ts))

			out, err := json.Marshal(ts)
			require.NoError(t, err)
			assert.Equal(t, raw, string(out))

			var back Timestamp
			require.NoError(t, json.Unmarshal(out, &back))
			assert.True(t, ts.Equal(back.Time))
		})
	}
}

func TestEvent_Clone(t *testing.T) {
	e := &Event{ID: 3, CategoryIDs: []CategoryID{1, 2}, CreatedBy: UserIDPtr(9)}
	cp := e.Clone()
	cp.CategoryIDs[0] = 99
	*cp.CreatedBy = 10
	assert.Equal(t, CategoryID(1), e.CategoryIDs[0])
	assert.Equal(t, UserID(9), *e.CreatedBy)
	assert.Nil(t, (*Event)(nil).Clone())
}

func TestEvent_Validate(t *testing.T) {
	start := NewTimestamp(time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC))
	end := NewTimestamp(time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC))

	require.NoError(t, (&Event{Title: "ok", StartTime: start}).Validate())

	err := (&Event{Title: " ", StartTime: start, EndTime: end}).Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "title")
	assert.Contains(t, verr.Fields, "endTime")
}

func TestStatusError_IsNotFound(t *testing.T) {
	notFound := &StatusError{Method: http.MethodGet, Path: "/events/4", StatusCode: http.StatusNotFound}
	assert.True(t, errors.Is(notFound, ErrNotFound))

	serverErr := &StatusError{Method: http.MethodGet, Path: "/events", StatusCode: http.StatusInternalServerError}
	assert.False(t, errors.Is(serverErr, ErrNotFound))

	wrapped := &SaveError{EventID: 4, Op: "update", Err: notFound}
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.Equal(t, "update event 4: GET /events/4: store returned status 404", wrapped.Error())
}
