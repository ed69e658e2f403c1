package feed

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"gotweet/internal/common"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		page, limit, total int64
		want               Window
	}{
		{1, 10, 0, Window{Offset: 0, TotalPages: 0}},
		{1, 10, 10, Window{Offset: 0, TotalPages: 1}},
		{2, 10, 25, Window{Offset: 10, TotalPages: 3}},
		{3, 10, 25, Window{Offset: 20, TotalPages: 3}},
		{5, 10, 25, Window{Offset: 40, TotalPages: 3}},
		{1, 1, 7, Window{Offset: 0, TotalPages: 7}},
		{math.MaxInt64 / 50, 100, 25, Window{Offset: math.MaxInt64, TotalPages: 1}},
		{math.MaxInt64, 100, 0, Window{Offset: math.MaxInt64, TotalPages: 0}},
		{math.MaxInt64, 1, 3, Window{Offset: math.MaxInt64 - 1, TotalPages: 3}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Resolve(tt.page, tt.limit, tt.total), "page=%d limit=%d total=%d", tt.page, tt.limit, tt.total)
	}
}

func TestPageQueryValidate(t *testing.T) {
	tests := []struct {
		name string
		q    PageQuery
		msg  string
	}{
		{"ok", PageQuery{Page: 1, Limit: 100}, ""},
		{"zero page", PageQuery{Page: 0, Limit: 10}, "page must be at least 1"},
		{"zero limit", PageQuery{Page: 1, Limit: 0}, "limit must be at least 1"},
		{"limit over max", PageQuery{Page: 1, Limit: 101}, "limit must be at most 100"},
		{"far page", PageQuery{Page: math.MaxInt64, Limit: 100}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.validate(100)
			if tt.msg == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, common.KindInvalidArgument, common.KindOf(err))
			assert.Equal(t, tt.msg, common.PublicMessage(err))
		})
	}
}
