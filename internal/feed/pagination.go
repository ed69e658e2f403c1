package feed

import (
	"fmt"
	"math"

	"gotweet/internal/common"
)

// PageQuery is a 1-indexed page request.
type PageQuery struct {
	Page  int64
	Limit int64
}

// Window is where a page sits in the full result.
type Window struct {
	Offset     int64
	TotalPages int64
}

// Resolve computes the window for page and limit over total rows.
// limit must be positive; callers validate before getting here. An offset past
// math.MaxInt64 saturates, so a far page skips everything and comes back empty.
func Resolve(page, limit, total int64) Window {
	w := Window{TotalPages: (total + limit - 1) / limit}
	if page-1 > math.MaxInt64/limit {
		w.Offset = math.MaxInt64
	} else {
		w.Offset = limit * (page - 1)
	}
	return w
}

func (q PageQuery) validate(maxLimit int64) error {
	if q.Page < 1 {
		return common.InvalidArgument("page must be at least 1")
	}
	if q.Limit < 1 {
		return common.InvalidArgument("limit must be at least 1")
	}
	if maxLimit > 0 && q.Limit > maxLimit {
		return common.InvalidArgument(fmt.Sprintf("limit must be at most %d", maxLimit))
	}
	return nil
}
