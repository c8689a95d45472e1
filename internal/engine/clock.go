package engine

import "time"

var nowFunc = func() time.Time {
	return time.Now().UTC()
}

func nowMillis() int64 {
	return nowFunc().UnixMilli()
}
