package study

import "errors"

// ErrStorageFull is returned when a write could not be made to fit
// under the quota even after eviction. The attempted write is rejected;
// nothing is partially written.
var ErrStorageFull = errors.New("storage full: write does not fit under quota after eviction")
