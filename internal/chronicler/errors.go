package chronicler

import "errors"

// ErrFetchAborted is returned once retries for a single page are exhausted;
// the controller treats it as a fatal run abort (SPEC_FULL.md §7 "Fetch
// error").
var ErrFetchAborted = errors.New("chronicler: fetch aborted after retry exhaustion")
