package assistant

import "errors"

// ErrNoStore is returned by history reads when persistence is not configured.
var ErrNoStore = errors.New("chat history is not configured")
