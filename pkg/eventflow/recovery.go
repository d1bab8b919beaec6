package eventflow

import "context"

// RecoveryHandler turns a processing failure back into zero or more
// successful events, or re-raises by returning an error.
//
// The handler runs asynchronously after EventContext.Error receives a
// *ProcessingError. Recovered events are delivered to the response in
// order as if SuccessWith were called for each; the response is
// single-fire, so the first one wins. A returned error settles the
// response as an error (wrapped in *RecoveryError). Returning no events
// and no error counts as unrecovered: the original failure propagates.
//
// Handlers may block; ctx is the context passed to Error and bounds the
// handler's work.
type RecoveryHandler func(ctx context.Context, failure *ProcessingError) ([]*Event, error)
