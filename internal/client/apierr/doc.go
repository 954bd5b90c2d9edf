// Package apierr classifies failed exchanges with the ledger API into a small
// set of error kinds.
//
// Every failure surfaced by the HTTP client is an *Error. Callers match the
// kind with errors.Is against the sentinels below, and read field-level
// validation messages with FieldErrors:
//
//	var accounts []Account
//	err := api.Get(ctx, "/api/accounts/", &accounts)
//	switch {
//	case errors.Is(err, apierr.ErrAuthentication):
//	    // session is gone, ask the user to log in again
//	case errors.Is(err, apierr.ErrValidation):
//	    for field, msgs := range apierr.FieldErrors(err) { ... }
//	}
//
// Classification is a pure function of the status code and the decoded body.
package apierr
