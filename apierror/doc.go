// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package apierror defines Error, the error payload exchanged with the
API and surfaced to callers when a request fails.

An Error carries a human-readable message, a stable error code, an HTTP
status code, a criticality flag and an open-ended details mapping:

	err := apierror.New("Benutzer nicht gefunden", "USER_NOT_FOUND",
		&apierror.Info{StatusCode: 404})
	err.PutDetail("userId", 42)

Use ToResponse to render an Error for an end user; critical errors have
their message replaced by a generic notice.

The detail attachment methods PutDetail, SetDetailsList and
SetDetailsMap all write under the single key "details" of the Details
mapping, so the last kind of attachment wins.
*/
package apierror
