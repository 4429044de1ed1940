// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package services adapts Folio components to suture.Service.

  - HTTPServerService: runs *http.Server and drains it on shutdown.
  - WarmerService: runs the cache warmer once and returns
    suture.ErrDoNotRestart.

Every service implements fmt.Stringer so supervisor events name it.
*/
package services
