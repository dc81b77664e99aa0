// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"codeberg.org/inkpost/inkpost/config"
	"codeberg.org/inkpost/inkpost/core/clientid"
	"codeberg.org/inkpost/inkpost/core/cookie"
	"codeberg.org/inkpost/inkpost/core/untrusted"
	"codeberg.org/inkpost/inkpost/server/request_context"
)

// clientID returns the identifier whose namespace holds the caller's configs,
// setting a new Client cookie on w when the request carried no valid one.
func clientID(w http.ResponseWriter, r *http.Request) string {
	id, issued := resolveClient(r)
	if issued != nil {
		http.SetCookie(w, issued)
	}

	return id
}

// resolveClient verifies the Client cookie. A missing, expired or forged
// cookie gets a fresh identifier and the cookie to send back.
func resolveClient(r *http.Request) (string, *http.Cookie) {
	rc := request_context.FromRequest(r)
	if rc.ClientID != "" {
		return rc.ClientID, nil
	}

	signer := config.Global.ClientSigner()

	raw := untrusted.GetCookie(r, cookie.ClientCookie)

	id, err := signer.Verify(raw)
	if err == nil {
		rc.ClientID = id

		return id, nil
	}

	if raw != "" {
		log.Debug().
			Str("request_id", rc.RequestID).
			Err(err).
			Msg("Replacing an invalid client cookie")
	}

	id = clientid.New()
	rc.ClientID = id

	return id, untrusted.NewCookie(r, cookie.ClientCookie, signer.Issue(id, time.Now()))
}
