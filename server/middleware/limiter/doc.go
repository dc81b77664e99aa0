// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package limiter rate limits the JSON API per client network.

Clients are grouped by IP network (a /32 IPv4 and /64 IPv6 prefix by
default) and each network draws from one token bucket. Idle buckets are
dropped after [IdleExpiry].
*/
package limiter
