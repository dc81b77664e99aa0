// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package untrusted reads and writes editor preferences kept in cookies.

Cookie values come from the user agent and can be anything, so every getter
validates and falls back.
*/
package untrusted
