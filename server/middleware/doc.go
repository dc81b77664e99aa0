// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package middleware holds the request pipeline shared by every route.

A [Middleware] receives the next handler explicitly; the router chains them
in the order they are registered. [CatchError] adapts handlers that return
an error and decides the final response for them.
*/
package middleware
