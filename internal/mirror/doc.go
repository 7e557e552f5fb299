// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mirror pushes local session state back to the backend.
//
// The store is the source of truth for the UI; the mirror trails behind
// it, uploading dirty sessions in the background. Notifications coalesce
// and uploads are rate limited, so a burst of edits turns into one sweep.
// Upload failures are logged and dropped: the next dirty signal or the
// next poll reconciles the difference.
package mirror
