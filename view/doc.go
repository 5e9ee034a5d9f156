// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package view renders the voting client on a terminal.
//
// Terminal implements workflow.View and workflow.Confirmer. Output is plain
// lines; colour is added only when the writer is a TTY (see IsTerminal) or
// when forced with WithColor. Alerts cannot be taken back once printed, so
// dismissal and the ballot and results clears are no-ops.
//
// Counts are grouped with thousands separators and result percentages are
// drawn as a bar, 100% filling barWidth cells.
package view
