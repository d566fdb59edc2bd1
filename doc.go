// Package folio provides the functions and types to track a personal stock
// portfolio made of purchase lots.
//
// The core functionalities include:
//   - Positions: a lot of shares bought on a date, at a purchase price, with an
//     optional commission. Amounts use exact decimal arithmetic.
//   - Aggregation: lots of the same symbol are merged into holdings valued at
//     the latest quotes, with cost basis, gains and day's change.
//   - History: the daily value of the portfolio over a time window, carrying
//     the last known close over days without prices.
//   - CSV import: a tolerant parser with per-row validation, and an importer
//     that submits rows to a sink one at a time and reports each row status.
//   - Market: concurrent access to quote and history providers where a failing
//     symbol never fails the whole request.
//
// This package serves as the foundational logic for the `pft` command-line
// tool. Providers live in the yahoo and eodhd packages, the portfolio backend
// client in backend, and markdown reports in renderer.
package folio
