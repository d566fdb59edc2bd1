package eodhd

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

// This file contains functions to access the EODHD API.

// realTime is the payload of the real-time endpoint.
type realTime struct {
	Code          string          `json:"code"`
	Close         decimal.Decimal `json:"close"`
	PreviousClose decimal.Decimal `json:"previousClose"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent float64         `json:"change_p"`
}

// fetchRealTime returns the delayed real-time price of an EODHD ticker.
func fetchRealTime(ctx context.Context, client *http.Client, base, apiKey, ticker string) (realTime, error) {
	// https://eodhd.com/api/real-time/AAPL.US?api_token=demo&fmt=json
	// {
	// 	"code": "AAPL.US",
	// 	"timestamp": 1718395200,
	// 	"close": 212.49,
	// 	"previousClose": 214.24,
	// 	"change": -1.75,
	// 	"change_p": -0.8168
	// }
	addr := fmt.Sprintf("%s/api/real-time/%s?fmt=json&api_token=%s", base, url.PathEscape(ticker), url.QueryEscape(apiKey))
	var content realTime
	if err := jwget(ctx, client, addr, &content); err != nil {
		return realTime{}, err
	}
	return content, nil
}

// eodPrice is a single day of the end-of-day endpoint.
type eodPrice struct {
	Date  date.Date       `json:"date"`
	Close decimal.Decimal `json:"close"`
}

// fetchPrices returns the daily close prices for an EODHD ticker, bounds included.
// The EODHD ticker format is typically "SYMBOL.EXCHANGECODE".
func fetchPrices(ctx context.Context, client *http.Client, base, apiKey, ticker string, from, to date.Date) ([]eodPrice, error) {
	// https://eodhd.com/api/eod/MCD.US?api_token=demo&fmt=json&from=2024-02-01&to=2024-02-13
	// [
	//	{
	//		"date": "2024-02-13",
	//		"open": 675.066,
	//		"high": 684.219,
	//		"low": 648.659,
	//		"close": 668.445,
	//		"adjusted_close": 67.705,
	//		"volume": 0
	//	},
	addr := fmt.Sprintf("%s/api/eod/%s?fmt=json&api_token=%s&from=%s&to=%s", base, url.PathEscape(ticker), url.QueryEscape(apiKey), from, to)
	content := make([]eodPrice, 0)
	if err := jwget(ctx, client, addr, &content); err != nil {
		return nil, err
	}
	return content, nil
}
