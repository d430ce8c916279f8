// Package nuvei builds and signs Nuvei Payment Page ("purchase.do") request
// URLs. Parameter order must match both the request query string and the
// checksum concatenation.
//
// See https://docs.nuvei.com/documentation/accept-payment/payment-page/quick-start-for-payment-page
package nuvei

import (
	"fmt"
	"strings"
	"time"
)

// Defaults applied by BuildParams when the caller leaves a field empty.
const (
	DefaultTotalAmount  = "1.00"
	DefaultCurrency     = "USD"
	DefaultUserTokenID  = "demo@nuvei.local"
	DefaultItemName     = "Test item"
	DefaultItemQuantity = "1"
	DefaultVersion      = "4.0.0"

	// DefaultNotifyPath is appended to the configured app URL to form notify_url.
	DefaultNotifyPath = "/api/notify"

	// FallbackNotifyURL is used when no app URL is configured at all.
	FallbackNotifyURL = "https://example.com/api/notify"
)

// HostedPageParams is the full ordered parameter set for one hosted-page
// request. Immutable once built; construct via BuildParams.
type HostedPageParams struct {
	MerchantID     string
	MerchantSiteID string
	TotalAmount    string
	Currency       string
	UserTokenID    string
	ItemName       string
	ItemAmount     string
	ItemQuantity   string
	TimeStamp      string
	Version        string
	NotifyURL      string
	// ThemeID is optional. When blank it is omitted from both the query
	// string and the checksum input, never sent as an empty placeholder.
	ThemeID string
}

// paramOrder is the fixed key order for request and checksum. theme_id is
// last and only included when present.
var paramOrder = []string{
	"merchant_id",
	"merchant_site_id",
	"total_amount",
	"currency",
	"user_token_id",
	"item_name_1",
	"item_amount_1",
	"item_quantity_1",
	"time_stamp",
	"version",
	"notify_url",
	"theme_id",
}

// Sanitize trims a field and strips CR/LF. Env values pasted on hosting
// dashboards frequently carry trailing newlines, which the provider rejects
// as an invalid merchant id.
func Sanitize(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", "")
	return strings.TrimSpace(s)
}

// Timestamp formats t as the provider's time_stamp: zero-padded local time
// with a literal dot between date and time.
func Timestamp(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d.%02d:%02d:%02d",
		t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
}

// Overrides are caller-supplied fields for BuildParams. Empty fields take
// the package defaults.
type Overrides struct {
	MerchantID     string
	MerchantSiteID string
	TotalAmount    string
	Currency       string
	UserTokenID    string
	ItemName       string
	ItemAmount     string
	ItemQuantity   string
	TimeStamp      string
	Version        string
	NotifyURL      string
	ThemeID        string
}

// BuildParams assembles the canonical parameter set. Every string field is
// sanitized; identical overrides produce identical results except for the
// timestamp when it is not explicitly set.
func BuildParams(o Overrides) HostedPageParams {
	p := HostedPageParams{
		MerchantID:     Sanitize(o.MerchantID),
		MerchantSiteID: Sanitize(o.MerchantSiteID),
		TotalAmount:    defaulted(o.TotalAmount, DefaultTotalAmount),
		Currency:       defaulted(o.Currency, DefaultCurrency),
		UserTokenID:    defaulted(o.UserTokenID, DefaultUserTokenID),
		ItemName:       defaulted(o.ItemName, DefaultItemName),
		ItemQuantity:   defaulted(o.ItemQuantity, DefaultItemQuantity),
		TimeStamp:      defaulted(o.TimeStamp, ""),
		Version:        defaulted(o.Version, DefaultVersion),
		NotifyURL:      defaulted(o.NotifyURL, FallbackNotifyURL),
		ThemeID:        Sanitize(o.ThemeID),
	}
	// The single line item's amount follows the total unless set explicitly.
	p.ItemAmount = defaulted(o.ItemAmount, p.TotalAmount)
	if p.TimeStamp == "" {
		p.TimeStamp = Timestamp(time.Now())
	}
	return p
}

func defaulted(v, def string) string {
	v = Sanitize(v)
	if v == "" {
		return def
	}
	return v
}

// orderedValues returns the present parameter values in signing order.
// Absent optional fields are skipped entirely.
func (p HostedPageParams) orderedValues() []string {
	vals := make([]string, 0, len(paramOrder))
	for _, key := range paramOrder {
		if v := p.valueFor(key); v != "" {
			vals = append(vals, v)
		}
	}
	return vals
}

func (p HostedPageParams) valueFor(key string) string {
	switch key {
	case "merchant_id":
		return p.MerchantID
	case "merchant_site_id":
		return p.MerchantSiteID
	case "total_amount":
		return p.TotalAmount
	case "currency":
		return p.Currency
	case "user_token_id":
		return p.UserTokenID
	case "item_name_1":
		return p.ItemName
	case "item_amount_1":
		return p.ItemAmount
	case "item_quantity_1":
		return p.ItemQuantity
	case "time_stamp":
		return p.TimeStamp
	case "version":
		return p.Version
	case "notify_url":
		return p.NotifyURL
	case "theme_id":
		return p.ThemeID
	}
	return ""
}
