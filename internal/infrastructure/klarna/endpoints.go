package klarna

import (
	"net/url"
	"strings"
)

// Regional API hosts. North America serves US purchases, Europe everything else.
const (
	EuropeLiveURL       = "https://api.klarna.com"
	EuropeTestURL       = "https://api.playground.klarna.com"
	NorthAmericaLiveURL = "https://api-na.klarna.com"
	NorthAmericaTestURL = "https://api-na.playground.klarna.com"
)

const (
	checkoutOrdersPath = "/checkout/v3/orders"
	managementPath     = "/ordermanagement/v1/orders"
)

// BaseURL selects the API host for a purchase country and mode.
func BaseURL(purchaseCountry string, test bool) string {
	if strings.EqualFold(purchaseCountry, "US") {
		if test {
			return NorthAmericaTestURL
		}
		return NorthAmericaLiveURL
	}
	if test {
		return EuropeTestURL
	}
	return EuropeLiveURL
}

func checkoutOrderPath(sessionID string) string {
	return checkoutOrdersPath + "/" + url.PathEscape(sessionID)
}

func acknowledgePath(sessionID string) string {
	return managementPath + "/" + url.PathEscape(sessionID) + "/acknowledge"
}

func capturesPath(sessionID string) string {
	return managementPath + "/" + url.PathEscape(sessionID) + "/captures"
}
