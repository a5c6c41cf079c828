package domain

// Monetization types as reported by the offers upstream.
const (
	MonetizationFlatrate = "FLATRATE"
	MonetizationFree     = "FREE"
	MonetizationAds      = "ADS"
	MonetizationRent     = "RENT"
	MonetizationBuy      = "BUY"
)

// OfferPackage identifies the streaming brand behind an offer.
// IconTemplate carries {profile}/{format} placeholder tokens that must be
// substituted before the URL is usable.
type OfferPackage struct {
	TechnicalName string
	ClearName     string
	IconTemplate  string
}

// Offer is one raw streaming offer for a title, as fetched from the offers
// upstream. StandardWebURL may be absent.
type Offer struct {
	MonetizationType string
	StandardWebURL   string
	Package          OfferPackage
}
