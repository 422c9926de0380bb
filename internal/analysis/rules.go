package analysis

// MajorPlatforms are substrings identifying large, trusted retailers.
// Order is irrelevant for matching but kept stable for display.
var MajorPlatforms = []string{
	"amazon", "flipkart", "myntra", "apple", "bestbuy", "nike", "atomberg",
	"meesho", "ajio", "tatacliq", "jiomart", "shopsy", "nykaa", "croma",
	"reliance", "walmart", "target", "ebay",
}

// ScamKeywords are URL substrings typical of scam or throwaway listings.
var ScamKeywords = []string{
	"free", "offer", "win", "cheap", "discount", "70-off", "urgent",
	"buy-now", "store-closing", "clearance", "jackpot", "lucky",
}

// StorefrontMarkers are hosts of generic self-serve storefront builders.
var StorefrontMarkers = []string{"myshopify"}

// MaxTrustedURLLength is the longest URL the heuristic does not treat as suspicious.
const MaxTrustedURLLength = 80

// TrustedDomains are the retailer domains the model must score 90-99 absent red flags.
var TrustedDomains = []string{
	"amazon.in", "amazon.com", "flipkart.com", "meesho.com", "myntra.com",
	"ajio.com", "tatacliq.com", "jiomart.com", "apple.com", "nike.com",
	"walmart.com", "target.com",
}

// SuspiciousTLDs are top-level domains the model must score 0-40.
var SuspiciousTLDs = []string{".xyz", ".top"}
