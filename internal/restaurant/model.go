package restaurant

import (
	"github.com/pourrice/pourrice/internal/location"
)

const (
	LangEN = "EN"
	LangTC = "TC"
)

// Restaurant mirrors a record from the PourRice restaurants API. Field names
// on the wire follow the upstream bilingual convention.
type Restaurant struct {
	ID         string   `json:"id"`
	NameEN     string   `json:"Name_EN"`
	NameTC     string   `json:"Name_TC"`
	AddressEN  string   `json:"Address_EN,omitempty"`
	AddressTC  string   `json:"Address_TC,omitempty"`
	DistrictEN string   `json:"District_EN,omitempty"`
	DistrictTC string   `json:"District_TC,omitempty"`
	Keywords   []string `json:"Keyword_EN,omitempty"`
	ImageURL   string   `json:"ImageUrl,omitempty"`
	Seats      int      `json:"Seats,omitempty"`
	Latitude   *float64 `json:"Latitude,omitempty"`
	Longitude  *float64 `json:"Longitude,omitempty"`
}

// Point implements location.Locatable. Both coordinates must be present.
func (r Restaurant) Point() (location.GeoPoint, bool) {
	if r.Latitude == nil || r.Longitude == nil {
		return location.GeoPoint{}, false
	}
	return location.NewGeoPoint(*r.Latitude, *r.Longitude), true
}

// DisplayName returns the name in lang, falling back to English.
func (r Restaurant) DisplayName(lang string) string {
	if lang == LangTC && r.NameTC != "" {
		return r.NameTC
	}
	if r.NameEN == "" {
		return r.NameTC
	}
	return r.NameEN
}

// District returns the district in lang, falling back to English.
func (r Restaurant) District(lang string) string {
	if lang == LangTC && r.DistrictTC != "" {
		return r.DistrictTC
	}
	return r.DistrictEN
}

// NormalizeLang maps query values like "zh-HK" or "tc" onto LangEN/LangTC.
func NormalizeLang(lang string) string {
	switch lang {
	case "TC", "tc", "zh", "zh-HK", "zh-TW", "zh-Hant":
		return LangTC
	default:
		return LangEN
	}
}
