package domain

// RegionCode is a sido-level jurisdiction code used to partition the feed.
type RegionCode string

var regionNames = map[RegionCode]string{
	"11": "서울특별시",
	"26": "부산광역시",
	"27": "대구광역시",
	"28": "인천광역시",
	"29": "광주광역시",
	"30": "대전광역시",
	"31": "울산광역시",
	"36": "세종특별자치시",
	"41": "경기도",
	"51": "강원특별자치도",
	"43": "충청북도",
	"44": "충청남도",
	"52": "전북특별자치도",
	"46": "전라남도",
	"47": "경상북도",
	"48": "경상남도",
	"50": "제주특별자치도",
}

var allRegions = []RegionCode{
	"11", "26", "27", "28", "29", "30", "31", "36", "41",
	"51", "43", "44", "52", "46", "47", "48", "50",
}

// AllRegions returns a fresh copy of the 17 fixed region codes.
func AllRegions() []RegionCode {
	out := make([]RegionCode, len(allRegions))
	copy(out, allRegions)
	return out
}

// IsValid reports whether the code is one of the fixed regions.
func (r RegionCode) IsValid() bool {
	_, ok := regionNames[r]
	return ok
}

// Name returns the Korean jurisdiction name, or "" for unknown codes.
func (r RegionCode) Name() string {
	return regionNames[r]
}
